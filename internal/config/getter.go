// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter/v2"
	"github.com/matt-FFFFFF/xtask/internal/ctxlog"
)

const (
	getterPathSeparator = "//"
	getterRefSeparator  = "?"
	minimumGetterParts  = 3 // scheme, host and path
)

// fetch downloads a configuration file from any go-getter source, e.g.
// git::https://example.com/repo//ci/xtask.yaml?ref=main.
// go-getter cannot fetch a single file out of a repository, so the directory
// holding it is fetched and the file read from there.
func fetch(ctx context.Context, cwd, src string) ([]byte, error) {
	if src == "" {
		return nil, fmt.Errorf("%w: empty source", ErrLoadConfig)
	}

	tmpDir, err := os.MkdirTemp("", "xtask-getter-*")
	if err != nil {
		return nil, errors.Join(ErrLoadConfig, err)
	}

	defer os.RemoveAll(tmpDir) //nolint:errcheck

	client := getter.Client{
		DisableSymlinks: true,
	}

	req := &getter.Request{
		Src:     src,
		Dst:     filepath.Join(tmpDir, "g"),
		Pwd:     cwd,
		GetMode: getter.ModeDir,
	}

	var fileName string

	if ok, err := getter.Detect(req, &getter.FileGetter{}); !ok || err != nil {
		if err != nil {
			return nil, errors.Join(ErrLoadConfig, err)
		}

		var dirSrc string

		dirSrc, fileName = splitGetterSource(src)
		if dirSrc == "" || fileName == "" {
			return nil, fmt.Errorf("%w: source does not name a file: %s", ErrLoadConfig, src)
		}

		req.Src = dirSrc
	}

	if fileName == "" {
		req.Src = filepath.Dir(src)
		fileName = filepath.Base(src)
	}

	ctxlog.Debug(ctx, "fetching config", "source", req.Src, "file", fileName)

	res, err := client.Get(ctx, req)
	if err != nil {
		return nil, errors.Join(ErrLoadConfig, err)
	}

	data, err := os.ReadFile(filepath.Join(res.Dst, fileName))
	if err != nil {
		return nil, errors.Join(ErrLoadConfig, err)
	}

	return data, nil
}

// splitGetterSource splits a go-getter source naming a file into the source
// of its directory and the file name. A ref query is kept on the directory source.
func splitGetterSource(src string) (string, string) {
	parts := strings.Split(src, getterPathSeparator)
	if len(parts) < minimumGetterParts {
		return "", ""
	}

	last := parts[len(parts)-1]

	var ref string
	if before, after, ok := strings.Cut(last, getterRefSeparator); ok {
		last, ref = before, after
	}

	if last == "" || filepath.Clean(last) == filepath.Dir(last) {
		return "", ""
	}

	fileName := filepath.Base(last)

	if dir := filepath.Dir(last); dir == "." {
		parts = parts[:len(parts)-1]
	} else {
		parts[len(parts)-1] = dir
	}

	dirSrc := strings.Join(parts, getterPathSeparator)
	if ref != "" {
		dirSrc += getterRefSeparator + ref
	}

	return dirSrc, fileName
}
