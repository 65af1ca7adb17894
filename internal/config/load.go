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

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/matt-FFFFFF/xtask/internal/ctxlog"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
)

// FileNames are looked up in order in the working directory when no file is given.
var FileNames = []string{"xtask.yaml", "xtask.yml", "xtask.hcl"}

// Load returns the configuration from source, or from the first of FileNames
// found in cwd when source is empty. Without a file the defaults are used.
// The result is validated and its directories are resolved.
func Load(ctx context.Context, cwd, source string) (*Config, error) {
	cfg := Default()

	name, data, err := read(ctx, cwd, source)
	if err != nil {
		return nil, err
	}

	if data != nil {
		ctxlog.Debug(ctx, "loading config", "file", name)

		if err := Decode(name, data, cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.Resolve(cwd)

	return cfg, nil
}

// Decode decodes data onto cfg. The format follows the file extension of name.
func Decode(name string, data []byte, cfg *Config) error {
	// getter sources may carry a query, e.g. ?ref=main
	file, _, _ := strings.Cut(name, "?")
	file = filepath.Base(file)

	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrParseConfig, name, err)
		}
	case ".hcl":
		if err := hclsimple.Decode(file, data, evalContext(), cfg); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrParseConfig, name, err)
		}
	default:
		return fmt.Errorf("%w: %s: unsupported file type", ErrParseConfig, name)
	}

	return nil
}

// evalContext exposes the process environment to HCL as env.NAME.
func evalContext() *hcl.EvalContext {
	vars := map[string]cty.Value{}

	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" || !hclIdentifier(k) {
			continue
		}

		vars[k] = cty.StringVal(v)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
	}
}

func hclIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '-'):
		default:
			return false
		}
	}

	return true
}

// read returns the name and content of the configuration file.
// A nil slice means there is no file.
func read(ctx context.Context, cwd, source string) (string, []byte, error) {
	fs := FsFactory()

	if source == "" {
		for _, n := range FileNames {
			p := filepath.Join(cwd, n)

			data, err := afero.ReadFile(fs, p)
			if errors.Is(err, os.ErrNotExist) {
				continue
			}

			if err != nil {
				return "", nil, errors.Join(ErrLoadConfig, err)
			}

			return p, data, nil
		}

		return "", nil, nil
	}

	local := source
	if !filepath.IsAbs(local) {
		local = filepath.Join(cwd, local)
	}

	if ok, _ := afero.Exists(fs, local); ok {
		data, err := afero.ReadFile(fs, local)
		if err != nil {
			return "", nil, errors.Join(ErrLoadConfig, err)
		}

		return local, data, nil
	}

	data, err := fetch(ctx, cwd, source)
	if err != nil {
		return "", nil, err
	}

	return source, data, nil
}
