// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package commandinpath resolves a program name to an executable on PATH.
package commandinpath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/matt-FFFFFF/xtask/internal/runbatch"
)

var (
	// ErrEmptyCommand is returned when no program name is given.
	ErrEmptyCommand = errors.New("empty command")
	// ErrNotFound is returned when no executable of that name is on PATH.
	ErrNotFound = errors.New("executable not found in PATH")
)

// Find returns the full path of command. A name containing a path separator
// is checked as given and never searched for.
func Find(command string) (string, error) {
	if command == "" {
		return "", ErrEmptyCommand
	}

	if strings.ContainsRune(command, filepath.Separator) || strings.ContainsRune(command, '/') {
		if isExecutable(command) {
			return command, nil
		}

		return "", fmt.Errorf("%w: %s", ErrNotFound, command)
	}

	names := []string{command}
	if runtime.GOOS == "windows" && filepath.Ext(command) == "" {
		names = append(names, command+".exe")
	}

	for dir := range strings.SplitSeq(os.Getenv("PATH"), string(os.PathListSeparator)) {
		if dir == "" {
			continue
		}

		for _, n := range names {
			if p := filepath.Join(dir, n); isExecutable(p) {
				return p, nil
			}
		}
	}

	return "", fmt.Errorf("%w: %s", ErrNotFound, command)
}

// New resolves command and wraps it in an OSCommand.
func New(label, kind, command, cwd string, args []string, env map[string]string) (*runbatch.OSCommand, error) {
	path, err := Find(command)
	if err != nil {
		return nil, err
	}

	return &runbatch.OSCommand{
		BaseCommand: runbatch.NewBaseCommand(label, runbatch.RunOnSuccess),
		Kind:        kind,
		Path:        path,
		Cwd:         cwd,
		Args:        args,
		Env:         env,
	}, nil
}

func isExecutable(p string) bool {
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return false
	}

	// no exec bit on windows
	return runtime.GOOS == "windows" || info.Mode()&0o111 != 0
}
