// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package commandinpath

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, mode os.FileMode) string {
	t.Helper()

	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte("#!/bin/sh\n"), mode))
	require.NoError(t, os.Chmod(p, mode))

	return p
}

func TestFind(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("exec bit checks do not apply")
	}

	noexec := t.TempDir()
	exec := t.TempDir()

	writeFile(t, noexec, "cargo", 0o644)
	want := writeFile(t, exec, "cargo", 0o755)
	require.NoError(t, os.Mkdir(filepath.Join(exec, "mdbook"), 0o755))

	t.Setenv("PATH", noexec+string(os.PathListSeparator)+exec)

	got, err := Find("cargo")
	require.NoError(t, err)
	assert.Equal(t, want, got, "non-executable entries earlier on PATH are ignored")

	_, err = Find("mdbook")
	require.ErrorIs(t, err, ErrNotFound, "directories are not commands")

	_, err = Find("")
	require.ErrorIs(t, err, ErrEmptyCommand)

	got, err = Find(want)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = Find(filepath.Join(noexec, "cargo"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNew(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("exec bit checks do not apply")
	}

	dir := t.TempDir()
	path := writeFile(t, dir, "cargo", 0o755)
	t.Setenv("PATH", dir)

	cmd, err := New("blinky", "example-build", "cargo", "/ws", []string{"build"}, map[string]string{"A": "b"})
	require.NoError(t, err)
	assert.Equal(t, path, cmd.Path)
	assert.Equal(t, "blinky", cmd.GetLabel())
	assert.Equal(t, "example-build", cmd.Kind)
	assert.Equal(t, "/ws", cmd.Cwd)
	assert.Equal(t, []string{"build"}, cmd.Args)

	_, err = New("x", "check", "not-a-real-tool", "", nil, nil)
	require.ErrorIs(t, err, ErrNotFound)
}
