// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package session

import (
	"context"
	"io"
	"testing"

	"github.com/matt-FFFFFF/xtask/internal/config"
	"github.com/matt-FFFFFF/xtask/internal/operation"
	"github.com/matt-FFFFFF/xtask/internal/target"
	"github.com/matt-FFFFFF/xtask/internal/tasks"
	"github.com/matt-FFFFFF/xtask/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

// parse runs args through a root command with the global flags and a single
// sub command, and returns what NewRequest and OutputOptions build from it.
func parse(t *testing.T, cfg *config.Config, args ...string) (tasks.Request, error) {
	t.Helper()

	var (
		req    tasks.Request
		reqErr error
	)

	root := &cli.Command{
		Name:      "xtask",
		Flags:     GlobalFlags(),
		Writer:    io.Discard,
		ErrWriter: io.Discard,
		Commands: []*cli.Command{
			{
				Name: "sub",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: CheckFlag},
					&cli.BoolFlag{Name: OverwriteExpectedFlag},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					req, reqErr = NewRequest(cmd, cfg)
					return nil
				},
			},
		},
	}

	require.NoError(t, root.Run(context.Background(), append([]string{"xtask"}, args...)))

	return req, reqErr
}

func TestNewRequestDefaults(t *testing.T) {
	req, err := parse(t, config.Default(), "sub")
	require.NoError(t, err)

	assert.Equal(t, target.Thumbv7, req.Backend)
	assert.True(t, req.Package.IsAll())
	assert.Equal(t, workspace.ExampleFilter{}, req.Examples)
	assert.Empty(t, req.CargoArgs)
	assert.Equal(t, operation.Release, req.Mode)
	assert.Empty(t, req.Args)
	assert.False(t, req.CheckOnly)
	assert.False(t, req.Overwrite)
}

func TestNewRequestFlags(t *testing.T) {
	cfg := config.Default()
	cfg.Backend = "thumbv8-main"
	cfg.CargoArgs = []string{"--locked"}

	req, err := parse(t, cfg,
		"--backend", "thumbv6",
		"-p", "rtic-sync",
		"--example", "blinky",
		"--exampleexclude", "idle",
		"--cargoarg", "+nightly",
		"--cargoarg", "--offline",
		"sub", "--check", "--overwrite-expected", "extra",
	)
	require.NoError(t, err)

	assert.Equal(t, target.Thumbv6, req.Backend)

	pkg, ok := req.Package.Package()
	require.True(t, ok)
	assert.Equal(t, workspace.RticSync, pkg)

	assert.Equal(t, workspace.ExampleFilter{Include: "blinky", Exclude: "idle"}, req.Examples)
	assert.Equal(t, []string{"--locked", "+nightly", "--offline"}, req.CargoArgs)
	assert.Equal(t, operation.ExtraArguments{"extra"}, req.Args)
	assert.True(t, req.CheckOnly)
	assert.True(t, req.Overwrite)
}

func TestNewRequestBackendFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Backend = "thumbv8-base"

	req, err := parse(t, cfg, "sub")
	require.NoError(t, err)
	assert.Equal(t, target.Thumbv8Base, req.Backend)
}

func TestNewRequestErrors(t *testing.T) {
	_, err := parse(t, config.Default(), "--backend", "riscv", "sub")
	require.ErrorIs(t, err, target.ErrUnknownBackend)

	_, err = parse(t, config.Default(), "--package", "serde", "sub")
	require.ErrorIs(t, err, workspace.ErrUnknownPackage)
}

func TestNewLayout(t *testing.T) {
	cfg := config.Default()
	cfg.Cargo = "/opt/cargo"
	cfg.BookDir = "/ws/book/zh"

	l := NewLayout(cfg)
	assert.Equal(t, "/opt/cargo", l.Cargo)
	assert.Equal(t, "mdbook", l.MdBook)
	assert.Equal(t, "rtic", l.ExamplesPackage)
	assert.Equal(t, "/ws/book/zh", l.BookDir)
}
