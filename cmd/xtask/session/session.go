// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package session turns command-line flags and the configuration file into
// what a command needs to plan and run a family.
package session

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/matt-FFFFFF/xtask/internal/baseline"
	"github.com/matt-FFFFFF/xtask/internal/config"
	"github.com/matt-FFFFFF/xtask/internal/ctxlog"
	"github.com/matt-FFFFFF/xtask/internal/dispatch"
	"github.com/matt-FFFFFF/xtask/internal/operation"
	"github.com/matt-FFFFFF/xtask/internal/runbatch"
	"github.com/matt-FFFFFF/xtask/internal/target"
	"github.com/matt-FFFFFF/xtask/internal/tasks"
	"github.com/matt-FFFFFF/xtask/internal/workspace"
	"github.com/urfave/cli/v3"
)

// Session is a loaded configuration together with the request built from the flags.
type Session struct {
	Config  *config.Config
	Layout  dispatch.Layout
	Request tasks.Request
	Runner  *tasks.Runner
	Output  *runbatch.OutputOptions
}

// New loads the configuration named by --config, or discovered in the working
// directory, and builds the request for cmd.
func New(ctx context.Context, cmd *cli.Command) (*Session, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg, err := config.Load(ctx, cwd, cmd.String(ConfigFlag))
	if err != nil {
		return nil, err
	}

	req, err := NewRequest(cmd, cfg)
	if err != nil {
		return nil, err
	}

	layout := NewLayout(cfg)

	parallelism := cfg.Parallelism
	if n := cmd.Int(ParallelismFlag); n > 0 {
		parallelism = n
	}

	ctxlog.Debug(ctx, "session",
		"workspace", cfg.WorkspaceRoot,
		"backend", req.Backend.String(),
		"package", req.Package.String(),
		"parallelism", parallelism,
	)

	return &Session{
		Config:  cfg,
		Layout:  layout,
		Request: req,
		Runner: &tasks.Runner{
			Dispatcher: dispatch.New(layout, cfg.WorkspaceRoot,
				dispatch.WithBaselines(baseline.NewStore(cfg.ExpectedDir, cfg.ExpectedExt))),
			ExamplesDir: cfg.ExamplesDir,
			Parallelism: parallelism,
		},
		Output: OutputOptions(cmd),
	}, nil
}

// NewLayout returns the invocation layout described by cfg.
func NewLayout(cfg *config.Config) dispatch.Layout {
	l := dispatch.DefaultLayout()
	l.Cargo = cfg.Cargo
	l.MdBook = cfg.MdBook
	l.ExamplesPackage = cfg.ExamplesPackage
	l.BookDir = cfg.BookDir

	return l
}

// NewRequest builds a request from the flags of cmd and its parents.
// Positional arguments are passed through to the invoked tool.
func NewRequest(cmd *cli.Command, cfg *config.Config) (tasks.Request, error) {
	name := cmd.String(BackendFlag)
	if name == "" {
		name = cfg.Backend
	}

	backend, err := target.Parse(name)
	if err != nil {
		return tasks.Request{}, err
	}

	pkg, err := workspace.ParseSelector(cmd.String(PackageFlag))
	if err != nil {
		return tasks.Request{}, err
	}

	return tasks.Request{
		Backend: backend,
		Package: pkg,
		Examples: workspace.ExampleFilter{
			Include: cmd.String(ExampleFlag),
			Exclude: cmd.String(ExampleExcludeFlag),
		},
		CargoArgs: slices.Concat(cfg.CargoArgs, cmd.StringSlice(CargoArgFlag)),
		Mode:      operation.Release,
		Args:      operation.ExtraArguments(cmd.Args().Slice()),
		CheckOnly: cmd.Bool(CheckFlag),
		Overwrite: cmd.Bool(OverwriteExpectedFlag),
	}, nil
}

// OutputOptions returns the report options selected by the output flags.
func OutputOptions(cmd *cli.Command) *runbatch.OutputOptions {
	return &runbatch.OutputOptions{
		IncludeStdOut:      cmd.Bool(OutputStdOutFlag),
		IncludeStdErr:      !cmd.Bool(NoOutputStdErrFlag),
		ShowSuccessDetails: cmd.Bool(OutputSuccessDetailsFlag),
	}
}
