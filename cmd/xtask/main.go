// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the xtask command-line interface (CLI).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/xtask"
	"github.com/matt-FFFFFF/xtask/cmd/xtask/plan"
	"github.com/matt-FFFFFF/xtask/cmd/xtask/run"
	"github.com/matt-FFFFFF/xtask/cmd/xtask/session"
	"github.com/matt-FFFFFF/xtask/internal/ctxlog"
	"github.com/matt-FFFFFF/xtask/internal/signalbroker"
	"github.com/urfave/cli/v3"
)

// exitAborted is the exit code after a repeated termination signal.
const exitAborted = 130

// newRootCmd returns the root command for the CLI.
func newRootCmd() *cli.Command {
	return &cli.Command{
		Commands:  append(run.Commands(), plan.Command()),
		Flags:     session.GlobalFlags(),
		Before:    session.Before,
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		Name:      "xtask",
		Usage:     "Build, check, run and test the RTIC workspace",
		Description: `xtask drives cargo and mdbook over the RTIC workspace.
Each command fans out over the selected packages or examples, runs every one of them
to completion, and reports all failures together. The exit code is non-zero when any
invocation failed or an emulator run did not produce its expected output.`,
		Version:               fmt.Sprintf("%s (commit: %s)", xtask.Version, xtask.Commit),
		Copyright:             "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
		EnableShellCompletion: true,
	}
}

func main() {
	ctx := ctxlog.New(context.Background(), ctxlog.DefaultLogger)

	sigCh := signalbroker.New(ctx)

	go signalbroker.Watch(ctx, sigCh, func() {
		os.Exit(exitAborted)
	})

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		ctxlog.Error(ctx, "command failed", "error", err)
		os.Exit(1)
	}
}
