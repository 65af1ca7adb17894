// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package session

import (
	"context"
	"log/slog"
	"strings"

	"github.com/matt-FFFFFF/xtask/internal/ctxlog"
	"github.com/matt-FFFFFF/xtask/internal/target"
	"github.com/urfave/cli/v3"
)

// Flag names shared by the command tree.
const (
	BackendFlag              = "backend"
	PackageFlag              = "package"
	ExampleFlag              = "example"
	ExampleExcludeFlag       = "exampleexclude"
	CargoArgFlag             = "cargoarg"
	ParallelismFlag          = "parallelism"
	ConfigFlag               = "config"
	VerboseFlag              = "verbose"
	OutputStdOutFlag         = "output-stdout"
	NoOutputStdErrFlag       = "no-output-stderr"
	OutputSuccessDetailsFlag = "output-success-details"
	CheckFlag                = "check"
	OverwriteExpectedFlag    = "overwrite-expected"
)

// GlobalFlags returns the flags accepted before any command.
func GlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    BackendFlag,
			Usage:   "Backend to compile for, one of " + strings.Join(target.Names(), ", ") + ". Defaults to the configured backend.",
			Sources: cli.EnvVars("XTASK_BACKEND"),
		},
		&cli.StringFlag{
			Name:    PackageFlag,
			Aliases: []string{"p"},
			Usage:   "Only run for this workspace package. Defaults to every package.",
		},
		&cli.StringFlag{
			Name:  ExampleFlag,
			Usage: "Only run this example",
		},
		&cli.StringFlag{
			Name:  ExampleExcludeFlag,
			Usage: "Run every example except this one",
		},
		&cli.StringSliceFlag{
			Name:  CargoArgFlag,
			Usage: "Argument placed before the cargo subcommand, e.g. +nightly. Specify multiple times for more.",
		},
		&cli.IntFlag{
			Name:    ParallelismFlag,
			Aliases: []string{"j"},
			Usage: "Set the maximum number of concurrent invocations. " +
				"Defaults to the configured value, or the number of CPU cores available.",
			Sources: cli.EnvVars("XTASK_PARALLELISM"),
		},
		&cli.StringFlag{
			Name:    ConfigFlag,
			Aliases: []string{"c"},
			Usage: "Configuration file. Supports Hashicorp's go-getter syntax for fetching files from various sources. " +
				"Defaults to xtask.yaml, xtask.yml or xtask.hcl in the working directory.",
			TakesFile: true,
		},
		&cli.BoolFlag{
			Name:    VerboseFlag,
			Aliases: []string{"v"},
			Usage:   "Log at debug level",
		},
		&cli.BoolFlag{
			Name:    OutputStdOutFlag,
			Aliases: []string{"stdout"},
			Usage:   "Include stdout output in the results",
		},
		&cli.BoolFlag{
			Name:    NoOutputStdErrFlag,
			Aliases: []string{"no-stderr"},
			Usage:   "Exclude stderr output in the results",
		},
		&cli.BoolFlag{
			Name:    OutputSuccessDetailsFlag,
			Aliases: []string{"success"},
			Usage:   "Include the output of successful invocations in the results",
		},
	}
}

// Before raises the log level when --verbose is given.
func Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool(VerboseFlag) {
		ctxlog.SetLevel(slog.LevelDebug)
	}

	return ctx, nil
}
