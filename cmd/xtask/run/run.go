// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package run contains one command per family. Each plans the family,
// runs it to completion and writes the report to standard output.
package run

import (
	"context"

	"github.com/matt-FFFFFF/xtask/cmd/xtask/session"
	"github.com/matt-FFFFFF/xtask/internal/aggregate"
	"github.com/matt-FFFFFF/xtask/internal/ctxlog"
	"github.com/matt-FFFFFF/xtask/internal/tasks"
	"github.com/urfave/cli/v3"
)

const passthroughUsage = "[-- args...]"

// Commands returns the family commands.
func Commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:   string(tasks.FamilyCheck),
			Usage:  "Check the workspace packages for the selected backend",
			Action: actionFunc(tasks.FamilyCheck),
		},
		{
			Name:   string(tasks.FamilyBuild),
			Usage:  "Build the workspace packages for the selected backend",
			Action: actionFunc(tasks.FamilyBuild),
		},
		{
			Name:   string(tasks.FamilyExampleCheck),
			Usage:  "Check every selected example",
			Action: actionFunc(tasks.FamilyExampleCheck),
		},
		{
			Name:   string(tasks.FamilyExampleBuild),
			Usage:  "Build every selected example",
			Action: actionFunc(tasks.FamilyExampleBuild),
		},
		{
			Name:      string(tasks.FamilySize),
			Usage:     "Build every selected example and report its size",
			ArgsUsage: passthroughUsage,
			Description: `Arguments after -- are passed to the size tool, e.g.

   xtask size -- -A`,
			Action: actionFunc(tasks.FamilySize),
		},
		{
			Name:      string(tasks.FamilyClippy),
			Usage:     "Run clippy on the workspace packages",
			ArgsUsage: passthroughUsage,
			Action:    actionFunc(tasks.FamilyClippy),
		},
		{
			Name:  string(tasks.FamilyFormat),
			Usage: "Format the workspace packages",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  session.CheckFlag,
					Usage: "Only check the formatting, do not change any file",
				},
			},
			Action: actionFunc(tasks.FamilyFormat),
		},
		{
			Name:      string(tasks.FamilyDoc),
			Usage:     "Build the API documentation",
			ArgsUsage: passthroughUsage,
			Action:    actionFunc(tasks.FamilyDoc),
		},
		{
			Name:      string(tasks.FamilyBook),
			Usage:     "Build the book",
			ArgsUsage: passthroughUsage,
			Action:    actionFunc(tasks.FamilyBook),
		},
		{
			Name:    string(tasks.FamilyQemu),
			Aliases: []string{"run"},
			Usage:   "Build and run every selected example in the emulator and compare its output",
			Description: `Each example is built first; an example whose build fails is not run.
The output of a run is compared to the expected output of the example.
With --overwrite-expected the output replaces the expected output instead.`,
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  session.OverwriteExpectedFlag,
					Usage: "Replace the expected output with the output of each successful run",
				},
			},
			Action: actionFunc(tasks.FamilyQemu),
		},
		{
			Name:   string(tasks.FamilyTest),
			Usage:  "Run the host tests of the workspace packages, one package at a time",
			Action: actionFunc(tasks.FamilyTest),
		},
	}
}

func actionFunc(family tasks.Family) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		s, err := session.New(ctx, cmd)
		if err != nil {
			return cli.Exit(err.Error(), aggregate.ExitFailure)
		}

		results, err := s.Runner.Run(ctx, family, s.Request)
		if err != nil {
			return cli.Exit(err.Error(), aggregate.ExitFailure)
		}

		code, report := aggregate.Finalize(results)

		if err := report.Write(cmd.Root().Writer, s.Output); err != nil {
			ctxlog.Error(ctx, "failed to write report", "error", err)
		}

		if code != aggregate.ExitSuccess {
			return cli.Exit(report.Summary().Error(), code)
		}

		return nil
	}
}
