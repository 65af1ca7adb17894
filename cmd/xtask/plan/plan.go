// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package plan prints the invocations a family would run without running them.
package plan

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/xtask/cmd/xtask/session"
	"github.com/matt-FFFFFF/xtask/internal/aggregate"
	"github.com/matt-FFFFFF/xtask/internal/tasks"
	"github.com/urfave/cli/v3"
)

const familyFlag = "family"

// Command returns the command printing the plan of a family as YAML.
func Command() *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "Print the invocations a family would run, without running them",
		Description: `The plan lists one unit per example or package, and the invocations
of each unit in the order they run. Global flags apply as they would to the family itself.`,
		ArgsUsage: "[-- args...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     familyFlag,
				Aliases:  []string{"f"},
				Usage:    "Family to plan, one of " + familyNames(),
				Required: true,
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	family, err := tasks.ParseFamily(cmd.String(familyFlag))
	if err != nil {
		return cli.Exit(err.Error(), aggregate.ExitFailure)
	}

	s, err := session.New(ctx, cmd)
	if err != nil {
		return cli.Exit(err.Error(), aggregate.ExitFailure)
	}

	p, err := s.Runner.Plan(family, s.Request)
	if err != nil {
		return cli.Exit(err.Error(), aggregate.ExitFailure)
	}

	out, err := yaml.Marshal(p.View(s.Layout))
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to marshal plan: %s", err), aggregate.ExitFailure)
	}

	if _, err := cmd.Root().Writer.Write(out); err != nil {
		return cli.Exit(fmt.Sprintf("failed to write plan: %s", err), aggregate.ExitFailure)
	}

	return nil
}

func familyNames() string {
	fams := tasks.Families()
	names := make([]string, len(fams))

	for i, f := range fams {
		names[i] = string(f)
	}

	return strings.Join(names, ", ")
}
