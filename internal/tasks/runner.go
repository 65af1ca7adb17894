// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tasks

import (
	"context"
	"fmt"
	"slices"

	"github.com/matt-FFFFFF/xtask/internal/ctxlog"
	"github.com/matt-FFFFFF/xtask/internal/dispatch"
	"github.com/matt-FFFFFF/xtask/internal/fanout"
	"github.com/matt-FFFFFF/xtask/internal/operation"
	"github.com/matt-FFFFFF/xtask/internal/runbatch"
	"github.com/matt-FFFFFF/xtask/internal/target"
	"github.com/matt-FFFFFF/xtask/internal/workspace"
)

// Runner plans and executes families against one workspace.
type Runner struct {
	Dispatcher  *dispatch.Dispatcher
	ExamplesDir string // directory holding the example sources
	Parallelism int    // fan-out bound, zero means one per CPU
}

// Run plans family and executes it. A non-nil error means nothing was run.
func (r *Runner) Run(ctx context.Context, family Family, req Request) (runbatch.Results, error) {
	p, err := r.Plan(family, req)
	if err != nil {
		return nil, err
	}

	return r.Execute(ctx, p)
}

// Execute runs a plan to completion. Unit failures are in the results.
func (r *Runner) Execute(ctx context.Context, p *Plan) (runbatch.Results, error) {
	ctxlog.Info(ctx, "running", "family", string(p.Family), "units", len(p.Units))

	if p.Sequential {
		units := make([]runbatch.Runnable, len(p.Units))
		for i, u := range p.Units {
			units[i] = r.unit(u, p.Overwrite)
		}

		return fanout.RunEach(ctx, string(p.Family), units), nil
	}

	byName := make(map[string]Unit, len(p.Units))
	for _, u := range p.Units {
		byName[u.Name] = u
	}

	return fanout.RunAll(ctx, func(name string) (runbatch.Runnable, error) {
		return r.unit(byName[name], p.Overwrite), nil
	}, p.Names(), fanout.WithParallelism(r.Parallelism), fanout.WithLabel(string(p.Family)))
}

func (r *Runner) unit(u Unit, overwrite bool) runbatch.Runnable {
	if len(u.Stages) == 1 {
		return r.Dispatcher.Runnable(u.Stages[0], overwrite, runbatch.RunOnSuccess)
	}

	stages := make([]runbatch.Runnable, len(u.Stages))
	for i, op := range u.Stages {
		stages[i] = r.Dispatcher.Runnable(op, overwrite, runbatch.RunOnSuccess)
	}

	return fanout.Pipeline(u.Name, stages...)
}

// Plan constructs every operation of family without running anything.
func (r *Runner) Plan(family Family, req Request) (*Plan, error) {
	t := target.Resolve(req.Backend)
	p := &Plan{Family: family}

	var err error

	switch family {
	case FamilyCheck, FamilyBuild, FamilyClippy:
		p.Units, err = packageUnits(family, req, t)
	case FamilyExampleCheck, FamilyExampleBuild, FamilySize, FamilyQemu:
		p.Units, err = r.exampleUnits(family, req, t)
		p.Overwrite = family == FamilyQemu && req.Overwrite
	case FamilyFormat:
		p.Units = []Unit{{
			Name:   req.Package.String(),
			Stages: []operation.Operation{operation.NewFormat(req.CargoArgs, req.Package, req.CheckOnly)},
		}}
	case FamilyDoc:
		p.Units = []Unit{{
			Name:   operation.KindDoc.String(),
			Stages: []operation.Operation{operation.NewDoc(req.CargoArgs, workspace.ExampleFeatures(t), req.Args)},
		}}
	case FamilyBook:
		p.Units = []Unit{{
			Name:   operation.KindBook.String(),
			Stages: []operation.Operation{operation.NewBook(req.Args)},
		}}
	case FamilyTest:
		p.Sequential = true
		p.Units, err = testUnits(req)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownFamily, family)
	}

	if err != nil {
		return nil, err
	}

	return p, nil
}

// packageUnits builds one unit per selected package, each with its own feature set.
func packageUnits(family Family, req Request, t target.Target) ([]Unit, error) {
	pkgs := req.Package.Packages()
	units := make([]Unit, 0, len(pkgs))

	for _, pkg := range pkgs {
		sel := workspace.Only(pkg)
		features := workspace.Features(t, sel, req.Backend)

		var (
			op  operation.Operation
			err error
		)

		switch family {
		case FamilyCheck:
			op, err = operation.NewCheck(req.CargoArgs, sel, t, features, req.Mode)
		case FamilyBuild:
			op, err = operation.NewBuild(req.CargoArgs, sel, t, features, req.Mode)
		default:
			op, err = operation.NewClippy(req.CargoArgs, sel, t, features, req.Args)
		}

		if err != nil {
			return nil, err
		}

		units = append(units, Unit{Name: pkg.String(), Stages: []operation.Operation{op}})
	}

	return units, nil
}

func (r *Runner) exampleUnits(family Family, req Request, t target.Target) ([]Unit, error) {
	all, err := workspace.Examples(r.ExamplesDir)
	if err != nil {
		return nil, err
	}

	names, err := req.Examples.Apply(all)
	if err != nil {
		return nil, err
	}

	features := workspace.ExampleFeatures(t)
	buildArgs := slices.Concat(req.CargoArgs, []string{quietArg})
	units := make([]Unit, 0, len(names))

	for _, name := range names {
		var stages []operation.Operation

		switch family {
		case FamilyExampleCheck:
			op, err := operation.NewExampleCheck(req.CargoArgs, name, t, features, req.Mode)
			if err != nil {
				return nil, err
			}

			stages = append(stages, op)
		case FamilyExampleBuild:
			op, err := operation.NewExampleBuild(req.CargoArgs, name, t, features, req.Mode)
			if err != nil {
				return nil, err
			}

			stages = append(stages, op)
		case FamilySize:
			build, err := operation.NewExampleBuild(buildArgs, name, t, features, req.Mode)
			if err != nil {
				return nil, err
			}

			size, err := operation.NewExampleSize(req.CargoArgs, name, t, features, req.Mode, req.Args)
			if err != nil {
				return nil, err
			}

			stages = append(stages, build, size)
		case FamilyQemu:
			build, err := operation.NewExampleBuild(buildArgs, name, t, features, req.Mode)
			if err != nil {
				return nil, err
			}

			run, err := operation.NewQemu(req.CargoArgs, name, t, features, req.Mode)
			if err != nil {
				return nil, err
			}

			stages = append(stages, build, run)
		}

		units = append(units, Unit{Name: name, Stages: stages})
	}

	return units, nil
}

// testUnits builds one test operation per selected package, in workspace order.
func testUnits(req Request) ([]Unit, error) {
	pkgs := req.Package.Packages()
	units := make([]Unit, 0, len(pkgs))

	for _, pkg := range pkgs {
		op, err := operation.NewTest(workspace.TestMetadata(pkg, req.Backend))
		if err != nil {
			return nil, err
		}

		units = append(units, Unit{Name: pkg.String(), Stages: []operation.Operation{op}})
	}

	return units, nil
}
