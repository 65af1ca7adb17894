// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package fanout applies one unit of work to many names at once.
package fanout

import (
	"context"
	"errors"
	"fmt"

	"github.com/matt-FFFFFF/xtask/internal/ctxlog"
	"github.com/matt-FFFFFF/xtask/internal/runbatch"
)

// ErrBind is returned when a unit cannot be constructed for a name.
var ErrBind = errors.New("could not bind unit")

// Template binds the unit of work for one name.
type Template func(name string) (runbatch.Runnable, error)

type options struct {
	parallelism int
	label       string
}

// Option configures RunAll.
type Option func(*options)

// WithParallelism bounds the number of units in flight. Zero or less means one per CPU.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithLabel names the batch in logs.
func WithLabel(label string) Option {
	return func(o *options) {
		o.label = label
	}
}

// Bind applies tmpl to every name. Nothing runs; the first failure is returned.
func Bind(tmpl Template, names []string) ([]runbatch.Runnable, error) {
	units := make([]runbatch.Runnable, len(names))

	for i, name := range names {
		u, err := tmpl(name)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrBind, name, err)
		}

		units[i] = u
	}

	return units, nil
}

// RunAll binds one unit per name and runs them concurrently.
// Every unit runs to completion whatever the others do. The results are in
// the order of names, one per name.
func RunAll(ctx context.Context, tmpl Template, names []string, opts ...Option) (runbatch.Results, error) {
	o := options{label: "fan-out"}
	for _, opt := range opts {
		opt(&o)
	}

	units, err := Bind(tmpl, names)
	if err != nil {
		return nil, err
	}

	ctxlog.Debug(ctx, "fan-out starting", "label", o.label, "units", len(units))

	batch := &runbatch.ParallelBatch{
		BaseCommand: runbatch.NewBaseCommand(o.label, runbatch.RunOnAlways),
		Commands:    units,
		Parallelism: o.parallelism,
	}

	return batch.Run(ctx).Children, nil
}

// RunEach runs units one after the other in the given order. Every unit is
// attempted, whatever the outcome of the ones before it.
func RunEach(ctx context.Context, label string, units []runbatch.Runnable) runbatch.Results {
	always := make([]runbatch.Runnable, len(units))
	for i, u := range units {
		always[i] = alwaysRun{u}
	}

	batch := &runbatch.SerialBatch{
		BaseCommand: runbatch.NewBaseCommand(label, runbatch.RunOnAlways),
		Commands:    always,
	}

	return batch.Run(ctx).Children
}

// Pipeline chains stages for one name. Each stage runs only when the one
// before it succeeded; later stages are recorded as skipped otherwise.
func Pipeline(label string, stages ...runbatch.Runnable) *runbatch.SerialBatch {
	return &runbatch.SerialBatch{
		BaseCommand: runbatch.NewBaseCommand(label, runbatch.RunOnSuccess),
		Commands:    stages,
	}
}

type alwaysRun struct {
	runbatch.Runnable
}

func (alwaysRun) ShouldRun(runbatch.PreviousCommandStatus) runbatch.ShouldRunAction {
	return runbatch.ShouldRunActionRun
}
