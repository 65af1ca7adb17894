// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/matt-FFFFFF/xtask/internal/baseline"
	"github.com/matt-FFFFFF/xtask/internal/commandinpath"
	"github.com/matt-FFFFFF/xtask/internal/ctxlog"
	"github.com/matt-FFFFFF/xtask/internal/operation"
	"github.com/matt-FFFFFF/xtask/internal/runbatch"
)

// ErrNoBaselineStore is reported when an emulator run has nowhere to compare its output.
var ErrNoBaselineStore = errors.New("no baseline store configured")

// Executor runs an invocation to completion and classifies its exit status.
type Executor interface {
	Execute(ctx context.Context, label, kind string, inv Invocation) *runbatch.Result
}

// ProcessExecutor runs invocations as operating system processes in Dir.
type ProcessExecutor struct {
	Dir string
}

// Execute implements Executor. A program missing from PATH is a tool failure.
func (p ProcessExecutor) Execute(ctx context.Context, label, kind string, inv Invocation) *runbatch.Result {
	cmd, err := commandinpath.New(label, kind, inv.Program, p.Dir, inv.Args, inv.Env)
	if err != nil {
		return &runbatch.Result{
			Label:    label,
			Kind:     kind,
			Status:   runbatch.ResultStatusToolFailed,
			ExitCode: -1,
			Error:    errors.Join(runbatch.ErrCouldNotStartProcess, err),
		}
	}

	return cmd.Run(ctx)
}

// Dispatcher renders operations and executes them.
type Dispatcher struct {
	Layout    Layout
	Executor  Executor
	Baselines *baseline.Store
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithExecutor replaces the process executor.
func WithExecutor(e Executor) Option {
	return func(d *Dispatcher) {
		d.Executor = e
	}
}

// WithBaselines sets the store emulator output is compared against.
func WithBaselines(s *baseline.Store) Option {
	return func(d *Dispatcher) {
		d.Baselines = s
	}
}

// New returns a Dispatcher running processes in dir.
func New(layout Layout, dir string, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		Layout:   layout,
		Executor: ProcessExecutor{Dir: dir},
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Execute runs op once and returns its outcome. Failures are reported in the
// result, never as a panic or an error return. overwrite only affects emulator
// runs: the captured output replaces the baseline instead of being compared to it.
func (d *Dispatcher) Execute(ctx context.Context, op operation.Operation, overwrite bool) *runbatch.Result {
	inv := d.Layout.Render(op)
	label := operation.Subject(op)
	kind := op.Kind().String()

	logger := ctxlog.Logger(ctx).With("label", label, "kind", kind)
	logger.Debug("dispatching", "command", inv.Program+" "+strings.Join(inv.Args, " "))

	res := d.Executor.Execute(ctx, label, kind, inv)
	res.Label = label
	res.Kind = kind

	if q, ok := op.(operation.Qemu); ok && res.Status == runbatch.ResultStatusSuccess {
		d.checkOutput(ctx, q.Example, res, overwrite)
	}

	if res.Failed() {
		logger.Error("operation failed", "status", res.Status.String(), "exitCode", res.ExitCode)
	} else {
		logger.Info("operation finished", "status", res.Status.String(), "exitCode", res.ExitCode)
	}

	return res
}

// Runnable wraps op so it can take part in a batch.
func (d *Dispatcher) Runnable(op operation.Operation, overwrite bool, runsOn runbatch.RunCondition) runbatch.Runnable {
	cmd := runbatch.NewFunctionCommand(operation.Subject(op), runsOn, func(ctx context.Context) *runbatch.Result {
		return d.Execute(ctx, op, overwrite)
	})
	cmd.Kind = op.Kind().String()

	return cmd
}

func (d *Dispatcher) checkOutput(ctx context.Context, example string, res *runbatch.Result, overwrite bool) {
	if d.Baselines == nil {
		res.Status = runbatch.ResultStatusError
		res.Error = ErrNoBaselineStore

		return
	}

	if overwrite {
		if err := d.Baselines.Overwrite(example, res.StdOut); err != nil {
			res.Status = runbatch.ResultStatusError
			res.Error = fmt.Errorf("%s: %w", example, err)

			return
		}

		ctxlog.Info(ctx, "expected output updated", "example", example, "path", d.Baselines.Path(example))

		return
	}

	err := d.Baselines.Compare(example, res.StdOut)

	switch {
	case err == nil:
	case errors.Is(err, baseline.ErrMismatch), errors.Is(err, baseline.ErrBaselineMissing):
		res.Status = runbatch.ResultStatusMismatch
		res.Error = err
	default:
		res.Status = runbatch.ResultStatusError
		res.Error = err
	}
}
