// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"slices"

	"github.com/matt-FFFFFF/xtask/internal/ctxlog"
)

var _ Runnable = (*SerialBatch)(nil)

// SerialBatch runs its commands one after the other.
// Each command's RunsOnCondition is checked against the previous command's outcome;
// commands that are not attempted are recorded as skipped children.
type SerialBatch struct {
	*BaseCommand
	Commands []Runnable // The commands or nested batches to run
}

// Run implements the Runnable interface for SerialBatch.
// The batch result takes the status, exit code and cause of its first failing child.
func (b *SerialBatch) Run(ctx context.Context) *Result {
	logger := ctxlog.Logger(ctx).
		With("runnableType", "SerialBatch").
		With("label", b.GetLabel())

	children := make(Results, 0, len(b.Commands))

	prev := PreviousCommandStatus{
		State: ResultStatusSuccess,
	}

	for cmd := range slices.Values(b.Commands) {
		if cmd.ShouldRun(prev) == ShouldRunActionError {
			logger.Debug("skipping command after failed stage", "command", cmd.GetLabel())
			children = append(children, &Result{
				Label:  cmd.GetLabel(),
				Kind:   kindOf(cmd),
				Status: ResultStatusSkipped,
				Error:  ErrSkipOnError,
			})

			continue
		}

		r := cmd.Run(ctx)
		children = append(children, r)

		prev.State = r.Status
		prev.ExitCode = r.ExitCode
		prev.Err = r.Error
	}

	res := &Result{
		Label:    b.GetLabel(),
		Status:   ResultStatusSuccess,
		Children: children,
	}

	if i := slices.IndexFunc(children, func(r *Result) bool { return r.Failed() }); i >= 0 {
		first := children[i]
		res.Kind = first.Kind
		res.Status = first.Status
		res.ExitCode = first.ExitCode
		res.Error = first.Error
	} else if children.HasError() {
		res.Status = ResultStatusError
		res.ExitCode = -1
		res.Error = ErrResultChildrenHasError
	}

	return res
}
