// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"runtime"

	"github.com/matt-FFFFFF/xtask/internal/ctxlog"
	"golang.org/x/sync/errgroup"
)

var _ Runnable = (*ParallelBatch)(nil)

// ParallelBatch represents a collection of commands, which are run concurrently
// on a bounded number of workers.
type ParallelBatch struct {
	*BaseCommand
	Commands    []Runnable // The commands or nested batches to run
	Parallelism int        // Maximum number of commands in flight, defaults to the number of CPUs
}

// Run implements the Runnable interface for ParallelBatch.
// It waits for every command, whatever their outcome. Children are returned in
// the order of Commands, not in completion order.
func (b *ParallelBatch) Run(ctx context.Context) *Result {
	limit := b.Parallelism
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	logger := ctxlog.Logger(ctx).
		With("runnableType", "ParallelBatch").
		With("label", b.GetLabel())

	logger.Debug("starting parallel batch", "commands", len(b.Commands), "parallelism", limit)

	// Each slot is written by exactly one goroutine and read after Wait.
	children := make(Results, len(b.Commands))

	var g errgroup.Group

	g.SetLimit(limit)

	for i, cmd := range b.Commands {
		g.Go(func() error {
			children[i] = cmd.Run(ctx)
			return nil
		})
	}

	_ = g.Wait()

	res := &Result{
		Label:    b.GetLabel(),
		Status:   ResultStatusSuccess,
		Children: children,
	}

	if children.HasError() {
		res.ExitCode = -1
		res.Error = ErrResultChildrenHasError
		res.Status = ResultStatusError
	}

	logger.Debug("parallel batch finished", "status", res.Status.String())

	return res
}
