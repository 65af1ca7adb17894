// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package signalbroker listens for termination signals.
//
// Child processes share the terminal's process group and receive an interrupt
// directly, so the first signal of a kind is only logged: the running
// invocations fail on their own and their results are still reported.
// A second signal of the same kind aborts.
package signalbroker

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/matt-FFFFFF/xtask/internal/ctxlog"
)

var termSignals = []os.Signal{
	os.Interrupt,
	syscall.SIGTERM,
	syscall.SIGQUIT,
}

// New returns a channel notified of sigs, or of the termination signals when none are given.
func New(ctx context.Context, sigs ...os.Signal) chan os.Signal {
	ch := make(chan os.Signal, 1)

	if len(sigs) == 0 {
		sigs = termSignals
	}

	ctxlog.Debug(ctx, "listening for signals", "signals", sigs)
	signal.Notify(ch, sigs...)

	return ch
}

// Watch reads sigCh until it is closed and calls abort on the second signal of a kind.
// Notification on sigCh is stopped before abort is called.
func Watch(ctx context.Context, sigCh chan os.Signal, abort func()) {
	seen := make(map[os.Signal]struct{})

	for sig := range sigCh {
		if _, ok := seen[sig]; ok {
			ctxlog.Warn(ctx, "second signal received, aborting", "signal", sig.String())
			signal.Stop(sigCh)
			abort()

			return
		}

		ctxlog.Info(ctx, "signal received, waiting for running invocations; repeat to abort", "signal", sig.String())

		seen[sig] = struct{}{}
	}
}
