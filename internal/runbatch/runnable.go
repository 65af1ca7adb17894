// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
)

// Runnable is something that can be run as part of a batch (either a command or a nested batch).
type Runnable interface {
	// Run executes the command or batch to completion and returns its outcome.
	// Failures are reported in the returned Result, never by panicking.
	Run(context.Context) *Result
	// GetLabel returns the label of the command or batch.
	GetLabel() string
	// ShouldRun decides, from the state of the previous stage in a serial batch,
	// whether this one is attempted.
	ShouldRun(prev PreviousCommandStatus) ShouldRunAction
}

// Kinded is implemented by runnables that know their operation family.
type Kinded interface {
	GetKind() string
}

func kindOf(r Runnable) string {
	if k, ok := r.(Kinded); ok {
		return k.GetKind()
	}

	return ""
}
