// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/matt-FFFFFF/xtask/internal/ctxlog"
)

var _ Runnable = (*FunctionCommand)(nil)

// ErrFunctionCmdPanic is the error returned when a function command panics.
// It is constructed with the value that caused the panic.
type ErrFunctionCmdPanic struct {
	v any
}

// Error implements the error interface for ErrFunctionCmdPanic.
func (e *ErrFunctionCmdPanic) Error() string {
	prefix := "function command panic:"

	switch x := e.v.(type) {
	case string:
		return fmt.Sprintf("%s %s", prefix, x)
	case error:
		return fmt.Sprintf("%s %s", prefix, x.Error())
	default:
		return fmt.Sprintf("%s %v", prefix, x)
	}
}

var (
	// ErrSkipOnError is recorded on a stage that was not attempted because an earlier stage failed.
	ErrSkipOnError = errors.New("skipped due to previous error")
	// ErrNilResult is returned when a function command produced no result.
	ErrNilResult = errors.New("function command returned no result")
)

// NewErrFunctionCmdPanic creates a new ErrFunctionCmdPanic with the given value.
func NewErrFunctionCmdPanic(v any) error {
	return &ErrFunctionCmdPanic{v: v}
}

// FunctionCommandFunc produces the outcome of a unit of work.
type FunctionCommandFunc func(ctx context.Context) *Result

// FunctionCommand is a command that runs a Go function. It implements the Runnable interface.
type FunctionCommand struct {
	*BaseCommand
	Kind string              // Operation family, copied to the result when it has none
	Func FunctionCommandFunc // The function to run
}

// NewFunctionCommand creates a FunctionCommand.
func NewFunctionCommand(label string, runsOn RunCondition, fn FunctionCommandFunc) *FunctionCommand {
	return &FunctionCommand{
		BaseCommand: NewBaseCommand(label, runsOn),
		Func:        fn,
	}
}

// GetKind returns the operation family of the command.
func (f *FunctionCommand) GetKind() string {
	return f.Kind
}

// Run implements the Runnable interface for FunctionCommand.
// A panic in the function is recovered and reported as an error result.
func (f *FunctionCommand) Run(ctx context.Context) (res *Result) {
	logger := ctxlog.Logger(ctx).
		With("runnableType", "FunctionCommand").
		With("label", f.GetLabel())

	if f.Func == nil {
		logger.Debug("no function to run, returning success")
		return &Result{Label: f.GetLabel(), Kind: f.Kind, Status: ResultStatusSuccess}
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("function command panicked", "panic", r)

			res = &Result{
				Label:    f.GetLabel(),
				Kind:     f.Kind,
				Status:   ResultStatusError,
				ExitCode: -1,
				Error:    NewErrFunctionCmdPanic(r),
			}
		}
	}()

	res = f.Func(ctx)
	if res == nil {
		return &Result{
			Label:    f.GetLabel(),
			Kind:     f.Kind,
			Status:   ResultStatusError,
			ExitCode: -1,
			Error:    ErrNilResult,
		}
	}

	if res.Label == "" {
		res.Label = f.GetLabel()
	}

	if res.Kind == "" {
		res.Kind = f.Kind
	}

	return res
}
