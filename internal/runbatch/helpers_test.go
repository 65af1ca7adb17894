// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"errors"
)

var errTest = errors.New("test error")

func succeed(label string, runsOn RunCondition) *FunctionCommand {
	return NewFunctionCommand(label, runsOn, func(_ context.Context) *Result {
		return &Result{Status: ResultStatusSuccess}
	})
}

func fail(label string, runsOn RunCondition) *FunctionCommand {
	return NewFunctionCommand(label, runsOn, func(_ context.Context) *Result {
		return &Result{Status: ResultStatusToolFailed, ExitCode: 101, Error: errTest}
	})
}
