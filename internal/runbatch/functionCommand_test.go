// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunctionCommandRun(t *testing.T) {
	res := succeed("ok", RunOnSuccess).Run(context.Background())
	assert.Equal(t, ResultStatusSuccess, res.Status)
	assert.Equal(t, "ok", res.Label, "label is filled in from the command")
}

func TestFunctionCommandNilFunc(t *testing.T) {
	res := (&FunctionCommand{BaseCommand: NewBaseCommand("noop", RunOnSuccess)}).Run(context.Background())
	assert.Equal(t, ResultStatusSuccess, res.Status)
}

func TestFunctionCommandNilResult(t *testing.T) {
	res := NewFunctionCommand("nil", RunOnSuccess, func(_ context.Context) *Result { return nil }).Run(context.Background())
	assert.Equal(t, ResultStatusError, res.Status)
	require.ErrorIs(t, res.Error, ErrNilResult)
}

func TestFunctionCommandPanic(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"string", "boom", "function command panic: boom"},
		{"error", errTest, "function command panic: test error"},
		{"other", 42, "function command panic: 42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewFunctionCommand("panics", RunOnSuccess, func(_ context.Context) *Result {
				panic(tt.value)
			})

			res := cmd.Run(context.Background())
			assert.Equal(t, ResultStatusError, res.Status)
			assert.Equal(t, -1, res.ExitCode)

			var perr *ErrFunctionCmdPanic
			require.ErrorAs(t, res.Error, &perr)
			assert.Equal(t, tt.want, perr.Error())
		})
	}
}
