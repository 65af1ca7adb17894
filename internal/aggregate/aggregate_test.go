// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package aggregate

import (
	"bytes"
	"errors"
	"testing"

	"github.com/matt-FFFFFF/xtask/internal/baseline"
	"github.com/matt-FFFFFF/xtask/internal/color"
	"github.com/matt-FFFFFF/xtask/internal/runbatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errCompile = errors.New("could not compile")

func TestFinalizeSuccess(t *testing.T) {
	code, report := Finalize(runbatch.Results{
		{Label: "blinky", Status: runbatch.ResultStatusSuccess},
		{Label: "idle", Status: runbatch.ResultStatusSuccess, Children: runbatch.Results{
			{Label: "qemu", Status: runbatch.ResultStatusSkipped},
		}},
	})

	assert.Equal(t, ExitSuccess, code)
	assert.Empty(t, report.Failures)
	assert.Nil(t, report.Err())
	assert.NoError(t, report.Summary())
}

func TestFinalizeEmpty(t *testing.T) {
	code, report := Finalize(nil)
	assert.Equal(t, ExitSuccess, code)
	assert.Nil(t, report.Err())
}

func TestFinalizeReportsEveryFailure(t *testing.T) {
	mismatch := &baseline.MismatchError{Example: "idle", Diff: "-a\n+b\n"}

	results := runbatch.Results{
		{Label: "blinky", Kind: "example-build", Status: runbatch.ResultStatusToolFailed, ExitCode: 101, Error: errCompile},
		{Label: "idle", Kind: "qemu", Status: runbatch.ResultStatusMismatch, Error: mismatch},
		{Label: "pool", Status: runbatch.ResultStatusSuccess},
		{Label: "rtic", Kind: "check", Status: runbatch.ResultStatusError, Error: runbatch.ErrResultChildrenHasError, Children: runbatch.Results{
			{Label: "inner", Kind: "check", Status: runbatch.ResultStatusToolFailed},
		}},
	}

	code, report := Finalize(results)
	assert.Equal(t, ExitFailure, code)
	require.Len(t, report.Failures, 3)

	assert.Equal(t, "blinky", report.Failures[0].Identifier)
	assert.Equal(t, "example-build", report.Failures[0].Kind)
	require.ErrorIs(t, report.Failures[0], errCompile)

	assert.Equal(t, "idle", report.Failures[1].Identifier)
	require.ErrorIs(t, report.Failures[1], baseline.ErrMismatch)

	assert.Equal(t, "inner", report.Failures[2].Identifier)
	assert.EqualError(t, report.Failures[2].Cause, "tool-failed")

	merr := report.Err()
	require.NotNil(t, merr)
	assert.Len(t, merr.Errors, 3)
	require.ErrorIs(t, merr, errCompile)

	require.ErrorIs(t, report.Summary(), ErrBatchFailed)
	assert.Equal(t, "batch failed: 3 of 4 units failed", report.Summary().Error())
}

func TestReportWrite(t *testing.T) {
	prev := color.SetEnabled(false)
	t.Cleanup(func() { color.SetEnabled(prev) })

	_, report := Finalize(runbatch.Results{
		{Label: "blinky", Kind: "example-build", Status: runbatch.ResultStatusToolFailed, ExitCode: 101, Error: errCompile},
		{Label: "idle", Kind: "qemu", Status: runbatch.ResultStatusSuccess},
	})

	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, nil))

	out := buf.String()
	assert.Contains(t, out, "✗ blinky [example-build] tool-failed (exit code: 101)")
	assert.Contains(t, out, "✓ idle [qemu]")
	assert.Contains(t, out, "batch failed: 1 of 2 units failed")
	assert.Contains(t, out, "  * blinky [example-build] tool-failed: could not compile\n")
}

func TestReportWriteSuccess(t *testing.T) {
	prev := color.SetEnabled(false)
	t.Cleanup(func() { color.SetEnabled(prev) })

	_, report := Finalize(runbatch.Results{{Label: "fmt", Status: runbatch.ResultStatusSuccess}})

	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, nil))
	assert.Equal(t, "✓ fmt\nall 1 units succeeded\n", buf.String())
}
