// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultStatusFailed(t *testing.T) {
	assert.False(t, ResultStatusSuccess.Failed())
	assert.False(t, ResultStatusSkipped.Failed())
	assert.True(t, ResultStatusToolFailed.Failed())
	assert.True(t, ResultStatusMismatch.Failed())
	assert.True(t, ResultStatusError.Failed())
	assert.True(t, ResultStatusUnknown.Failed())
}

func TestResultsHasError(t *testing.T) {
	nested := Results{
		{Label: "ok", Status: ResultStatusSuccess},
		{Label: "batch", Status: ResultStatusSuccess, Children: Results{
			{Label: "inner", Status: ResultStatusMismatch},
		}},
	}

	assert.False(t, Results{{Status: ResultStatusSuccess}, {Status: ResultStatusSkipped}}.HasError())
	assert.True(t, nested.HasError())
	assert.Equal(t, ResultStatusError, nested.Status())
	assert.Len(t, nested.Failures(), 1)
	assert.Equal(t, "batch", nested.Failures()[0].Label)
}

func TestResultsStatusFirstFailure(t *testing.T) {
	r := Results{
		{Label: "a", Status: ResultStatusSuccess},
		{Label: "b", Status: ResultStatusMismatch},
		{Label: "c", Status: ResultStatusToolFailed},
	}

	assert.Equal(t, ResultStatusMismatch, r.Status())
	assert.Equal(t, ResultStatusSuccess, Results{}.Status())
}
