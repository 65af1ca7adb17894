// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func skipOnWindows(t *testing.T) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}
}

func TestOSCommandSuccess(t *testing.T) {
	skipOnWindows(t)
	defer goleak.VerifyNone(t)

	cmd := &OSCommand{
		BaseCommand: NewBaseCommand("echo", RunOnSuccess),
		Kind:        "build",
		Path:        "/bin/sh",
		Args:        []string{"-c", `echo "$GREETING"; echo warn >&2`},
		Env:         map[string]string{"GREETING": "hello"},
	}

	res := cmd.Run(context.Background())
	require.NoError(t, res.Error)
	assert.Equal(t, ResultStatusSuccess, res.Status)
	assert.Equal(t, "build", res.Kind)
	assert.Equal(t, "hello\n", string(res.StdOut))
	assert.Equal(t, "warn\n", string(res.StdErr))
}

func TestOSCommandNonZeroExit(t *testing.T) {
	skipOnWindows(t)
	defer goleak.VerifyNone(t)

	cmd := &OSCommand{
		BaseCommand: NewBaseCommand("fails", RunOnSuccess),
		Path:        "/bin/sh",
		Args:        []string{"-c", "exit 3"},
	}

	res := cmd.Run(context.Background())
	assert.Equal(t, ResultStatusToolFailed, res.Status)
	assert.Equal(t, 3, res.ExitCode)
	require.ErrorIs(t, res.Error, ErrNonZeroExit)
}

func TestOSCommandOnlyZeroIsSuccess(t *testing.T) {
	skipOnWindows(t)

	for _, code := range []int{1, 2, 101} {
		cmd := &OSCommand{
			BaseCommand: NewBaseCommand("exit", RunOnSuccess),
			Path:        "/bin/sh",
			Args:        []string{"-c", fmt.Sprintf("exit %d", code)},
		}

		res := cmd.Run(context.Background())
		assert.Equal(t, ResultStatusToolFailed, res.Status, "exit %d", code)
		assert.Equal(t, code, res.ExitCode)
		require.ErrorIs(t, res.Error, ErrNonZeroExit)
	}
}

func TestOSCommandCannotStart(t *testing.T) {
	cmd := &OSCommand{
		BaseCommand: NewBaseCommand("missing", RunOnSuccess),
		Path:        "/does/not/exist",
	}

	res := cmd.Run(context.Background())
	assert.Equal(t, ResultStatusToolFailed, res.Status)
	assert.Equal(t, -1, res.ExitCode)
	require.ErrorIs(t, res.Error, ErrCouldNotStartProcess)
}

func TestOSCommandLargeOutput(t *testing.T) {
	skipOnWindows(t)
	defer goleak.VerifyNone(t)

	// Enough to fill both pipe buffers before the process exits.
	cmd := &OSCommand{
		BaseCommand: NewBaseCommand("noisy", RunOnSuccess),
		Path:        "/bin/sh",
		Args:        []string{"-c", `i=0; while [ $i -lt 20000 ]; do echo xxxxxxxxxx; echo yyyyyyyyyy >&2; i=$((i+1)); done`},
	}

	res := cmd.Run(context.Background())
	require.NoError(t, res.Error)
	assert.Equal(t, 20000, strings.Count(string(res.StdOut), "\n"))
	assert.Equal(t, 20000, strings.Count(string(res.StdErr), "\n"))
}

func TestOSCommandCwd(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	cmd := &OSCommand{
		BaseCommand: NewBaseCommand("pwd", RunOnSuccess),
		Path:        "/bin/sh",
		Args:        []string{"-c", "pwd -P"},
		Cwd:         dir,
	}

	res := cmd.Run(context.Background())
	require.NoError(t, res.Error)
	assert.NotEmpty(t, strings.TrimSpace(string(res.StdOut)))
}

func TestCaptureKeepsPrefixOnOverflow(t *testing.T) {
	r := strings.NewReader(strings.Repeat("a", 10) + strings.Repeat("b", 90))

	got, err := capture(r, 10)
	require.ErrorIs(t, err, ErrBufferOverflow)
	assert.Equal(t, strings.Repeat("a", 10), string(got))
	assert.Zero(t, r.Len(), "the remainder is drained")
}
