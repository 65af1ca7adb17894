// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"chatty", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestLoggerFromContext(t *testing.T) {
	assert.Same(t, DefaultLogger, Logger(context.Background()))
	assert.Same(t, DefaultLogger, Logger(New(context.Background(), nil)))

	custom := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	assert.Same(t, custom, Logger(New(context.Background(), custom)))
}

func TestHelpersUseContextLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(NewConsoleHandler(&slog.HandlerOptions{Level: slog.LevelDebug}, WithWriter(buf), WithColour(false)))
	ctx := New(context.Background(), logger)

	Debug(ctx, "one")
	Info(ctx, "two")
	Warn(ctx, "three")
	Error(ctx, "four")

	out := buf.String()
	for _, s := range []string{"DEBUG one", "INFO  two", "WARN  three", "ERROR four"} {
		assert.Contains(t, out, s)
	}
}

func TestConsoleHandler(t *testing.T) {
	buf := &bytes.Buffer{}
	h := NewConsoleHandler(&slog.HandlerOptions{Level: slog.LevelInfo}, WithWriter(buf), WithColour(false))
	logger := slog.New(h).With("example", "blinky").WithGroup("stage")

	logger.Debug("hidden")
	assert.Empty(t, buf.String())

	logger.Info("building", "target", "thumbv7m-none-eabi")

	line := buf.String()
	require.Contains(t, line, "INFO  building ")
	for _, s := range []string{`"example"`, `"blinky"`, `"stage"`, `"target"`, `"thumbv7m-none-eabi"`} {
		assert.Contains(t, line, s)
	}
	assert.NotContains(t, line, "\033[")
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestConsoleHandlerNoAttrs(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(NewConsoleHandler(nil, WithWriter(buf), WithColour(false)))

	logger.Info("plain")

	assert.Regexp(t, `^\d\d:\d\d:\d\d\.\d{3} INFO  plain\n$`, buf.String())
}
