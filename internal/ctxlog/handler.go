// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/TylerBrock/colorjson"
	"github.com/matt-FFFFFF/xtask/internal/color"
)

var (
	// ErrMarshalAttribute is returned when the attributes of a record cannot be rendered.
	ErrMarshalAttribute = errors.New("error when marshaling attribute")
	// ErrIoWrite is returned when a log line cannot be written.
	ErrIoWrite = errors.New("error when writing to output")
)

// TimeFormat is the layout used for the timestamp prefix.
const TimeFormat = "15:04:05.000"

var _ slog.Handler = (*ConsoleHandler)(nil)

// ConsoleHandler prints one line per record: time, level, message and the
// record's attributes as compact JSON.
//
// Attributes are collected by an inner JSON handler writing to a shared
// buffer, which keeps WithAttrs and WithGroup semantics identical to slog's.
type ConsoleHandler struct {
	inner  slog.Handler
	buf    *bytes.Buffer
	mu     *sync.Mutex
	out    io.Writer
	colour bool
}

// Option configures a ConsoleHandler.
type Option func(h *ConsoleHandler)

// WithWriter sets the destination. The default is stderr.
func WithWriter(w io.Writer) Option {
	return func(h *ConsoleHandler) {
		h.out = w
	}
}

// WithColour forces coloured output on or off.
func WithColour(on bool) Option {
	return func(h *ConsoleHandler) {
		h.colour = on
	}
}

// WithAutoColour colours output when the color package has it enabled.
func WithAutoColour() Option {
	return func(h *ConsoleHandler) {
		h.colour = color.Enabled()
	}
}

// NewConsoleHandler creates a ConsoleHandler.
func NewConsoleHandler(opts *slog.HandlerOptions, options ...Option) *ConsoleHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}

	buf := &bytes.Buffer{}
	h := &ConsoleHandler{
		buf: buf,
		mu:  &sync.Mutex{},
		out: os.Stderr,
		inner: slog.NewJSONHandler(buf, &slog.HandlerOptions{
			Level:       opts.Level,
			AddSource:   opts.AddSource,
			ReplaceAttr: dropBuiltins(opts.ReplaceAttr),
		}),
	}

	for _, opt := range options {
		opt(h)
	}

	return h
}

// Enabled implements slog.Handler.
func (h *ConsoleHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// WithAttrs implements slog.Handler.
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.inner = h.inner.WithAttrs(attrs)

	return &c
}

// WithGroup implements slog.Handler.
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	c := *h
	c.inner = h.inner.WithGroup(name)

	return &c
}

// Handle implements slog.Handler.
func (h *ConsoleHandler) Handle(ctx context.Context, r slog.Record) error {
	attrs, err := h.attrs(ctx, r)
	if err != nil {
		return err
	}

	var sb strings.Builder

	sb.WriteString(h.paint(r.Time.Format(TimeFormat), color.Faint))
	sb.WriteByte(' ')
	sb.WriteString(h.paint(fmt.Sprintf("%-5s", r.Level.String()), levelColour(r.Level)))
	sb.WriteByte(' ')
	sb.WriteString(r.Message)

	if len(attrs) > 0 {
		f := colorjson.NewFormatter()
		f.DisabledColor = !h.colour

		b, err := f.Marshal(attrs)
		if err != nil {
			return errors.Join(ErrMarshalAttribute, err)
		}

		sb.WriteByte(' ')
		sb.Write(b)
	}

	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := io.WriteString(h.out, sb.String()); err != nil {
		return errors.Join(ErrIoWrite, err)
	}

	return nil
}

func (h *ConsoleHandler) attrs(ctx context.Context, r slog.Record) (map[string]any, error) {
	h.mu.Lock()
	defer func() {
		h.buf.Reset()
		h.mu.Unlock()
	}()

	if err := h.inner.Handle(ctx, r); err != nil {
		return nil, fmt.Errorf("inner handler: %w", err)
	}

	var attrs map[string]any
	if err := json.Unmarshal(h.buf.Bytes(), &attrs); err != nil {
		return nil, errors.Join(ErrMarshalAttribute, err)
	}

	return attrs, nil
}

func (h *ConsoleHandler) paint(s string, c color.Code) string {
	if !h.colour {
		return s
	}

	return color.Colorize(s, c)
}

func levelColour(l slog.Level) color.Code {
	switch {
	case l < slog.LevelInfo:
		return color.FgWhite
	case l < slog.LevelWarn:
		return color.FgCyan
	case l < slog.LevelError:
		return color.FgYellow
	default:
		return color.FgRed
	}
}

func dropBuiltins(next func([]string, slog.Attr) slog.Attr) func([]string, slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) == 0 {
			switch a.Key {
			case slog.TimeKey, slog.LevelKey, slog.MessageKey:
				return slog.Attr{}
			}
		}

		if next == nil {
			return a
		}

		return next(groups, a)
	}
}
