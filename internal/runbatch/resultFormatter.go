// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/matt-FFFFFF/xtask/internal/color"
)

// OutputOptions controls what is included in the output.
type OutputOptions struct {
	IncludeStdOut      bool // Whether to include stdout in the output
	IncludeStdErr      bool // Whether to include stderr in the output
	ShowSuccessDetails bool // Whether to show details for successful commands
}

// DefaultOutputOptions returns a default set of output options.
func DefaultOutputOptions() *OutputOptions {
	return &OutputOptions{
		IncludeStdOut:      false,
		IncludeStdErr:      true,
		ShowSuccessDetails: false,
	}
}

type statusStyle struct {
	glyph string
	code  color.Code
}

var statusStyles = map[ResultStatus]statusStyle{
	ResultStatusSuccess:    {"✓", color.FgGreen},
	ResultStatusToolFailed: {"✗", color.FgRed},
	ResultStatusMismatch:   {"≠", color.FgMagenta},
	ResultStatusSkipped:    {"~", color.FgYellow},
	ResultStatusError:      {"✗", color.FgRed},
}

// WriteResults renders results as an indented tree.
// A nil options value means DefaultOutputOptions.
func WriteResults(w io.Writer, results Results, options *OutputOptions) error {
	if options == nil {
		options = DefaultOutputOptions()
	}

	for _, r := range results {
		if err := writeResult(w, r, "", options); err != nil {
			return err
		}
	}

	return nil
}

func writeResult(w io.Writer, r *Result, indent string, options *OutputOptions) error {
	style, ok := statusStyles[r.Status]
	if !ok {
		style = statusStyle{"?", color.FgWhite}
	}

	label := r.Label
	if label == "" {
		label = "[unnamed]"
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "%s%s %s", indent, color.Colorize(style.glyph, style.code), color.Colorize(label, color.Bold, style.code))

	if r.Kind != "" {
		fmt.Fprintf(&sb, " [%s]", r.Kind)
	}

	if r.Status != ResultStatusSuccess && r.Status != ResultStatusSkipped {
		fmt.Fprintf(&sb, " %s", r.Status)
	}

	if r.ExitCode != 0 {
		fmt.Fprintf(&sb, " (exit code: %d)", r.ExitCode)
	}

	sb.WriteByte('\n')

	// A batch error only says "see below".
	if r.Error != nil && !errors.Is(r.Error, ErrResultChildrenHasError) {
		fmt.Fprintf(&sb, "%s  %s %s\n", indent, color.Colorize("➜ Error:", style.code), r.Error.Error())
	}

	showDetails := len(r.Children) == 0 && (r.Failed() || options.ShowSuccessDetails)

	if showDetails && options.IncludeStdOut && len(r.StdOut) > 0 {
		fmt.Fprintf(&sb, "%s  ➜ Output:\n", indent)
		sb.WriteString(indentLines(r.StdOut, indent+"     "))
	}

	if showDetails && options.IncludeStdErr && len(r.StdErr) > 0 {
		fmt.Fprintf(&sb, "%s  %s\n", indent, color.Colorize("➜ Error Output:", color.FgHiRed))
		sb.WriteString(indentLines(r.StdErr, indent+"     "))
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("writing result %q: %w", label, err)
	}

	for _, child := range r.Children {
		if err := writeResult(w, child, indent+"  ", options); err != nil {
			return err
		}
	}

	return nil
}

// indentLines prefixes each non-empty line of output with indent.
func indentLines(output []byte, indent string) string {
	lines := strings.Split(strings.TrimRight(string(output), "\n"), "\n")

	var sb strings.Builder

	sb.Grow(len(output) + len(lines)*len(indent))

	for _, line := range lines {
		if line != "" {
			sb.WriteString(indent)
			sb.WriteString(line)
		}

		sb.WriteByte('\n')
	}

	return sb.String()
}
