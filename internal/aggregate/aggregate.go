// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package aggregate folds the outcomes of a batch into an exit status and a report.
package aggregate

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/xtask/internal/color"
	"github.com/matt-FFFFFF/xtask/internal/runbatch"
)

// ErrBatchFailed is returned by Report.Summary when at least one unit failed.
var ErrBatchFailed = errors.New("batch failed")

// Exit statuses returned by Finalize.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// Failure describes one failing unit.
type Failure struct {
	Identifier string                // example or package name
	Kind       string                // operation family
	Status     runbatch.ResultStatus // terminal state of the unit
	Cause      error                 // why it failed
}

// Error implements the error interface.
func (f Failure) Error() string {
	var sb strings.Builder

	sb.WriteString(f.Identifier)

	if f.Kind != "" {
		fmt.Fprintf(&sb, " [%s]", f.Kind)
	}

	fmt.Fprintf(&sb, " %s: %v", f.Status, f.Cause)

	return sb.String()
}

// Unwrap returns the cause.
func (f Failure) Unwrap() error {
	return f.Cause
}

// Report is the outcome of a whole batch.
type Report struct {
	Results  runbatch.Results
	Failures []Failure
}

// Finalize returns ExitSuccess if every result succeeded (skips included),
// else ExitFailure, together with a report naming every failing unit.
func Finalize(results runbatch.Results) (int, *Report) {
	r := &Report{Results: results}

	for _, res := range results {
		r.Failures = append(r.Failures, collect(res)...)
	}

	if len(r.Failures) > 0 {
		return ExitFailure, r
	}

	return ExitSuccess, r
}

// collect walks down to the units that carry their own cause; batches that
// only say "a child failed" are expanded.
func collect(res *runbatch.Result) []Failure {
	if res.Failed() && !errors.Is(res.Error, runbatch.ErrResultChildrenHasError) {
		cause := res.Error
		if cause == nil {
			cause = errors.New(res.Status.String())
		}

		return []Failure{{Identifier: res.Label, Kind: res.Kind, Status: res.Status, Cause: cause}}
	}

	var out []Failure

	if res.Failed() || res.Children.HasError() {
		for _, c := range res.Children {
			out = append(out, collect(c)...)
		}
	}

	return out
}

// Err combines every failure, or returns nil when there are none.
func (r *Report) Err() *multierror.Error {
	if len(r.Failures) == 0 {
		return nil
	}

	var merr *multierror.Error
	for _, f := range r.Failures {
		merr = multierror.Append(merr, f)
	}

	merr.ErrorFormat = listFormat

	return merr
}

// Summary returns nil on success, else an ErrBatchFailed error counting the failures.
func (r *Report) Summary() error {
	if len(r.Failures) == 0 {
		return nil
	}

	return fmt.Errorf("%w: %d of %d units failed", ErrBatchFailed, len(r.Failures), len(r.Results))
}

// Write renders the result tree followed by the list of failures.
func (r *Report) Write(w io.Writer, opts *runbatch.OutputOptions) error {
	if err := r.Results.WriteWithOptions(w, opts); err != nil {
		return err
	}

	merr := r.Err()
	if merr == nil {
		_, err := fmt.Fprintln(w, color.Colorize(fmt.Sprintf("all %d units succeeded", len(r.Results)), color.Bold, color.FgGreen))
		return err
	}

	_, err := fmt.Fprintf(w, "\n%s\n%s", color.Colorize(r.Summary().Error(), color.Bold, color.FgRed), merr.Error())

	return err
}

func listFormat(errs []error) string {
	var sb strings.Builder

	for _, e := range errs {
		// causes can span lines, e.g. a diff
		first, _, _ := strings.Cut(e.Error(), "\n")
		fmt.Fprintf(&sb, "  * %s\n", first)
	}

	return sb.String()
}
