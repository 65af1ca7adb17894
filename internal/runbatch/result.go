// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
	"io"
	"os"
	"slices"
)

// ErrResultChildrenHasError is set on a batch result when at least one child failed.
var ErrResultChildrenHasError = errors.New("result has children with errors")

// ResultStatus is the terminal state of a unit.
type ResultStatus int

const (
	// ResultStatusUnknown is the zero value, a unit that never reached a terminal state.
	ResultStatusUnknown ResultStatus = iota
	// ResultStatusSuccess means the unit ran and succeeded.
	ResultStatusSuccess
	// ResultStatusToolFailed means the external tool could not be started or exited non-zero.
	ResultStatusToolFailed
	// ResultStatusMismatch means the captured output differs from the stored baseline.
	ResultStatusMismatch
	// ResultStatusSkipped means the unit was not attempted because an earlier stage failed.
	ResultStatusSkipped
	// ResultStatusError covers failures of the tool itself, e.g. a baseline that cannot be written.
	ResultStatusError
)

// String implements fmt.Stringer.
func (s ResultStatus) String() string {
	switch s {
	case ResultStatusSuccess:
		return "success"
	case ResultStatusToolFailed:
		return "tool-failed"
	case ResultStatusMismatch:
		return "mismatch"
	case ResultStatusSkipped:
		return "skipped"
	case ResultStatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Failed reports whether the status counts as a failure.
func (s ResultStatus) Failed() bool {
	switch s {
	case ResultStatusToolFailed, ResultStatusMismatch, ResultStatusError, ResultStatusUnknown:
		return true
	default:
		return false
	}
}

// Result represents the outcome of running a command or batch.
type Result struct {
	Label    string       // Identifier of the unit, e.g. the example or package name
	Kind     string       // Operation family, empty for batches
	Status   ResultStatus // Terminal state
	ExitCode int          // Exit code of the process, -1 if it could not be determined
	Error    error        // Human-readable cause for anything but success
	StdOut   []byte       // Captured standard output
	StdErr   []byte       // Captured standard error
	Children Results      // Stage or member results of a batch
}

// Failed reports whether the result is a failure.
func (r *Result) Failed() bool {
	return r.Status.Failed()
}

// Results is an ordered collection of results.
type Results []*Result

// HasError reports whether any result, or any of their children, failed.
func (r Results) HasError() bool {
	for v := range slices.Values(r) {
		if v.Failed() {
			return true
		}

		if v.Children.HasError() {
			return true
		}
	}

	return false
}

// Status returns success when nothing failed, else the status of the first failure.
func (r Results) Status() ResultStatus {
	for v := range slices.Values(r) {
		if v.Failed() {
			return v.Status
		}
	}

	if r.HasError() {
		return ResultStatusError
	}

	return ResultStatusSuccess
}

// Failures returns the failing top-level results in order.
func (r Results) Failures() Results {
	failed := make(Results, 0)

	for v := range slices.Values(r) {
		if v.Failed() || v.Children.HasError() {
			failed = append(failed, v)
		}
	}

	return failed
}

// Print outputs the results to stdout with default options.
func (r Results) Print() error {
	return WriteResults(os.Stdout, r, nil)
}

// Write outputs the results to the specified writer with default options.
func (r Results) Write(w io.Writer) error {
	return WriteResults(w, r, nil)
}

// WriteWithOptions outputs the results to the specified writer with the specified options.
func (r Results) WriteWithOptions(w io.Writer, options *OutputOptions) error {
	return WriteResults(w, r, options)
}
