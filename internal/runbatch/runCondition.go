// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

// RunCondition defines when a command should run based on the result of the previous command.
type RunCondition int

const (
	// RunOnSuccess means the command runs only if the previous command succeeded.
	// It is the zero value, so stages depend on their predecessor unless told otherwise.
	RunOnSuccess RunCondition = iota
	// RunOnAlways means the command always runs regardless of the previous command's result.
	RunOnAlways
)

// String returns the string representation of the RunCondition.
func (r RunCondition) String() string {
	switch r {
	case RunOnSuccess:
		return "success"
	case RunOnAlways:
		return "always"
	default:
		return "unknown"
	}
}
