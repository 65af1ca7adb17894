// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

// BaseCommand holds the fields shared by every Runnable.
// It should be embedded in other command types to provide common functionality.
type BaseCommand struct {
	Label           string       // Label for the command
	RunsOnCondition RunCondition // The condition under which the command runs inside a serial batch
}

// PreviousCommandStatus holds the state of the previous command execution.
type PreviousCommandStatus struct {
	// State is the result status of the previous command.
	State ResultStatus
	// ExitCode is the exit code of the previous command.
	ExitCode int
	// Err is the error from the previous command, if any.
	Err error
}

// NewBaseCommand creates a new BaseCommand.
func NewBaseCommand(label string, runsOn RunCondition) *BaseCommand {
	return &BaseCommand{
		Label:           label,
		RunsOnCondition: runsOn,
	}
}

// GetLabel returns the label of the command.
func (c *BaseCommand) GetLabel() string {
	if c.Label == "" {
		return "Command"
	}

	return c.Label
}

// ShouldRun checks if the command should run based on the previous stage.
func (c *BaseCommand) ShouldRun(prev PreviousCommandStatus) ShouldRunAction {
	switch c.RunsOnCondition {
	case RunOnAlways:
		return ShouldRunActionRun
	case RunOnSuccess:
		if prev.State.Failed() || prev.State == ResultStatusSkipped {
			return ShouldRunActionError
		}

		return ShouldRunActionRun
	}

	return ShouldRunActionRun
}
