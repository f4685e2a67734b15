// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package supervise

import (
	"strconv"
)

// State is the terminal state of a supervised child.
type State int

const (
	// StateCompleted means the child exited on its own.
	StateCompleted State = iota + 1
	// StateTimedOut means the deadline elapsed while the child was still
	// running. The child has been killed.
	StateTimedOut
)

// String implements [fmt.Stringer].
func (s State) String() string {
	switch s {
	case StateCompleted:
		return "completed"
	case StateTimedOut:
		return "timed out"
	default:
		return "unknown"
	}
}

// Outcome is the result of a single supervision.
type Outcome struct {
	State State

	// ExitCode of the child. Only meaningful with [StateCompleted]. If the
	// child was terminated by a signal, it is 0 and Signal is set.
	ExitCode int

	// Signal is the name of the signal that terminated the child, if any.
	Signal string
}

// Completed returns a [StateCompleted] [Outcome] with the given exit code.
func Completed(exitCode int) Outcome {
	return Outcome{State: StateCompleted, ExitCode: exitCode}
}

// TimedOut returns a [StateTimedOut] [Outcome].
func TimedOut() Outcome {
	return Outcome{State: StateTimedOut}
}

// String implements [fmt.Stringer].
func (o Outcome) String() string {
	if o.State != StateCompleted {
		return o.State.String()
	}

	s := "completed with exit code " + strconv.Itoa(o.ExitCode)
	if o.Signal != "" {
		s += " (" + o.Signal + ")"
	}

	return s
}
