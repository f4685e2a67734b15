// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package supervise

import (
	"errors"
	"strconv"
)

var (
	// ErrChildConsumed is returned if a [Child] is waited on more than once.
	ErrChildConsumed = errors.New("child already consumed")

	// ErrInterrupted is returned if the supervision was canceled by the
	// caller's context before the child exited. The child has been killed
	// and reaped in this case.
	ErrInterrupted = errors.New("interrupted")
)

// LaunchError is returned if the child process could not be started.
type LaunchError struct {
	Executable string
	Err        error
}

// Error implements the [error] interface.
func (e *LaunchError) Error() string {
	return "launch " + e.Executable + ": " + e.Err.Error()
}

// Is implements the [errors.Is] interface.
func (*LaunchError) Is(other error) bool {
	_, ok := other.(*LaunchError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *LaunchError) Unwrap() error {
	return e.Err
}

// CleanupError is returned if a timed out child could not be killed. The
// process might still be running.
type CleanupError struct {
	Pid int
	Err error
}

// Error implements the [error] interface.
func (e *CleanupError) Error() string {
	return "cleanup: kill pid " + strconv.Itoa(e.Pid) + ": " + e.Err.Error()
}

// Is implements the [errors.Is] interface.
func (*CleanupError) Is(other error) bool {
	_, ok := other.(*CleanupError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *CleanupError) Unwrap() error {
	return e.Err
}
