// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package exitcode

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownOutcome is returned for an outcome in neither completed nor timed
// out state.
var ErrUnknownOutcome = errors.New("unknown outcome")

// Error is an exit code of the child that did not match the expected one.
//
// It is not a failure of the invocation itself. The exit code is supposed to
// be propagated as the exit status of the current process.
type Error int

func (e Error) Error() string {
	return fmt.Sprintf("unexpected exit code: %d", e)
}

func (Error) Is(other error) bool {
	_, ok := other.(Error)
	return ok
}

// Code returns the exit code as basic int type.
func (e Error) Code() int {
	return int(e)
}

// From returns an exit code based on the given error and if the error was an
// [Error].
//
// If the error is nil, the exit code is 0. If the error is an [Error] the exit
// code is the return value of [Error.Code]. Otherwise the exit code is
// [Failure].
func From(err error) (int, bool) {
	if err == nil {
		return 0, false
	}

	var exitErr Error
	if errors.As(err, &exitErr) {
		return exitErr.Code(), true
	}

	return Failure, false
}

// TimeoutError is returned if the child did not exit before the deadline.
type TimeoutError struct {
	Timeout time.Duration
}

// Error implements the [error] interface.
func (e *TimeoutError) Error() string {
	return "test timed out after " + e.Timeout.String()
}

// Is implements the [errors.Is] interface.
func (*TimeoutError) Is(other error) bool {
	_, ok := other.(*TimeoutError)
	return ok
}
