// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package exitcode maps the outcome of a supervised test run to the result of
// the invocation.
package exitcode

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aibor/bootimage/internal/supervise"
)

// Failure is the exit status for any failure of the invocation itself, like
// launch, timeout or cleanup errors. Test kernels usually exit via QEMU's
// isa-debug-exit device, which can not produce even exit codes, so this does
// not collide with their results.
const Failure = 124

// Report returns the result of a test mode invocation for the given
// [supervise.Outcome].
//
// It returns nil if the child completed with the expected exit code, an
// [Error] with the child's exit code if it completed with any other exit code,
// and a [TimeoutError] if it timed out.
func Report(outcome supervise.Outcome, expected int, timeout time.Duration) error {
	switch outcome.State {
	case supervise.StateTimedOut:
		return &TimeoutError{Timeout: timeout}
	case supervise.StateCompleted:
		if outcome.ExitCode == expected {
			return nil
		}

		slog.Debug("Unexpected exit code",
			slog.Int("expected", expected),
			slog.Int("actual", outcome.ExitCode))

		return Error(outcome.ExitCode)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownOutcome, outcome)
	}
}
