// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package supervise

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"code.cloudfoundry.org/clock"
)

// Supervisor races a [Child] against a deadline.
type Supervisor struct {
	// Clock used for the deadline. If nil, the real clock is used.
	Clock clock.Clock
}

func (s *Supervisor) clock() clock.Clock {
	if s.Clock == nil {
		return clock.NewClock()
	}

	return s.Clock
}

// Supervise blocks until the child exits or the timeout elapses, whichever
// happens first.
//
// If the child exits in time, a [StateCompleted] [Outcome] with its exit code
// is returned. An exit that is already observable when the deadline fires
// counts as completed. Otherwise, the child is killed and reaped and a
// [StateTimedOut] [Outcome] is returned. If the kill fails, a [CleanupError]
// is returned.
//
// A timeout of zero or less times out immediately without waiting.
//
// If the context is canceled first, the child is killed and reaped as well and
// [ErrInterrupted] is returned.
func (s *Supervisor) Supervise(
	ctx context.Context,
	child *Child,
	timeout time.Duration,
) (Outcome, error) {
	err := child.consume()
	if err != nil {
		return Outcome{}, err
	}

	if timeout <= 0 {
		return timedOut(child)
	}

	timer := s.clock().NewTimer(timeout)
	defer timer.Stop()

	return supervise(ctx, child, timer.C())
}

// supervise waits for the first of child exit, deadline or context
// cancellation. A nil deadline channel never fires.
func supervise(
	ctx context.Context,
	child *Child,
	deadline <-chan time.Time,
) (Outcome, error) {
	select {
	case result := <-child.exited:
		return child.completed(result)
	case <-deadline:
		select {
		case result := <-child.exited:
			return child.completed(result)
		default:
		}

		return timedOut(child)
	case <-ctx.Done():
		err := child.kill()
		if err != nil {
			return Outcome{}, err
		}

		return Outcome{}, fmt.Errorf("%w: %w", ErrInterrupted, context.Cause(ctx))
	}
}

func timedOut(child *Child) (Outcome, error) {
	slog.Debug("Deadline elapsed, killing child", slog.Int("pid", child.Pid()))

	err := child.kill()
	if err != nil {
		return Outcome{}, err
	}

	return TimedOut(), nil
}
