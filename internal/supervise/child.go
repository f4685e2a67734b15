// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package supervise

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync/atomic"
	"syscall"

	"golang.org/x/sys/unix"
)

// Launcher starts child processes connected to the given standard streams.
//
// If the streams are [os.File]s, like [os.Stdin], [os.Stdout] and
// [os.Stderr], the child uses the file descriptors directly, so its output
// shows up live and unmodified on the console.
type Launcher struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Env is the environment of the child. If nil, the environment of the
	// current process is inherited.
	Env []string
}

// Launch starts the given executable with the given arguments.
//
// It returns a [LaunchError] if the executable can not be found or started.
func (l *Launcher) Launch(executable string, args []string) (*Child, error) {
	cmd := exec.Command(executable, args...)
	cmd.Stdin = l.Stdin
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr
	cmd.Env = l.Env

	err := cmd.Start()
	if err != nil {
		return nil, &LaunchError{Executable: executable, Err: err}
	}

	slog.Debug("Child started",
		slog.String("executable", executable),
		slog.Int("pid", cmd.Process.Pid))

	return newChild(cmd), nil
}

type exitResult struct {
	state *os.ProcessState
	err   error
}

// Child is a running child process.
//
// The process is reaped by a single waiter started on launch. The result is
// delivered once, either to [Supervisor.Supervise] or [Child.Wait].
type Child struct {
	cmd      *exec.Cmd
	exited   chan exitResult
	consumed atomic.Bool
}

func newChild(cmd *exec.Cmd) *Child {
	child := &Child{
		cmd:    cmd,
		exited: make(chan exitResult, 1),
	}

	go child.reap()

	return child
}

func (c *Child) reap() {
	err := c.cmd.Wait()
	c.exited <- exitResult{state: c.cmd.ProcessState, err: err}
}

// Pid returns the process ID of the child.
func (c *Child) Pid() int {
	return c.cmd.Process.Pid
}

// Wait blocks until the child exits on its own and returns a
// [StateCompleted] [Outcome]. There is no deadline.
//
// If the context is canceled before, the child is killed and reaped and
// [ErrInterrupted] is returned.
func (c *Child) Wait(ctx context.Context) (Outcome, error) {
	err := c.consume()
	if err != nil {
		return Outcome{}, err
	}

	return supervise(ctx, c, nil)
}

func (c *Child) consume() error {
	if !c.consumed.CompareAndSwap(false, true) {
		return ErrChildConsumed
	}

	return nil
}

// kill kills the child and waits for it to be reaped.
//
// Only the kill is checked. Once it has been delivered, the reap result is
// discarded.
func (c *Child) kill() error {
	err := c.cmd.Process.Kill()
	if err != nil && !errors.Is(err, os.ErrProcessDone) {
		return &CleanupError{Pid: c.Pid(), Err: err}
	}

	<-c.exited

	slog.Debug("Child killed", slog.Int("pid", c.Pid()))

	return nil
}

// completed converts the reaped process state into an [Outcome].
func (c *Child) completed(result exitResult) (Outcome, error) {
	if result.state == nil {
		return Outcome{}, fmt.Errorf("wait: %w", result.err)
	}

	outcome := Completed(result.state.ExitCode())

	// Exit code is -1 if the process was terminated by a signal. Fall back
	// to 0 and let the exit code check decide.
	if outcome.ExitCode < 0 {
		outcome.ExitCode = 0

		status, ok := result.state.Sys().(syscall.WaitStatus)
		if ok && status.Signaled() {
			outcome.Signal = unix.SignalName(status.Signal())
		}

		slog.Warn("Child did not report an exit code, assuming 0",
			slog.Int("pid", c.Pid()),
			slog.String("signal", outcome.Signal))
	}

	slog.Debug("Child exited",
		slog.Int("pid", c.Pid()),
		slog.Int("exit_code", outcome.ExitCode))

	return outcome, nil
}
