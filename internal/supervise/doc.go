// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package supervise launches a single child process, typically the emulator
// booting the kernel image, and supervises it until it exits.
//
// In test mode the child is raced against a deadline by [Supervisor]. If the
// deadline elapses first, the child is killed and reaped before
// [Supervisor.Supervise] returns, so no process is left behind. In run mode
// [Child.Wait] waits for the child without any deadline.
//
// A [Child] is exclusively owned by whoever launched it. It can be waited on
// exactly once.
package supervise
