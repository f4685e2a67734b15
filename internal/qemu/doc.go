// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package qemu composes QEMU system emulator commands that boot a bootable
// ISO image. It expects the required QEMU binary to be present on the system.
//
// The guest is expected to report its result via the emulator's own exit
// code, e.g. by writing to an isa-debug-exit device.
package qemu
