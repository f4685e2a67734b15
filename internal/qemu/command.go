// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import "log/slog"

// DefaultExecutable is the emulator used if none is given.
const DefaultExecutable = "qemu-system-x86_64"

const (
	argCDROM     = "cdrom"
	argEnableKVM = "enable-kvm"
)

// CommandSpec defines the parameters of an emulator invocation.
type CommandSpec struct {
	// Path to the qemu-system binary. [DefaultExecutable] if empty.
	Executable string

	// Path to the ISO image to boot.
	ISO string

	// ExtraArgs are passed to QEMU verbatim and in order after the essential
	// arguments. They must not name any of the essential arguments or an
	// error is returned by [CommandSpec.Arguments].
	ExtraArgs []string

	// Request hardware acceleration. It is only enabled if KVM is usable on
	// the host.
	KVM bool
}

// Command returns the executable and its argument list.
func (s *CommandSpec) Command() (string, []string, error) {
	args, err := s.Arguments()
	if err != nil {
		return "", nil, err
	}

	executable := s.Executable
	if executable == "" {
		executable = DefaultExecutable
	}

	return executable, args, nil
}

// Arguments compiles the argument list for the QEMU command.
func (s *CommandSpec) Arguments() ([]string, error) {
	args := []Argument{
		UniqueArg(argCDROM, s.ISO),
	}

	if s.KVM {
		if KVMAvailable() {
			args = append(args, UniqueArg(argEnableKVM))
		} else {
			slog.Warn("KVM requested but not available")
		}
	}

	if err := checkCollisions(args, s.ExtraArgs); err != nil {
		return nil, err
	}

	argStrings, err := BuildArgumentStrings(args)
	if err != nil {
		return nil, err
	}

	return append(argStrings, s.ExtraArgs...), nil
}
