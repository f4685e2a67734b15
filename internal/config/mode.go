// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"errors"
	"slices"
)

// ErrModeInvalid is returned if a [Mode] is unknown.
var ErrModeInvalid = errors.New("unknown mode")

// Mode selects how the kernel is launched.
type Mode string

const (
	// ModeAuto resolves to [ModeTest] for test artifacts and [ModeRun]
	// otherwise.
	ModeAuto Mode = "auto"
	// ModeRun launches the emulator and waits for it without any deadline.
	// The exit code is not checked.
	ModeRun Mode = "run"
	// ModeTest launches the emulator with deadline and checks the exit code.
	ModeTest Mode = "test"
)

func (m Mode) isKnown() bool {
	return slices.Contains([]Mode{ModeAuto, ModeRun, ModeTest}, m)
}

// Resolve returns the final mode. [ModeAuto] is resolved to [ModeTest] if
// isTest is true and to [ModeRun] otherwise. Other modes are returned as is.
func (m Mode) Resolve(isTest bool) Mode {
	switch {
	case m != ModeAuto && m != "":
		return m
	case isTest:
		return ModeTest
	default:
		return ModeRun
	}
}

// String implements [fmt.Stringer].
func (m Mode) String() string {
	return string(m)
}

// MarshalText implements [encoding.TextMarshaler].
func (m Mode) MarshalText() ([]byte, error) {
	if !m.isKnown() {
		return nil, ErrModeInvalid
	}

	return []byte(m), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (m *Mode) UnmarshalText(text []byte) error {
	mode := Mode(text)

	if !mode.isKnown() {
		return ErrModeInvalid
	}

	*m = mode

	return nil
}
