// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"slices"
	"time"
)

// Settings describe a single launch. They can not be changed once created.
type Settings struct {
	extraArgs        []string
	testTimeout      time.Duration
	expectedExitCode *int
}

// NewSettings creates new [Settings]. The given values are copied.
func NewSettings(
	extraArgs []string,
	testTimeout time.Duration,
	expectedExitCode *int,
) Settings {
	settings := Settings{
		extraArgs:   slices.Clone(extraArgs),
		testTimeout: testTimeout,
	}

	if expectedExitCode != nil {
		code := *expectedExitCode
		settings.expectedExitCode = &code
	}

	return settings
}

// ExtraArgs returns a copy of the extra arguments for the emulator.
func (s Settings) ExtraArgs() []string {
	return slices.Clone(s.extraArgs)
}

// TestTimeout returns the time to wait for the emulator to exit in test mode.
func (s Settings) TestTimeout() time.Duration {
	return s.testTimeout
}

// ExpectedExitCode returns the exit code considered a success in test mode.
// It is 0 unless set explicitly.
func (s Settings) ExpectedExitCode() int {
	if s.expectedExitCode == nil {
		return 0
	}

	return *s.expectedExitCode
}
