// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyFilePath is returned if a file path flag is given an empty
	// value.
	ErrEmptyFilePath = errors.New("file path must not be empty")

	// ErrNotRegularFile is returned if a file path does not point to a
	// regular file.
	ErrNotRegularFile = errors.New("not a regular file")

	// ErrMultipleExecutables is returned if the build produced more than one
	// executable, so the kernel is ambiguous.
	ErrMultipleExecutables = errors.New("build produced multiple executables")

	// ErrReadBuildInfo is returned if the build info can not be read from the
	// binary.
	ErrReadBuildInfo = errors.New("failed to read build info")
)

// ParseArgsError wraps errors that occur during argument parsing.
type ParseArgsError struct {
	err error
	msg string
}

func (e *ParseArgsError) Error() string {
	if e.err == nil {
		return e.msg
	}

	return fmt.Sprintf("%s: %v", e.msg, e.err)
}

func (e *ParseArgsError) Is(other error) bool {
	_, ok := other.(*ParseArgsError)
	return ok
}

func (e *ParseArgsError) Unwrap() error {
	return e.err
}
