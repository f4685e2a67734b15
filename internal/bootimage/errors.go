// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bootimage

import "errors"

var (
	// ErrImageToolFailed is returned if the image creation tool exits with
	// non-zero exit code.
	ErrImageToolFailed = errors.New("image tool failed")

	// ErrDuplicateFile is returned if two additional files have the same
	// name.
	ErrDuplicateFile = errors.New("duplicate file name")

	// ErrNotRegularFile is returned if a file to add is not a regular file.
	ErrNotRegularFile = errors.New("not a regular file")
)
