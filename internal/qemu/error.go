// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import "errors"

// ErrArgumentCollision is returned if an argument is given more than once
// while it must be unique.
var ErrArgumentCollision = errors.New("colliding args")
