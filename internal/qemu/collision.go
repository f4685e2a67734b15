// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"fmt"
	"slices"
	"strings"
)

// checkCollisions returns an [ErrArgumentCollision] if any token in extra
// names one of the essential arguments. Tokens are not interpreted otherwise,
// so values and positional tokens are never rejected.
//
// QEMU accepts both "-name" and "--name", so both are matched.
func checkCollisions(essential []Argument, extra []string) error {
	for _, token := range extra {
		name, isName := strings.CutPrefix(token, "-")
		if !isName {
			continue
		}

		name = strings.TrimPrefix(name, "-")

		idx := slices.IndexFunc(essential, func(arg Argument) bool {
			return arg.Name() == name
		})
		if idx != -1 {
			return fmt.Errorf(
				"%w: %s, %s",
				ErrArgumentCollision,
				token,
				essential[idx].String(),
			)
		}
	}

	return nil
}
