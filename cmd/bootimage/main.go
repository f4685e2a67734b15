// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Bootimage builds a bare-metal kernel, packages it into a bootable ISO image
// with GRUB and launches it in QEMU. Use it as cargo runner:
//
//	[target.'cfg(target_os = "none")']
//	runner = "bootimage runner"
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aibor/bootimage/internal/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGABRT,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
		syscall.SIGHUP,
	)

	exitCode := cmd.Run(
		ctx,
		os.Args[1:],
		cmd.IO{
			Stdin:  os.Stdin,
			Stdout: os.Stdout,
			Stderr: os.Stderr,
		},
		cmd.LookupEnvironment(os.Getenv),
	)

	cancel()
	os.Exit(exitCode)
}
