// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/aibor/bootimage/internal/exitcode"
	"github.com/google/subcommands"
)

const (
	name            = "bootimage"
	localConfigFile = ".bootimage-args"
)

// IO provides input and output details for the command.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func handleRunError(err error, errOutput io.Writer) int {
	if err == nil {
		return 0
	}

	// The kernel ran and reported a result that is not the expected one.
	// This is not an error of bootimage, so just pass the exit code on.
	code, propagated := exitcode.From(err)
	if propagated {
		return code
	}

	fmt.Fprintf(errOutput, "Error [%s]: %v\n", name, err)

	if errors.Is(err, &ParseArgsError{}) {
		return int(subcommands.ExitUsageError)
	}

	return code
}

func newCommander(topFlags *flag.FlagSet, cfg IO, env Environment) *subcommands.Commander {
	commander := subcommands.NewCommander(topFlags, name)
	commander.Output = cfg.Stdout
	commander.Error = cfg.Stderr

	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	commander.Register(newRunnerCmd(cfg, env), "")
	commander.Register(newPackageCmd(cfg, env), "")

	return commander
}

// Run is the main entry point for the CLI command.
func Run(ctx context.Context, args []string, cfg IO, env Environment) int {
	topFlags := flag.NewFlagSet(name, flag.ContinueOnError)
	topFlags.SetOutput(cfg.Stderr)

	version := topFlags.Bool("version", false, "show version and exit")

	commander := newCommander(topFlags, cfg, env)

	err := topFlags.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}

		return int(subcommands.ExitUsageError)
	}

	if *version {
		return handleRunError(printVersion(cfg.Stdout), cfg.Stderr)
	}

	localArgs, err := LocalConfigArgs(os.DirFS("."), localConfigFile)
	if err != nil {
		return handleRunError(fmt.Errorf("local config: %w", err), cfg.Stderr)
	}

	// Flag parsing stops at the subcommand name, so this only replaces the
	// remaining arguments the commander dispatches on.
	merged := MergedArgs(
		topFlags.Args(),
		[]string{"runner", "package"},
		localArgs,
		env.Args,
	)

	err = topFlags.Parse(merged)
	if err != nil {
		return int(subcommands.ExitUsageError)
	}

	return int(commander.Execute(ctx))
}

func printVersion(w io.Writer) error {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return ErrReadBuildInfo
	}

	_, err := fmt.Fprintf(w, "Version: %s\n", buildInfo.Main.Version)
	if err != nil {
		return fmt.Errorf("print version: %w", err)
	}

	return nil
}
