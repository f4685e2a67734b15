// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
)

const (
	argsEnvVar        = "BOOTIMAGE_ARGS"
	buildToolEnvVar   = "CARGO"
	manifestDirEnvVar = "CARGO_MANIFEST_DIR"
)

// Environment is the part of the process environment the command depends on.
type Environment struct {
	// BuildTool is the build tool executable, as set by cargo for its
	// runners.
	BuildTool string

	// ManifestDir is the directory of the project's manifest. It is the
	// working directory for the build tool and contains the project config.
	ManifestDir string

	// Args are additional flags for the runner and package subcommands.
	Args []string
}

// LookupEnvironment reads the [Environment] using the given lookup function,
// usually [os.Getenv].
func LookupEnvironment(getenv func(string) string) Environment {
	return Environment{
		BuildTool:   getenv(buildToolEnvVar),
		ManifestDir: getenv(manifestDirEnvVar),
		Args:        strings.Fields(getenv(argsEnvVar)),
	}
}

// LocalConfigArgs returns bootimage arguments from a local config file.
//
// The file's format is one argument per line. Environment variables may be used
// and are expanded with [os.ExpandEnv].
func LocalConfigArgs(fsys fs.FS, file string) ([]string, error) {
	conf, err := fs.ReadFile(fsys, file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("read file: %w", err)
	}

	args := []string{}

	expandedConf := os.ExpandEnv(string(conf))
	for line := range strings.SplitSeq(expandedConf, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			args = append(args, line)
		}
	}

	return args, nil
}

// MergedArgs inserts the given defaults between the subcommand name and its
// own arguments, if the subcommand is one of the given ones. Defaults are
// inserted in the given order, so later ones take precedence and the actual
// arguments precede all.
func MergedArgs(args []string, subcommands []string, defaults ...[]string) []string {
	if len(args) == 0 || !slices.Contains(subcommands, args[0]) {
		return args
	}

	merged := []string{args[0]}
	for _, d := range defaults {
		merged = append(merged, d...)
	}

	return append(merged, args[1:]...)
}
