// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"flag"
	"math"

	"github.com/aibor/bootimage/internal/bootimage"
	"github.com/aibor/bootimage/internal/config"
	"github.com/aibor/bootimage/internal/qemu"
)

const maxExitCode = 255

// imageFlags are the flags for building the boot image.
type imageFlags struct {
	imageTool string
	menuEntry string
	files     FilePathList
	debug     bool
}

func (f *imageFlags) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(
		&f.imageTool,
		"grub-mkrescue",
		bootimage.DefaultTool,
		"image creation tool to use",
	)

	fs.StringVar(
		&f.menuEntry,
		"menu-entry",
		bootimage.DefaultMenuEntry,
		"title of the GRUB menu entry",
	)

	fs.Var(
		&f.files,
		"addFile",
		"file to add to the multiboot2 module archive. Flag may be used more "+
			"than once. Empty value clears the list.",
	)

	fs.BoolVar(
		&f.debug,
		"debug",
		f.debug,
		"enable debug output",
	)
}

// runnerFlags are the flags for launching the boot image.
type runnerFlags struct {
	imageFlags

	configFile       string
	qemuBin          string
	mode             config.Mode
	timeout          uint64
	expectedExitCode uint64
	kvm              bool
	keep             bool
}

func (f *runnerFlags) SetFlags(fs *flag.FlagSet) {
	f.imageFlags.SetFlags(fs)

	fs.StringVar(
		&f.configFile,
		"config",
		config.FileName,
		"config file overriding the "+config.MetadataTable+
			" table of "+config.ManifestFileName+
			", relative to the manifest directory",
	)

	fs.StringVar(
		&f.qemuBin,
		"qemu-bin",
		qemu.DefaultExecutable,
		"QEMU binary to use",
	)

	fs.TextVar(
		&f.mode,
		"mode",
		config.ModeAuto,
		"launch mode: auto, run, test. auto uses test mode for test binaries",
	)

	fs.Var(
		&LimitedUintValue{
			Value: &f.timeout,
			Upper: math.MaxUint32,
		},
		"timeout",
		"test timeout in seconds (default from project config)",
	)

	fs.Var(
		&LimitedUintValue{
			Value: &f.expectedExitCode,
			Upper: maxExitCode,
		},
		"expected-exit-code",
		"exit code of a successful test (default from project config)",
	)

	fs.BoolVar(
		&f.kvm,
		"kvm",
		f.kvm,
		"enable hardware support if present",
	)

	fs.BoolVar(
		&f.keep,
		"keep",
		f.keep,
		"do not delete the boot image on exit. Intended for debugging. "+
			"The path to the image is printed on stderr",
	)
}

// override applies the flags explicitly given on the given [flag.FlagSet] to
// the project config.
func (f *runnerFlags) override(fs *flag.FlagSet, project *config.Project) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "timeout":
			project.TestTimeout = uint32(f.timeout) //nolint:gosec
		case "expected-exit-code":
			code := int32(f.expectedExitCode) //nolint:gosec
			project.TestSuccessExitCode = &code
		}
	})
}
