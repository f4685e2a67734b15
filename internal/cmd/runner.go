// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"flag"
	"fmt"

	"code.cloudfoundry.org/clock"
	"github.com/aibor/bootimage/internal/build"
	"github.com/aibor/bootimage/internal/qemu"
	"github.com/aibor/bootimage/internal/supervise"
	"github.com/google/subcommands"
)

// runnerCmd builds, packages and launches the kernel.
type runnerCmd struct {
	flags runnerFlags
	io    IO
	env   Environment
	clock clock.Clock
}

var _ = subcommands.Command(&runnerCmd{})

func newRunnerCmd(cfg IO, env Environment) *runnerCmd {
	return &runnerCmd{
		io:  cfg,
		env: env,
	}
}

func (*runnerCmd) Name() string { return "runner" }

func (*runnerCmd) Synopsis() string {
	return "build, package and launch the kernel in QEMU"
}

func (*runnerCmd) Usage() string {
	return `Usage: runner [flags...] [executable [args...]]

Description:
	Package the kernel executable into a bootable ISO image and boot it in
	QEMU. If no executable is given, the kernel is built first. Additional
	arguments are passed to the kernel on its command line.

	In test mode, QEMU is killed after the timeout and its exit code is
	checked against the expected exit code. Any other exit code is
	propagated as exit code of bootimage.

Using it as cargo runner in .cargo/config.toml:
	[target.'cfg(target_os = "none")']
	runner = "bootimage runner"

Flags:
`
}

func (c *runnerCmd) SetFlags(fs *flag.FlagSet) {
	c.flags.SetFlags(fs)
}

func (c *runnerCmd) Execute(
	ctx context.Context,
	fs *flag.FlagSet,
	_ ...any,
) subcommands.ExitStatus {
	p := newPipeline(c.io, c.env)

	setupLogging(c.io.Stderr, c.flags.debug, p.runID)

	err := c.run(ctx, fs, p)

	return subcommands.ExitStatus(handleRunError(err, c.io.Stderr))
}

func (c *runnerCmd) run(ctx context.Context, fs *flag.FlagSet, p *pipeline) error {
	var (
		executable string
		cmdline    []string
	)

	if fs.NArg() > 0 {
		executable = fs.Arg(0)
		cmdline = fs.Args()[1:]
	}

	project, err := p.loadConfig(c.flags.configFile)
	if err != nil {
		return err
	}

	c.flags.override(fs, &project)

	kernel, err := p.kernel(ctx, executable)
	if err != nil {
		return err
	}

	mode := c.flags.mode.Resolve(build.IsTestArtifact(kernel))
	settings := project.Settings(mode)

	image, err := p.image(ctx, &c.flags.imageFlags, kernel, cmdline)
	if err != nil {
		return err
	}

	if c.flags.keep {
		defer fmt.Fprintf(c.io.Stderr, "Boot image kept at %s\n", image.Path)
	} else {
		defer removeImage(image)
	}

	child, err := p.launch(qemu.CommandSpec{
		Executable: c.flags.qemuBin,
		ISO:        image.Path,
		ExtraArgs:  settings.ExtraArgs(),
		KVM:        c.flags.kvm,
	})
	if err != nil {
		return err
	}

	supervisor := &supervise.Supervisor{Clock: c.clock}

	return p.wait(ctx, child, mode, settings, supervisor)
}
