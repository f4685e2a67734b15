// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

// packageCmd builds and packages the kernel without launching it.
type packageCmd struct {
	flags imageFlags
	io    IO
	env   Environment
}

var _ = subcommands.Command(&packageCmd{})

func newPackageCmd(cfg IO, env Environment) *packageCmd {
	return &packageCmd{
		io:  cfg,
		env: env,
	}
}

func (*packageCmd) Name() string { return "package" }

func (*packageCmd) Synopsis() string {
	return "build and package the kernel into a bootable ISO image"
}

func (*packageCmd) Usage() string {
	return `Usage: package [flags...] [executable]

Description:
	Package the kernel executable into a bootable ISO image. If no
	executable is given, the kernel is built first. The path of the image
	is printed on stdout. The image is kept.

Flags:
`
}

func (c *packageCmd) SetFlags(fs *flag.FlagSet) {
	c.flags.SetFlags(fs)
}

func (c *packageCmd) Execute(
	ctx context.Context,
	fs *flag.FlagSet,
	_ ...any,
) subcommands.ExitStatus {
	p := newPipeline(c.io, c.env)

	setupLogging(c.io.Stderr, c.flags.debug, p.runID)

	err := c.run(ctx, fs, p)

	return subcommands.ExitStatus(handleRunError(err, c.io.Stderr))
}

func (c *packageCmd) run(ctx context.Context, fs *flag.FlagSet, p *pipeline) error {
	if fs.NArg() > 1 {
		return &ParseArgsError{msg: "too many arguments, expected one executable"}
	}

	kernel, err := p.kernel(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	image, err := p.image(ctx, &c.flags, kernel, nil)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(c.io.Stdout, image.Path)
	if err != nil {
		return fmt.Errorf("print image path: %w", err)
	}

	return nil
}
