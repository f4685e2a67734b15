// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aibor/bootimage/internal/bootimage"
	"github.com/aibor/bootimage/internal/build"
	"github.com/aibor/bootimage/internal/config"
	"github.com/aibor/bootimage/internal/exitcode"
	"github.com/aibor/bootimage/internal/qemu"
	"github.com/aibor/bootimage/internal/supervise"
	"github.com/google/uuid"
)

// stagingDirName is the directory in the build tool's target directory that
// holds the staging directories of all invocations.
const stagingDirName = "bootimage"

// pipeline holds the state shared by the steps of a single invocation.
type pipeline struct {
	io      IO
	env     Environment
	runID   string
	builder *build.Builder
}

func newPipeline(cfg IO, env Environment) *pipeline {
	return &pipeline{
		io:    cfg,
		env:   env,
		runID: uuid.NewString(),
		builder: &build.Builder{
			Tool:   env.BuildTool,
			Dir:    env.ManifestDir,
			Stderr: cfg.Stderr,
		},
	}
}

func (p *pipeline) manifestDir() string {
	if p.env.ManifestDir == "" {
		return "."
	}

	return p.env.ManifestDir
}

// loadConfig reads the project config from the manifest and the given
// override file in the manifest directory.
func (p *pipeline) loadConfig(file string) (config.Project, error) {
	project, err := config.Load(os.DirFS(p.manifestDir()), file)
	if err != nil {
		return project, fmt.Errorf("load config: %w", err)
	}

	return project, nil
}

// kernel returns the absolute path of the kernel executable. If none is
// given, the kernel is built.
func (p *pipeline) kernel(ctx context.Context, given string) (string, error) {
	if given != "" {
		path, err := AbsoluteFilePath(given)
		if err != nil {
			return "", err
		}

		err = ValidateFilePath(path)
		if err != nil {
			return "", fmt.Errorf("kernel file: %w", err)
		}

		return path, nil
	}

	executables, err := p.builder.Build(ctx)
	if err != nil {
		return "", fmt.Errorf("build kernel: %w", err)
	}

	if len(executables) > 1 {
		return "", fmt.Errorf("%w: %s",
			ErrMultipleExecutables, strings.Join(executables, ", "))
	}

	slog.Debug("Built kernel", slog.String("path", executables[0]))

	return executables[0], nil
}

// image builds the boot image for the given kernel in a staging directory
// unique to this invocation.
func (p *pipeline) image(
	ctx context.Context,
	flags *imageFlags,
	kernel string,
	cmdline []string,
) (*bootimage.Image, error) {
	targetDir, err := p.builder.TargetDir(ctx)
	if err != nil {
		return nil, fmt.Errorf("find target directory: %w", err)
	}

	dir := filepath.Join(targetDir, stagingDirName, p.runID)

	image, err := bootimage.Build(ctx, bootimage.Spec{
		Kernel:     kernel,
		Dir:        dir,
		Files:      flags.files,
		Tool:       flags.imageTool,
		MenuEntry:  flags.menuEntry,
		Cmdline:    cmdline,
		ToolOutput: p.io.Stderr,
	})
	if err != nil {
		removeImage(&bootimage.Image{Dir: dir})
		return nil, fmt.Errorf("build image: %w", err)
	}

	return image, nil
}

// launch starts the emulator booting the given image.
func (p *pipeline) launch(spec qemu.CommandSpec) (*supervise.Child, error) {
	executable, args, err := spec.Command()
	if err != nil {
		return nil, fmt.Errorf("qemu command: %w", err)
	}

	launcher := supervise.Launcher{
		Stdin:  p.io.Stdin,
		Stdout: p.io.Stdout,
		Stderr: p.io.Stderr,
	}

	child, err := launcher.Launch(executable, args)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	slog.Debug("Launched emulator",
		slog.String("executable", executable),
		slog.Any("args", args),
		slog.Int("pid", child.Pid()))

	return child, nil
}

// wait waits for the child in the given mode and returns the result of the
// invocation.
func (p *pipeline) wait(
	ctx context.Context,
	child *supervise.Child,
	mode config.Mode,
	settings config.Settings,
	supervisor *supervise.Supervisor,
) error {
	if mode == config.ModeRun {
		outcome, err := child.Wait(ctx)
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}

		slog.Debug("Emulator exited", slog.String("outcome", outcome.String()))

		return nil
	}

	outcome, err := supervisor.Supervise(ctx, child, settings.TestTimeout())
	if err != nil {
		return fmt.Errorf("test: %w", err)
	}

	slog.Debug("Emulator exited", slog.String("outcome", outcome.String()))

	return exitcode.Report(outcome, settings.ExpectedExitCode(), settings.TestTimeout())
}

func removeImage(image *bootimage.Image) {
	err := image.Remove()
	if err != nil {
		slog.Error(
			"Failed to remove boot image",
			slog.String("path", image.Dir),
			slog.Any("error", err),
		)
	}
}
