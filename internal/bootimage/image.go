// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bootimage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// DefaultTool is the image creation tool used if none is given.
const DefaultTool = "grub-mkrescue"

const imageName = "os.iso"

// Spec describes a bootable image.
type Spec struct {
	// Path to the multiboot2 kernel executable.
	Kernel string

	// Dir is the staging directory. The sysroot and the final image are
	// created in it.
	Dir string

	// Additional files put into an archive that is passed to the kernel as
	// multiboot2 module. The files are stored by their base name, so base
	// names must be unique.
	Files []string

	// Image creation tool. [DefaultTool] if empty.
	Tool string

	// Title of the GRUB menu entry. [DefaultMenuEntry] if empty.
	MenuEntry string

	// Command line passed to the kernel by the boot loader.
	Cmdline []string

	// Output of the image creation tool in case of failure. Discarded if nil.
	ToolOutput io.Writer
}

// Image is a built bootable image.
type Image struct {
	// Path is the path of the ISO image file.
	Path string

	// Dir is the staging directory containing the image and its sysroot.
	Dir string
}

// Remove removes the image and its staging directory.
func (i *Image) Remove() error {
	slog.Debug("Removing image staging directory", slog.String("path", i.Dir))

	err := os.RemoveAll(i.Dir)
	if err != nil {
		return fmt.Errorf("remove image: %w", err)
	}

	return nil
}

// Build stages the sysroot for the given [Spec] and creates the ISO image
// from it.
func Build(ctx context.Context, spec Spec) (*Image, error) {
	sysroot := filepath.Join(spec.Dir, "sysroot")

	err := os.MkdirAll(filepath.Join(sysroot, grubDir), 0o755)
	if err != nil {
		return nil, fmt.Errorf("create sysroot: %w", err)
	}

	err = stage(sysroot, spec)
	if err != nil {
		return nil, err
	}

	image := &Image{
		Path: filepath.Join(spec.Dir, imageName),
		Dir:  spec.Dir,
	}

	err = runTool(ctx, spec, image.Path, sysroot)
	if err != nil {
		return nil, err
	}

	slog.Debug("Created boot image", slog.String("path", image.Path))

	return image, nil
}

// stage populates the sysroot. Kernel, GRUB config and initrd are written
// concurrently as they do not depend on each other.
func stage(sysroot string, spec Spec) error {
	var group errgroup.Group

	group.Go(func() error {
		err := copyFile(filepath.Join(sysroot, kernelPath), spec.Kernel)
		if err != nil {
			return fmt.Errorf("copy kernel: %w", err)
		}

		return nil
	})

	group.Go(func() error {
		err := createFile(filepath.Join(sysroot, grubDir, "grub.cfg"),
			func(w io.Writer) error {
				return WriteGrubConfig(w, GrubConfig{
					MenuEntry: spec.MenuEntry,
					Cmdline:   spec.Cmdline,
					Initrd:    len(spec.Files) > 0,
				})
			},
		)
		if err != nil {
			return fmt.Errorf("write grub config: %w", err)
		}

		return nil
	})

	if len(spec.Files) > 0 {
		group.Go(func() error {
			err := createFile(filepath.Join(sysroot, initrdPath),
				func(w io.Writer) error {
					return writeInitrd(w, spec.Files)
				},
			)
			if err != nil {
				return fmt.Errorf("write initrd: %w", err)
			}

			return nil
		})
	}

	return group.Wait() //nolint:wrapcheck
}

func runTool(ctx context.Context, spec Spec, imagePath, sysroot string) error {
	tool := spec.Tool
	if tool == "" {
		tool = DefaultTool
	}

	toolOutput := spec.ToolOutput
	if toolOutput == nil {
		toolOutput = io.Discard
	}

	cmd := exec.CommandContext(ctx, tool, "-o", imagePath, sysroot)

	slog.Debug("Run image tool", slog.String("command", cmd.String()))

	output, err := cmd.CombinedOutput()
	if err != nil {
		_, _ = toolOutput.Write(output)

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: %s: %w", ErrImageToolFailed, tool, err)
		}

		return fmt.Errorf("execute %s: %w", tool, err)
	}

	return nil
}

func writeInitrd(w io.Writer, files []string) error {
	archive := NewCPIOWriter(w)
	names := make(map[string]string, len(files))

	for _, file := range files {
		name := filepath.Base(file)
		if other, exists := names[name]; exists {
			return fmt.Errorf("%w: %s, %s", ErrDuplicateFile, other, file)
		}

		names[name] = file

		err := addFile(archive, name, file)
		if err != nil {
			return err
		}
	}

	return archive.Close()
}

func addFile(archive *CPIOWriter, name, path string) error {
	source, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer source.Close()

	return archive.WriteRegular(name, source)
}

func copyFile(dst, src string) error {
	source, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer source.Close()

	return createFile(dst, func(w io.Writer) error {
		_, err := io.Copy(w, source)
		return err //nolint:wrapcheck
	})
}

func createFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}

	err = write(file)
	if err != nil {
		_ = file.Close()
		return err
	}

	err = file.Close()
	if err != nil {
		return fmt.Errorf("close: %w", err)
	}

	return nil
}
