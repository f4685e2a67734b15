// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package build runs the kernel build and finds the produced executables.
//
// The build tool is expected to behave like cargo: "build --message-format
// json" prints one JSON object per line, artifacts with an executable carry
// its path in the "executable" field.
package build

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
)

// DefaultTool is the build tool used if none is given.
const DefaultTool = "cargo"

var (
	// ErrBuildFailed is returned if the build tool exits with non-zero exit
	// code.
	ErrBuildFailed = errors.New("kernel build failed")

	// ErrInvalidJSON is returned if a line of the build tool output is not
	// valid JSON.
	ErrInvalidJSON = errors.New("invalid JSON")

	// ErrNoExecutable is returned if the build did not produce any
	// executable.
	ErrNoExecutable = errors.New("no executable built")

	// ErrNoTargetDir is returned if the metadata do not contain the target
	// directory.
	ErrNoTargetDir = errors.New("no target directory in metadata")
)

// Builder runs the build tool.
type Builder struct {
	// Tool is the build tool executable. [DefaultTool] if empty.
	Tool string

	// Dir is the working directory. Current working directory if empty.
	Dir string

	// Stderr receives the diagnostic output of the build tool.
	Stderr io.Writer
}

func (b *Builder) tool() string {
	if b.Tool == "" {
		return DefaultTool
	}

	return b.Tool
}

func (b *Builder) output(ctx context.Context, args ...string) ([]byte, error) {
	var stdout bytes.Buffer

	cmd := exec.CommandContext(ctx, b.tool(), args...)
	cmd.Dir = b.Dir
	cmd.Stdout = &stdout
	cmd.Stderr = b.Stderr

	slog.Debug("Run build tool", slog.String("command", cmd.String()))

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: %s: %w", ErrBuildFailed, args[0], err)
		}

		return nil, fmt.Errorf("execute %s: %w", b.tool(), err)
	}

	return stdout.Bytes(), nil
}

// Build builds the kernel and returns the paths of all built executables in
// the order they were reported.
func (b *Builder) Build(ctx context.Context) ([]string, error) {
	out, err := b.output(ctx, "build", "--message-format", "json")
	if err != nil {
		return nil, err
	}

	executables, err := ParseArtifacts(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("parse build output: %w", err)
	}

	if len(executables) == 0 {
		return nil, ErrNoExecutable
	}

	return executables, nil
}

// TargetDir returns the directory the build tool writes its output to.
func (b *Builder) TargetDir(ctx context.Context) (string, error) {
	out, err := b.output(ctx, "metadata", "--format-version", "1", "--no-deps")
	if err != nil {
		return "", err
	}

	return ParseTargetDir(out)
}

// ParseArtifacts parses the JSON lines build output and returns the values of
// all "executable" fields. Lines without or with null executable are skipped.
func ParseArtifacts(reader io.Reader) ([]string, error) {
	var executables []string

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(nil, bufio.MaxScanTokenSize*16)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		if !gjson.Valid(line) {
			return nil, fmt.Errorf("%w: %.40q", ErrInvalidJSON, line)
		}

		executable := gjson.Get(line, "executable")
		if executable.Type == gjson.String {
			executables = append(executables, executable.String())
		}
	}

	err := scanner.Err()
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	return executables, nil
}

// ParseTargetDir returns the "target_directory" field from the given metadata
// JSON.
func ParseTargetDir(metadata []byte) (string, error) {
	if !gjson.ValidBytes(metadata) {
		return "", ErrInvalidJSON
	}

	targetDir := gjson.GetBytes(metadata, "target_directory")
	if targetDir.Type != gjson.String || targetDir.String() == "" {
		return "", ErrNoTargetDir
	}

	return targetDir.String(), nil
}

// IsTestArtifact returns true if the given executable is a test binary. Test
// binaries are placed in a "deps" directory.
func IsTestArtifact(executable string) bool {
	return filepath.Base(filepath.Dir(executable)) == "deps"
}
