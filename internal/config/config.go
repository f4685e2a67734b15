// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config provides the project configuration and the settings derived
// from it for a single invocation.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// ManifestFileName is the name of the package manifest in the manifest
	// directory.
	ManifestFileName = "Cargo.toml"

	// MetadataTable is the name of the table in the manifest's
	// "package.metadata" table that holds the project configuration.
	MetadataTable = "grub-bootimage"

	// FileName is the name of the optional configuration file in the manifest
	// directory. Its keys override those of the [MetadataTable].
	FileName = "bootimage.yaml"

	// DefaultTestTimeout is the test timeout in seconds used if none is
	// configured.
	DefaultTestTimeout = 300
)

// ErrInvalidConfig is returned if a configuration source can not be parsed.
var ErrInvalidConfig = errors.New("invalid config")

// Project is the project configuration as read from the [MetadataTable] of
// the [ManifestFileName] and the optional [FileName].
type Project struct {
	// Extra arguments passed to the emulator in run mode.
	RunArgs []string `toml:"run-args" yaml:"run-args"`

	// Extra arguments passed to the emulator in test mode.
	TestArgs []string `toml:"test-args" yaml:"test-args"`

	// Time in seconds to wait for the emulator to exit in test mode.
	TestTimeout uint32 `toml:"test-timeout" yaml:"test-timeout"`

	// Exit code considered a success in test mode. If nil, 0 is expected.
	TestSuccessExitCode *int32 `toml:"test-success-exit-code" yaml:"test-success-exit-code"`
}

// manifest is the part of the package manifest that is of interest.
type manifest struct {
	Package struct {
		Metadata map[string]any `toml:"metadata"`
	} `toml:"package"`
}

// Default returns the [Project] configuration used if no file is present.
func Default() Project {
	return Project{
		TestTimeout: DefaultTestTimeout,
	}
}

// Load reads the [Project] configuration from the [MetadataTable] of the
// [ManifestFileName] and then applies the given override file on top of it.
//
// If either file does not exist, it is skipped. If the manifest has no
// [MetadataTable], [Default] is used as base. Unknown keys are an error in
// both.
func Load(fsys fs.FS, overrideFile string) (Project, error) {
	project := Default()

	err := decodeManifest(fsys, &project)
	if err != nil {
		return Default(), err
	}

	err = decodeOverride(fsys, overrideFile, &project)
	if err != nil {
		return Default(), err
	}

	return project, nil
}

func decodeManifest(fsys fs.FS, project *Project) error {
	data, err := readOptional(fsys, ManifestFileName)
	if err != nil || data == nil {
		return err
	}

	var pkg manifest

	err = toml.Unmarshal(data, &pkg)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, ManifestFileName, err)
	}

	value, exists := pkg.Package.Metadata[MetadataTable]
	if !exists {
		return nil
	}

	table, isTable := value.(map[string]any)
	if !isTable {
		return fmt.Errorf("%w: %s: %s is not a table: %v",
			ErrInvalidConfig, ManifestFileName, MetadataTable, value)
	}

	// Re-encode the table, so it can be decoded strictly into the struct.
	raw, err := toml.Marshal(table)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, MetadataTable, err)
	}

	decoder := toml.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()

	err = decoder.Decode(project)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, MetadataTable, err)
	}

	return nil
}

func decodeOverride(fsys fs.FS, file string, project *Project) error {
	if file == "" {
		return nil
	}

	data, err := readOptional(fsys, file)
	if err != nil || data == nil {
		return err
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	err = decoder.Decode(project)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, file, err)
	}

	return nil
}

// readOptional returns the content of the file or nil if it does not exist.
func readOptional(fsys fs.FS, file string) ([]byte, error) {
	data, err := fs.ReadFile(fsys, file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("read file: %w", err)
	}

	if data == nil {
		data = []byte{}
	}

	return data, nil
}

// Settings returns the [Settings] for the given [Mode].
//
// [ModeAuto] must be resolved before.
func (p *Project) Settings(mode Mode) Settings {
	if mode == ModeTest {
		var expected *int

		if p.TestSuccessExitCode != nil {
			code := int(*p.TestSuccessExitCode)
			expected = &code
		}

		timeout := time.Duration(p.TestTimeout) * time.Second

		return NewSettings(p.TestArgs, timeout, expected)
	}

	return NewSettings(p.RunArgs, 0, nil)
}
