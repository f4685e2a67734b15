// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aibor/bootimage/internal/cmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type project struct {
	env       cmd.Environment
	targetDir string
	kernel    string
	testBin   string
}

// setupProject creates a project with a manifest that holds the given
// config table content, a kernel and a test binary in a cargo like target
// directory.
func setupProject(t *testing.T, config string) project {
	t.Helper()

	dir := t.TempDir()
	targetDir := filepath.Join(dir, "target")
	profileDir := filepath.Join(targetDir, "x86_64-kernel", "debug")

	p := project{
		env: cmd.Environment{
			BuildTool:   os.Args[0],
			ManifestDir: dir,
		},
		targetDir: targetDir,
		kernel:    filepath.Join(profileDir, "kernel"),
		testBin:   filepath.Join(profileDir, "deps", "kernel-0123456789abcdef"),
	}

	for _, file := range []string{p.kernel, p.testBin} {
		require.NoError(t, os.MkdirAll(filepath.Dir(file), 0o755))
		require.NoError(t, os.WriteFile(file, []byte("kernel"), 0o600))
	}

	manifest := "[package]\nname = \"kernel\"\nversion = \"0.1.0\"\n"
	if config != "" {
		manifest += "\n[package.metadata.grub-bootimage]\n" + config
	}

	manifestFile := filepath.Join(dir, "Cargo.toml")
	require.NoError(t, os.WriteFile(manifestFile, []byte(manifest), 0o600))

	t.Setenv(helperEnv, "1")
	t.Setenv(helperKernelEnv, p.testBin)
	t.Setenv(helperTargetEnv, targetDir)

	return p
}

func (p project) run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cfg := cmd.IO{
		Stdout: &stdout,
		Stderr: &stderr,
	}

	exitCode := cmd.Run(t.Context(), args, cfg, p.env)

	return exitCode, stdout.String(), stderr.String()
}

func runnerArgs(args ...string) []string {
	return append([]string{
		"runner",
		"-qemu-bin", os.Args[0],
		"-grub-mkrescue", os.Args[0],
	}, args...)
}

const testConfig = `test-args = ["-print", "from test args", "-exit", "33"]
test-success-exit-code = 33
run-args = ["-exit", "7"]
`

func TestRun_Runner(t *testing.T) {
	tests := []struct {
		name             string
		config           string
		args             []string
		useTestBin       bool
		expectedExitCode int
		expectedStdout   string
		expectedStderr   string
	}{
		{
			name:             "test passes with expected exit code",
			config:           testConfig,
			useTestBin:       true,
			expectedExitCode: 0,
			expectedStdout:   "from test args\n",
		},
		{
			name:             "test exit code mismatch is propagated",
			config:           testConfig,
			args:             []string{"-expected-exit-code", "0"},
			useTestBin:       true,
			expectedExitCode: 33,
			expectedStdout:   "from test args\n",
		},
		{
			name:             "test defaults expect 0",
			config:           "test-args = [\"-exit\", \"0\"]\n",
			useTestBin:       true,
			expectedExitCode: 0,
		},
		{
			name:             "test timed out",
			config:           "test-args = [\"-hang\"]\n",
			args:             []string{"-timeout", "1"},
			useTestBin:       true,
			expectedExitCode: 124,
			expectedStderr:   "Error [bootimage]: test timed out after 1s\n",
		},
		{
			name:             "zero timeout",
			config:           "test-args = [\"-hang\"]\ntest-timeout = 0\n",
			useTestBin:       true,
			expectedExitCode: 124,
			expectedStderr:   "test timed out after 0s",
		},
		{
			name:             "run mode ignores exit code",
			config:           testConfig,
			expectedExitCode: 0,
		},
		{
			name:             "forced test mode",
			config:           testConfig,
			args:             []string{"-mode", "test"},
			expectedExitCode: 0,
			expectedStdout:   "from test args\n",
		},
		{
			name:             "forced run mode",
			config:           testConfig,
			args:             []string{"-mode", "run"},
			useTestBin:       true,
			expectedExitCode: 0,
		},
		{
			name:             "colliding emulator args",
			config:           "run-args = [\"--cdrom\", \"other.iso\"]\n",
			expectedExitCode: 124,
			expectedStderr:   "colliding args",
		},
		{
			name:             "emulator args passed verbatim",
			config:           "run-args = [\"-print\", \"\", \"-print\", \"last\", \"disk.img\"]\n",
			expectedExitCode: 0,
			expectedStdout:   "\nlast\n",
		},
		{
			name:             "invalid config",
			config:           "test-timeot = 5\n",
			expectedExitCode: 124,
			expectedStderr:   "invalid config",
		},
		{
			name:             "emulator missing",
			args:             []string{"-qemu-bin", "/nonexistent/qemu"},
			expectedExitCode: 124,
			expectedStderr:   "Error [bootimage]: launch /nonexistent/qemu: ",
		},
		{
			name:             "invalid mode",
			args:             []string{"-mode", "debug"},
			expectedExitCode: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := setupProject(t, tt.config)

			kernel := p.kernel
			if tt.useTestBin {
				kernel = p.testBin
			}

			args := runnerArgs(append(tt.args, kernel)...)
			exitCode, stdout, stderr := p.run(t, args...)

			assert.Equal(t, tt.expectedExitCode, exitCode, "exit code")
			assert.Equal(t, tt.expectedStdout, stdout, "stdout")

			if tt.expectedStderr == "" {
				assert.NotContains(t, stderr, "Error [bootimage]", "stderr")
			} else {
				assert.Contains(t, stderr, tt.expectedStderr, "stderr")
			}
		})
	}
}

func TestRun_RunnerConfigOverride(t *testing.T) {
	p := setupProject(t, testConfig)

	override := "test-success-exit-code: 0\n"
	overrideFile := filepath.Join(p.env.ManifestDir, "ci.yaml")
	require.NoError(t, os.WriteFile(overrideFile, []byte(override), 0o600))

	exitCode, _, _ := p.run(t, runnerArgs(p.testBin)...)
	assert.Equal(t, 0, exitCode, "manifest only")

	exitCode, _, _ = p.run(t, runnerArgs("-config", "ci.yaml", p.testBin)...)
	assert.Equal(t, 33, exitCode, "override applies")
}

func TestRun_RunnerBuildsKernel(t *testing.T) {
	p := setupProject(t, testConfig)

	exitCode, stdout, stderr := p.run(t, runnerArgs()...)

	assert.Equal(t, 0, exitCode, stderr)
	assert.Equal(t, "from test args\n", stdout)
}

func TestRun_RunnerCleansUp(t *testing.T) {
	p := setupProject(t, testConfig)

	exitCode, _, stderr := p.run(t, runnerArgs(p.kernel)...)
	require.Equal(t, 0, exitCode, stderr)

	entries, err := os.ReadDir(filepath.Join(p.targetDir, "bootimage"))
	require.NoError(t, err)
	assert.Empty(t, entries, "staging directories")
}

func TestRun_RunnerKeep(t *testing.T) {
	p := setupProject(t, testConfig)

	exitCode, _, stderr := p.run(t, runnerArgs("-keep", p.kernel)...)
	require.Equal(t, 0, exitCode, stderr)

	prefix := "Boot image kept at "
	require.Contains(t, stderr, prefix)

	_, path, _ := strings.Cut(stderr, prefix)
	assert.FileExists(t, strings.TrimSpace(path))
}

func TestRun_RunnerEnvArgs(t *testing.T) {
	p := setupProject(t, testConfig)
	p.env.Args = []string{"-expected-exit-code", "0"}

	exitCode, _, _ := p.run(t, runnerArgs(p.testBin)...)
	assert.Equal(t, 33, exitCode, "env args apply")

	exitCode, _, _ = p.run(t, runnerArgs("-expected-exit-code", "33", p.testBin)...)
	assert.Equal(t, 0, exitCode, "flags override env args")
}

func TestRun_Package(t *testing.T) {
	p := setupProject(t, "")

	exitCode, stdout, stderr := p.run(t,
		"package",
		"-grub-mkrescue", os.Args[0],
		p.kernel,
	)
	require.Equal(t, 0, exitCode, stderr)

	path := strings.TrimSpace(stdout)
	assert.True(t, strings.HasPrefix(path, filepath.Join(p.targetDir, "bootimage")), path)
	assert.Equal(t, "os.iso", filepath.Base(path))
	assert.FileExists(t, path)
}

func TestRun_PackageTooManyArgs(t *testing.T) {
	p := setupProject(t, "")

	exitCode, _, stderr := p.run(t, "package", p.kernel, p.testBin)
	assert.Equal(t, 2, exitCode)
	assert.Contains(t, stderr, "too many arguments")
}

func TestRun_Commander(t *testing.T) {
	tests := []struct {
		name             string
		args             []string
		expectedExitCode int
	}{
		{
			name:             "no subcommand",
			expectedExitCode: 2,
		},
		{
			name:             "unknown subcommand",
			args:             []string{"launch"},
			expectedExitCode: 2,
		},
		{
			name:             "unknown top level flag",
			args:             []string{"-kernel", "runner"},
			expectedExitCode: 2,
		},
		{
			name: "help",
			args: []string{"help"},
		},
		{
			name: "help runner",
			args: []string{"help", "runner"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := setupProject(t, "")

			exitCode, _, _ := p.run(t, tt.args...)
			assert.Equal(t, tt.expectedExitCode, exitCode)
		})
	}
}
