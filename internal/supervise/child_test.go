// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package supervise_test

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"os/exec"
	"testing"

	"github.com/aibor/bootimage/internal/supervise"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLauncher_Launch(t *testing.T) {
	tests := []struct {
		name        string
		executable  string
		expectedErr error
	}{
		{
			name:        "absent absolute path",
			executable:  "/nonexistent/qemu-system-x86_64",
			expectedErr: fs.ErrNotExist,
		},
		{
			name:        "absent in PATH",
			executable:  "bootimage-nonexistent-emulator",
			expectedErr: exec.ErrNotFound,
		},
		{
			name:        "not executable",
			executable:  "testdata/not_executable",
			expectedErr: fs.ErrPermission,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			launcher := supervise.Launcher{}

			child, err := launcher.Launch(tt.executable, nil)
			require.ErrorIs(t, err, &supervise.LaunchError{})
			require.ErrorIs(t, err, tt.expectedErr)
			assert.Nil(t, child)
			assert.Contains(t, err.Error(), tt.executable)
		})
	}
}

func TestLauncher_Streams(t *testing.T) {
	var stdout, stderr bytes.Buffer

	launcher := helperLauncher()
	launcher.Stdout = &stdout
	launcher.Stderr = &stderr

	child, err := launcher.Launch(os.Args[0], []string{"print", "out", "err"})
	require.NoError(t, err)

	outcome, err := child.Wait(t.Context())
	require.NoError(t, err)

	assert.Equal(t, supervise.Completed(0), outcome)
	assert.Equal(t, "out\n", stdout.String())
	assert.Equal(t, "err\n", stderr.String())
}

func TestChild_Wait(t *testing.T) {
	child := launchHelper(t, "exit", "7")

	outcome, err := child.Wait(t.Context())
	require.NoError(t, err)

	assert.Equal(t, supervise.Completed(7), outcome)
}

func TestChild_WaitTwice(t *testing.T) {
	child := launchHelper(t, "exit", "0")

	_, err := child.Wait(t.Context())
	require.NoError(t, err)

	_, err = child.Wait(t.Context())
	require.ErrorIs(t, err, supervise.ErrChildConsumed)
}

func TestChild_WaitInterrupted(t *testing.T) {
	child := launchHelper(t, "hang")

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := child.Wait(ctx)
	require.ErrorIs(t, err, supervise.ErrInterrupted)
	require.ErrorIs(t, err, context.Canceled)

	assertGone(t, child.Pid())
}
