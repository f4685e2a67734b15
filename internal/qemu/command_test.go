// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu_test

import (
	"testing"

	"github.com/aibor/bootimage/internal/qemu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandSpec_Command(t *testing.T) {
	tests := []struct {
		name               string
		spec               qemu.CommandSpec
		expectedExecutable string
		expectedArgs       []string
		expectedErr        error
	}{
		{
			name:               "defaults",
			spec:               qemu.CommandSpec{ISO: "/tmp/os.iso"},
			expectedExecutable: "qemu-system-x86_64",
			expectedArgs:       []string{"-cdrom", "/tmp/os.iso"},
		},
		{
			name: "extra args",
			spec: qemu.CommandSpec{
				Executable: "/usr/local/bin/qemu",
				ISO:        "/tmp/os.iso",
				ExtraArgs: []string{
					"-serial", "stdio",
					"-display", "none",
				},
			},
			expectedExecutable: "/usr/local/bin/qemu",
			expectedArgs: []string{
				"-cdrom", "/tmp/os.iso",
				"-serial", "stdio",
				"-display", "none",
			},
		},
		{
			name: "empty value kept in place",
			spec: qemu.CommandSpec{
				ISO:       "/tmp/os.iso",
				ExtraArgs: []string{"-append", "", "-serial", "stdio"},
			},
			expectedExecutable: "qemu-system-x86_64",
			expectedArgs: []string{
				"-cdrom", "/tmp/os.iso",
				"-append", "",
				"-serial", "stdio",
			},
		},
		{
			name: "trailing positional image",
			spec: qemu.CommandSpec{
				ISO:       "/tmp/os.iso",
				ExtraArgs: []string{"--no-reboot", "-snapshot", "disk.img"},
			},
			expectedExecutable: "qemu-system-x86_64",
			expectedArgs: []string{
				"-cdrom", "/tmp/os.iso",
				"--no-reboot", "-snapshot", "disk.img",
			},
		},
		{
			name: "leading positional",
			spec: qemu.CommandSpec{
				ISO:       "/tmp/os.iso",
				ExtraArgs: []string{"stdio"},
			},
			expectedExecutable: "qemu-system-x86_64",
			expectedArgs:       []string{"-cdrom", "/tmp/os.iso", "stdio"},
		},
		{
			name: "colliding cdrom",
			spec: qemu.CommandSpec{
				ISO:       "/tmp/os.iso",
				ExtraArgs: []string{"-cdrom", "other.iso"},
			},
			expectedErr: qemu.ErrArgumentCollision,
		},
		{
			name: "colliding cdrom with double dash",
			spec: qemu.CommandSpec{
				ISO:       "/tmp/os.iso",
				ExtraArgs: []string{"-serial", "stdio", "--cdrom", "other.iso"},
			},
			expectedErr: qemu.ErrArgumentCollision,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			executable, args, err := tt.spec.Command()
			require.ErrorIs(t, err, tt.expectedErr)

			assert.Equal(t, tt.expectedExecutable, executable)
			assert.Equal(t, tt.expectedArgs, args)
		})
	}
}

func TestCommandSpec_ArgumentsKVM(t *testing.T) {
	spec := qemu.CommandSpec{ISO: "/tmp/os.iso", KVM: true}

	args, err := spec.Arguments()
	require.NoError(t, err)

	if qemu.KVMAvailable() {
		assert.Equal(t, []string{"-cdrom", "/tmp/os.iso", "-enable-kvm"}, args)
	} else {
		assert.Equal(t, []string{"-cdrom", "/tmp/os.iso"}, args)
	}
}
