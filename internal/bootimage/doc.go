// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package bootimage packages a multiboot2 kernel into a bootable ISO image
// using GRUB.
//
// The image is staged in a sysroot directory:
//
//	sysroot/boot/kernel.bin     the kernel executable
//	sysroot/boot/initrd.cpio    optional newc archive of additional files
//	sysroot/boot/grub/grub.cfg  boots the kernel right away
//
// The image creation itself is done by grub-mkrescue, which must be present
// on the system.
package bootimage
