// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package bootimage

import (
	"io"
	"text/template"
)

const (
	kernelPath = "/boot/kernel.bin"
	initrdPath = "/boot/initrd.cpio"
	grubDir    = "/boot/grub"
)

// DefaultMenuEntry is the GRUB menu entry title used if none is given.
const DefaultMenuEntry = "bootimage"

// The menu is skipped and the only entry is booted right away.
var grubConfig = template.Must(template.New("grub.cfg").Parse(`set timeout=0
set default=0

menuentry "{{ .MenuEntry }}" {
	multiboot2 {{ .Kernel }}{{ range .Cmdline }} {{ . }}{{ end }}
{{- if .Initrd }}
	module2 {{ .Initrd }} initrd
{{- end }}
	boot
}
`))

// GrubConfig describes the single menu entry of the GRUB configuration.
type GrubConfig struct {
	// Title of the menu entry. [DefaultMenuEntry] if empty.
	MenuEntry string

	// Command line passed to the kernel.
	Cmdline []string

	// Load the archive of additional files as multiboot2 module.
	Initrd bool
}

type grubConfigData struct {
	MenuEntry string
	Kernel    string
	Cmdline   []string
	Initrd    string
}

// WriteGrubConfig writes the GRUB configuration for booting the kernel into
// the given writer.
func WriteGrubConfig(w io.Writer, cfg GrubConfig) error {
	data := grubConfigData{
		MenuEntry: cfg.MenuEntry,
		Kernel:    kernelPath,
		Cmdline:   cfg.Cmdline,
	}

	if data.MenuEntry == "" {
		data.MenuEntry = DefaultMenuEntry
	}

	if cfg.Initrd {
		data.Initrd = initrdPath
	}

	return grubConfig.Execute(w, data) //nolint:wrapcheck
}
