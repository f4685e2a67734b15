// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package qemu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArgumentAccessors(t *testing.T) {
	a := Argument{name: "some", value: "thing"}
	assert.Equal(t, "some", a.Name())
	assert.Equal(t, "thing", a.Value())
	assert.Equal(t, "-some thing", a.String())
	assert.True(t, a.UniqueName())

	b := Argument{name: "flag", nonUniqueName: true}
	assert.Equal(t, "-flag", b.String())
	assert.False(t, b.UniqueName())
}

func TestArgumentEqual(t *testing.T) {
	tests := []struct {
		name  string
		a     Argument
		b     Argument
		equal bool
	}{
		{
			name:  "both empty",
			equal: true,
		},
		{
			name:  "one empty",
			a:     Argument{name: "t"},
			equal: false,
		},
		{
			name:  "same name",
			a:     Argument{name: "t", value: "5"},
			b:     Argument{name: "t", value: "6"},
			equal: true,
		},
		{
			name:  "same name one unique",
			a:     Argument{name: "t", value: "5"},
			b:     Argument{name: "t", value: "6", nonUniqueName: true},
			equal: true,
		},
		{
			name:  "same non-unique name",
			a:     Argument{name: "t", value: "5", nonUniqueName: true},
			b:     Argument{name: "t", value: "6", nonUniqueName: true},
			equal: false,
		},
		{
			name:  "same non-unique name and value",
			a:     Argument{name: "t", value: "5", nonUniqueName: true},
			b:     Argument{name: "t", value: "5", nonUniqueName: true},
			equal: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, tt.a.Equal(tt.b), "a")
			assert.Equal(t, tt.equal, tt.b.Equal(tt.a), "b")
		})
	}
}
