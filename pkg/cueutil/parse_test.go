// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

const testSchema = `
#Doc: {
	name:  string
	port?: int & >=1 & <=65535
	tags?: [...string]
}
`

func TestDecode(t *testing.T) {
	t.Parallel()

	type doc struct {
		Name string   `json:"name"`
		Port int      `json:"port"`
		Tags []string `json:"tags"`
	}

	got, err := Decode[doc]([]byte(testSchema), []byte(`name: "x", port: 80, tags: ["a"]`), "#Doc")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Name != "x" || got.Port != 80 || len(got.Tags) != 1 {
		t.Errorf("Decode = %+v", got)
	}
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     string
		opts     []Option
		wantSubs []string
	}{
		{
			name:     "out of range",
			data:     `name: "x", port: 70000`,
			opts:     []Option{WithFilename("cfg.cue")},
			wantSubs: []string{"cfg.cue", "port"},
		},
		{
			name:     "closed definition",
			data:     `name: "x", bogus: 1`,
			wantSubs: []string{"<input>", "bogus"},
		},
		{
			name:     "syntax",
			data:     `name: `,
			opts:     []Option{WithFilename("broken.cue")},
			wantSubs: []string{"broken.cue"},
		},
		{
			name:     "too large",
			data:     `name: "0123456789"`,
			opts:     []Option{WithMaxFileSize(4)},
			wantSubs: []string{"exceeds maximum"},
		},
		{
			name:     "missing required when concrete",
			data:     `port: 80`,
			opts:     []Option{WithConcrete()},
			wantSubs: []string{"name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode[map[string]any]([]byte(testSchema), []byte(tt.data), "#Doc", tt.opts...)
			if err == nil {
				t.Fatal("Decode succeeded, want error")
			}
			for _, s := range tt.wantSubs {
				if !strings.Contains(err.Error(), s) {
					t.Errorf("error %q lacks %q", err, s)
				}
			}
		})
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"port"}, "port"},
		{[]string{"admin", "port"}, "admin.port"},
		{[]string{"enable", "0"}, "enable[0]"},
	}
	for _, tt := range tests {
		if got := formatPath(tt.in); got != tt.want {
			t.Errorf("formatPath(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
