// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestParseMountPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    MountPath
		wantErr bool
	}{
		{"/hi", "/hi", false},
		{"hi", "/hi", false},
		{"/hi/", "/hi", false},
		{"/a//b/../c", "/a/c", false},
		{"/", "/", false},
		{"  /x  ", "/x", false},
		{"", "", true},
		{"   ", "", true},
		{"/a?b=c", "", true},
		{"/a#frag", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseMountPath(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMountPath(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidMountPath) {
					t.Errorf("error should wrap ErrInvalidMountPath, got: %v", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseMountPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if err := got.Validate(); err != nil {
				t.Errorf("normalized path %q does not validate: %v", got, err)
			}
		})
	}
}

func TestMountPath_Matches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mount MountPath
		req   string
		want  bool
	}{
		{"/hi", "/hi", true},
		{"/hi", "/hi/", true},
		{"/hi", "/hi/there", true},
		{"/hi", "/hiya", false},
		{"/hi", "/", false},
		{"/", "/anything", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.mount)+"->"+tt.req, func(t *testing.T) {
			t.Parallel()
			if got := tt.mount.Matches(tt.req); got != tt.want {
				t.Errorf("MountPath(%q).Matches(%q) = %v, want %v", tt.mount, tt.req, got, tt.want)
			}
		})
	}
}

func TestMountPath_ValidateRejectsUnnormalized(t *testing.T) {
	t.Parallel()

	if err := MountPath("hi/").Validate(); !errors.Is(err, ErrInvalidMountPath) {
		t.Errorf("Validate() on unnormalized path = %v, want ErrInvalidMountPath", err)
	}
}
