// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestListenPort_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		port    ListenPort
		wantErr bool
	}{
		{0, false},
		{1, false},
		{8080, false},
		{65535, false},
		{-1, true},
		{65536, true},
	}

	for _, tt := range tests {
		t.Run(tt.port.String(), func(t *testing.T) {
			t.Parallel()
			err := tt.port.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("ListenPort(%d).Validate() error = %v, wantErr %v", tt.port, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidListenPort) {
					t.Errorf("error should wrap ErrInvalidListenPort, got: %v", err)
				}
				var lpErr *InvalidListenPortError
				if !errors.As(err, &lpErr) {
					t.Errorf("error should be *InvalidListenPortError, got: %T", err)
				}
			}
		})
	}
}

func TestParseListenPort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    ListenPort
		wantErr bool
	}{
		{"8080", 8080, false},
		{" 3000 ", 3000, false},
		{"0", 0, false},
		{"", 0, true},
		{"abc", 0, true},
		{"70000", 0, true},
		{"-5", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseListenPort(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseListenPort(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidListenPort) {
					t.Errorf("error should wrap ErrInvalidListenPort, got: %v", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseListenPort(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestListenPort_IsSet(t *testing.T) {
	t.Parallel()

	if ListenPort(0).IsSet() {
		t.Error("ListenPort(0).IsSet() = true, want false")
	}
	if !ListenPort(80).IsSet() {
		t.Error("ListenPort(80).IsSet() = false, want true")
	}
}
