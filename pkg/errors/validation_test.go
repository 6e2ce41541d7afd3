package errors

import (
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "opt", false},
		{"with digits", "D1", false},
		{"with dash", "sub-opt", false},
		{"with underscore", "left_output_opt", false},
		{"with dot", "stage.1", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 129), true},
		{"space", "my comp", true},
		{"tab", "a\tb", true},
		{"paren", "a(b)", true},
		{"bracket", "a[b]", true},
		{"brace", "a{b}", true},
		{"semicolon", "a;b", true},
		{"comma", "a,b", true},
		{"backslash", `a\b`, true},
		{"dollar", "a$", true},
		{"control char", "foo\x01bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidName) {
				t.Errorf("ValidateName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidName)
			}
		})
	}
}

func TestValidatePrefix(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"bare", "kitchen_sink", false},
		{"relative dir", "out/kitchen_sink", false},
		{"absolute dir", "/tmp/xdsm/mdf", false},
		{"dashes", "my-diagram", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 501), true},
		{"null byte", "foo\x00bar", true},
		{"trailing slash", "out/", true},
		{"dot", ".", true},
		{"dotdot", "out/..", true},
		{"space in base", "out/my diagram", true},
		{"brace in base", "out/a{b}", true},
		{"percent in base", "out/a%b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePrefix(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePrefix(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
