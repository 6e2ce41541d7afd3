package errors

import (
	"strings"
	"unicode"
)

// nodeNameForbidden lists characters that break TikZ node references
// such as "(A) edge [DataLine] (A-B)" or "\chainin (A);".
const nodeNameForbidden = "()[]{};,\\$%&#"

// ValidateName validates a component name for use as a TikZ node identifier.
//
// The rules are:
//   - No empty names
//   - No whitespace or control characters
//   - None of the characters ( ) [ ] { } ; , \ $ % & #
//   - Maximum length of 128 characters
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "component name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidName, "component name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidName, "component name %q contains whitespace or control characters", name)
		}
	}

	if i := strings.IndexAny(name, nodeNameForbidden); i >= 0 {
		return New(ErrCodeInvalidName, "component name %q contains invalid character %q", name, name[i])
	}

	return nil
}

// ValidatePrefix validates an output file prefix such as "out/kitchen_sink".
// The prefix becomes <prefix>.tikz and <prefix>.tex, and the tex file
// references the tikz file by base name, so the base name must be usable
// inside \input{...}.
//
// Validation rules:
//   - Prefix cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Base name cannot be "." or ".." or contain whitespace, braces or '%'
func ValidatePrefix(prefix string) error {
	if prefix == "" {
		return New(ErrCodeInvalidPath, "output prefix cannot be empty")
	}

	const maxPathLength = 500
	if len(prefix) > maxPathLength {
		return New(ErrCodeInvalidPath, "output prefix too long (max %d characters)", maxPathLength)
	}

	for _, r := range prefix {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output prefix contains invalid characters")
		}
	}

	base := prefix
	if i := strings.LastIndexAny(prefix, `/\`); i >= 0 {
		base = prefix[i+1:]
	}
	if base == "" || base == "." || base == ".." {
		return New(ErrCodeInvalidPath, "output prefix %q has no file name", prefix)
	}
	if strings.ContainsAny(base, " \t{}%") {
		return New(ErrCodeInvalidPath, "output prefix %q contains characters LaTeX cannot \\input", prefix)
	}

	return nil
}
