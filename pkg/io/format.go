package io

import (
	"path/filepath"
	"strings"

	"github.com/matzehuels/xdsm/pkg/errors"
)

// Format is a definition file syntax.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatHCL  Format = "hcl"
)

// Formats lists the supported formats.
var Formats = []Format{FormatTOML, FormatYAML, FormatJSON, FormatHCL}

// ParseFormat converts a format name such as "toml" or "yml" to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "hcl":
		return FormatHCL, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported definition format %q (use toml, yaml, json or hcl)", s)
	}
}

// DetectFormat infers the format of a file from its extension.
func DetectFormat(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer definition format of %s: no file extension", path)
	}
	return ParseFormat(ext)
}

// Extension returns the canonical file extension, including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}
