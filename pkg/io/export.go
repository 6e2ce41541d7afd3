package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/xdsm/pkg/errors"
)

// WriteTOML encodes def as TOML and writes it to w.
func WriteTOML(def *Definition, w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(def); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode toml")
	}
	return nil
}

// WriteYAML encodes def as YAML and writes it to w.
func WriteYAML(def *Definition, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(def); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode yaml")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode yaml")
	}
	return nil
}

// WriteJSON encodes def as indented JSON and writes it to w.
func WriteJSON(def *Definition, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(def); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode json")
	}
	return nil
}

// Write encodes def in the given format.
func Write(def *Definition, w io.Writer, format Format) error {
	switch format {
	case FormatTOML:
		return WriteTOML(def, w)
	case FormatYAML:
		return WriteYAML(def, w)
	case FormatJSON:
		return WriteJSON(def, w)
	case FormatHCL:
		return WriteHCL(def, w)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported definition format %q", format)
	}
}

// ExportFile writes def to path, choosing the encoder from the file
// extension.
func ExportFile(def *Definition, path string) error {
	format, err := DetectFormat(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer f.Close()
	return Write(def, f, format)
}
