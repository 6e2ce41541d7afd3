package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/xdsm/pkg/errors"
	"github.com/matzehuels/xdsm/pkg/xdsm"
)

// ReadTOML decodes a TOML definition from r.
// Keys that do not belong to the definition schema are rejected.
func ReadTOML(r io.Reader) (*Definition, error) {
	var def Definition
	md, err := toml.NewDecoder(r).Decode(&def)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDefinition, err, "decode toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidDefinition, "unknown key %q", undecoded[0].String())
	}
	return &def, nil
}

// ReadYAML decodes a YAML definition from r.
func ReadYAML(r io.Reader) (*Definition, error) {
	var def Definition
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDefinition, err, "decode yaml")
	}
	return &def, nil
}

// ReadJSON decodes a JSON definition from r.
func ReadJSON(r io.Reader) (*Definition, error) {
	var def Definition
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&def); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDefinition, err, "decode json")
	}
	return &def, nil
}

// Read decodes a definition of the given format from r.
func Read(r io.Reader, format Format) (*Definition, error) {
	switch format {
	case FormatTOML:
		return ReadTOML(r)
	case FormatYAML:
		return ReadYAML(r)
	case FormatJSON:
		return ReadJSON(r)
	case FormatHCL:
		src, err := io.ReadAll(r)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read hcl")
		}
		return ReadHCL(src, "definition.hcl")
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported definition format %q", format)
	}
}

// ImportFile reads a definition file, choosing the decoder from the file
// extension.
func ImportFile(path string) (*Definition, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	if format == FormatHCL {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, openError(path, err)
		}
		return ReadHCL(src, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, openError(path, err)
	}
	defer f.Close()

	def, err := Read(f, format)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "%s", path)
	}
	return def, nil
}

// ImportDiagram reads a definition file and builds the diagram it describes.
func ImportDiagram(path string) (*xdsm.Diagram, error) {
	def, err := ImportFile(path)
	if err != nil {
		return nil, err
	}
	return ToDiagram(def)
}

func openError(path string, err error) error {
	if os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "definition file %s not found", path)
	}
	return errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
}
