package io

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/family"
)

// Format is a record encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath infers the encoding from a file extension.
// Unknown extensions default to YAML, the format family files are kept in.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	default:
		return FormatYAML
	}
}

// ReadYAML decodes a YAML record tree from r.
//
// ReadYAML returns a MALFORMED_INPUT error if the document is not valid
// YAML or does not have the record shape. It does not close r.
func ReadYAML(r io.Reader) (*family.Record, error) {
	var rec family.Record
	if err := yaml.NewDecoder(r).Decode(&rec); err != nil {
		if err == io.EOF {
			return nil, errors.New(errors.ErrCodeMalformedInput, "empty document")
		}
		return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "decode yaml")
	}
	return &rec, nil
}

// ReadJSON decodes a JSON record tree from r.
// It behaves like [ReadYAML].
func ReadJSON(r io.Reader) (*family.Record, error) {
	var rec family.Record
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		if err == io.EOF {
			return nil, errors.New(errors.ErrCodeMalformedInput, "empty document")
		}
		return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "decode json")
	}
	return &rec, nil
}

// Read decodes a record tree in the given format.
func Read(r io.Reader, format Format) (*family.Record, error) {
	switch format {
	case FormatJSON:
		return ReadJSON(r)
	case FormatYAML:
		return ReadYAML(r)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown record format %q", format)
	}
}

// ImportFile reads the record tree stored at path, choosing the decoder
// from the file extension.
func ImportFile(path string) (*family.Record, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, FormatFromPath(path))
}
