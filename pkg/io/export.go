package io

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/lineage/pkg/family"
)

// WriteJSON encodes a record tree as indented JSON.
func WriteJSON(rec *family.Record, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteYAML encodes a record tree as YAML with two-space indentation.
func WriteYAML(rec *family.Record, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// ExportFile writes a record tree to path, choosing the encoder from the
// file extension.
func ExportFile(rec *family.Record, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if FormatFromPath(path) == FormatJSON {
		return WriteJSON(rec, f)
	}
	return WriteYAML(rec, f)
}
