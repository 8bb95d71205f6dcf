// Package gridfile loads Fahrenheit readings for batch conversion from JSON,
// YAML, or TOML files. A file holds either a flat list of values or a
// rectangular grid of rows.
package gridfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnsupportedFormat is returned for file extensions with no decoder.
	ErrUnsupportedFormat = errors.New("unsupported grid file format")
	// ErrInvalidDocument is returned when a file sets neither or both of
	// values and rows.
	ErrInvalidDocument = errors.New("grid file must set exactly one of values or rows")
)

// Document is the decoded content of a grid file.
type Document struct {
	Values []float64   `json:"values,omitempty" yaml:"values,omitempty" toml:"values,omitempty"`
	Rows   [][]float64 `json:"rows,omitempty" yaml:"rows,omitempty" toml:"rows,omitempty"`
}

// IsGrid reports whether the document holds rows rather than a flat list.
func (d Document) IsGrid() bool {
	return d.Rows != nil
}

// Load reads the file at path and decodes it according to its extension.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read grid file: %w", err)
	}
	doc, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes data in the format named by ext (".json", ".yaml", ".yml",
// or ".toml", case-insensitive).
func Parse(data []byte, ext string) (Document, error) {
	var doc Document
	var err error

	switch strings.ToLower(ext) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&doc)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&doc)
	case ".toml":
		var md toml.MetaData
		md, err = toml.Decode(string(data), &doc)
		if err == nil {
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				err = fmt.Errorf("unknown key %q", undecoded[0].String())
			}
		}
	default:
		return Document{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return Document{}, fmt.Errorf("decode %s: %w", strings.TrimPrefix(ext, "."), err)
	}

	if (doc.Values == nil) == (doc.Rows == nil) {
		return Document{}, ErrInvalidDocument
	}
	return doc, nil
}
