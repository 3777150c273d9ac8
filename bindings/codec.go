package bindings

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// FormatVersion is written to every saved file. Files with a newer version
// are rejected.
const FormatVersion = 1

type fileDoc struct {
	Version  int               `yaml:"version"`
	Bindings map[string]string `yaml:"bindings"`
}

// Encode renders m in the on-disk format. Keys are emitted in sorted order so
// encoding the same map always yields the same bytes.
func Encode(m Map) ([]byte, error) {
	doc := fileDoc{
		Version:  FormatVersion,
		Bindings: make(map[string]string, len(m)),
	}
	for k, path := range m {
		doc.Bindings[k.String()] = path
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("bindings: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("bindings: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a file produced by Encode.
func Decode(data []byte) (Map, error) {
	var doc fileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("bindings: decode: %w", err)
	}
	if doc.Version < 1 || doc.Version > FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}

	m := make(Map, len(doc.Bindings))
	for raw, path := range doc.Bindings {
		k, err := ParseKey(raw)
		if err != nil {
			return nil, err
		}
		m[k] = path
	}
	return m, nil
}
