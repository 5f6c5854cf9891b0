// Package transport encodes and decodes set list documents for exchange.
//
// Encoded documents carry schemaVersion, metadata and sets; display metrics
// are derived state and never leave the process. Decoding yields the raw
// parsed value, which the store validates and migrates on load.
package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/setlist/internal/setlist"
)

// Format identifies an encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Errors returned by the codec.
var (
	ErrDecode            = errors.New("decode failed")
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// ParseFormat returns the format named by s.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// FormatFromPath picks a format from the file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Encode serializes doc in the given format.
func Encode(doc setlist.Document, format Format) ([]byte, error) {
	doc = wireDocument(doc)
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// Decode parses data into a raw value suitable for engine.Store.Load.
// Errors wrap ErrDecode.
func Decode(data []byte, format Format) (any, error) {
	var raw any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: json: %w", ErrDecode, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: yaml: %w", ErrDecode, err)
		}
		raw = normalize(raw)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return raw, nil
}

// wireDocument stamps the current schema version and replaces nil song
// slices so every set encodes a songs list.
func wireDocument(doc setlist.Document) setlist.Document {
	doc = doc.Clone()
	doc.SchemaVersion = setlist.CurrentSchemaVersion
	if doc.Sets == nil {
		doc.Sets = []setlist.SetItem{}
	}
	for i := range doc.Sets {
		if doc.Sets[i].Songs == nil {
			doc.Sets[i].Songs = []setlist.Song{}
		}
	}
	return doc
}

// normalize converts YAML maps with non-string keys into map[string]any.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	}
	return v
}
