package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/erdlayout/pkg/errors"
)

// =============================================================================
// Diagram Serialization API
// =============================================================================

// FormatFromPath returns the input format implied by the file extension.
// Unknown extensions are treated as JSON.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// ReadDiagramFile reads and validates a diagram. The format follows the
// file extension.
func ReadDiagramFile(path string) (Diagram, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Diagram{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "diagram %s not found", path)
	}
	if err != nil {
		return Diagram{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDiagram(f, FormatFromPath(path))
}

// ReadDiagram decodes a diagram in the given format and validates it.
func ReadDiagram(r io.Reader, format string) (Diagram, error) {
	var d Diagram
	switch format {
	case FormatJSON, "":
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&d); err != nil {
			return Diagram{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode json diagram")
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&d); err != nil {
			return Diagram{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode toml diagram")
		}
	default:
		return Diagram{}, errs.New(errs.ErrCodeInvalidFormat, "unsupported diagram format %q", format)
	}
	if err := Validate(d); err != nil {
		return Diagram{}, err
	}
	return d, nil
}

// UnmarshalDiagram decodes and validates a diagram from bytes.
func UnmarshalDiagram(data []byte, format string) (Diagram, error) {
	return ReadDiagram(bytes.NewReader(data), format)
}

// WriteDiagram encodes d in the given format.
func WriteDiagram(d Diagram, w io.Writer, format string) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(d); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(d); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	default:
		return errs.New(errs.ErrCodeInvalidFormat, "unsupported diagram format %q", format)
	}
}

// MarshalDiagram encodes d in the given format.
func MarshalDiagram(d Diagram, format string) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteDiagram(d, &buf, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "unmarshal layout")
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Layout{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "layout %s not found", path)
	}
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
