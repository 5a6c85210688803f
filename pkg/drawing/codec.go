package drawing

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/readability/pkg/errors"
)

// Format identifies a drawing file format.
type Format string

// Supported formats. DOT is recognized so callers can route it through a
// layout engine; [Read] rejects it.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatDOT  Format = "dot"
)

// DetectFormat returns the format implied by the extension of path.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".dot", ".gv":
		return FormatDOT, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unrecognized drawing extension %q (want .json, .yaml, .yml, .dot or .gv)", filepath.Ext(path))
}

// ParseFormat parses a format name as given on the command line.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatYAML, FormatDOT:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "gv":
		return FormatDOT, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (must be json, yaml or dot)", s)
}

// ReadJSON decodes a JSON drawing from r. Unknown fields are ignored so that
// simulation output with extra node attributes (vx, vy, index) can be read
// as is. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Drawing, error) {
	var d Drawing
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
	}
	return &d, nil
}

// WriteJSON encodes d as indented JSON.
func WriteJSON(d *Drawing, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadYAML decodes a YAML drawing from r.
func ReadYAML(r io.Reader) (*Drawing, error) {
	var d Drawing
	if err := yaml.NewDecoder(r).Decode(&d); err != nil {
		if err == io.EOF {
			return &d, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml")
	}
	return &d, nil
}

// WriteYAML encodes d as YAML.
func WriteYAML(d *Drawing, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// Read decodes a drawing in the given format.
func Read(r io.Reader, f Format) (*Drawing, error) {
	switch f {
	case FormatJSON:
		return ReadJSON(r)
	case FormatYAML:
		return ReadYAML(r)
	case FormatDOT:
		return nil, errors.New(errors.ErrCodeUnsupported, "dot input has no positions; lay it out first")
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", f)
}

// Write encodes a drawing in the given format.
func Write(d *Drawing, w io.Writer, f Format) error {
	switch f {
	case FormatJSON:
		return WriteJSON(d, w)
	case FormatYAML:
		return WriteYAML(d, w)
	}
	return errors.New(errors.ErrCodeUnsupported, "cannot write drawings as %q", f)
}

// ReadFile reads the drawing at path, choosing the codec by extension.
func ReadFile(path string) (*Drawing, error) {
	f, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	d, err := Read(file, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// WriteFile writes d to path in the format implied by its extension.
func WriteFile(d *Drawing, path string) error {
	f, err := DetectFormat(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()
	return Write(d, file, f)
}
