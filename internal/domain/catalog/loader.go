package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed menu.json
var defaultMenu []byte

var ErrUnsupportedFormat = errors.New("unsupported catalog format")

// Format is the encoding of a catalog file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the catalog format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Decode reads a list of items in the given format.
func Decode(r io.Reader, format Format) ([]Item, error) {
	var items []Item
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&items); err != nil {
			return nil, fmt.Errorf("failed to decode catalog json: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&items); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode catalog yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return items, nil
}

// LoadFile decodes the file at path and loads it into the store.
func (s *Store) LoadFile(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	items, err := Decode(f, format)
	if err != nil {
		return err
	}
	return s.Load(items)
}

// LoadDefault loads the built-in menu.
func (s *Store) LoadDefault() error {
	items, err := DefaultItems()
	if err != nil {
		return err
	}
	return s.Load(items)
}

// DefaultItems returns the built-in menu.
func DefaultItems() ([]Item, error) {
	return Decode(bytes.NewReader(defaultMenu), FormatJSON)
}
