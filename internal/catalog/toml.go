package catalog

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// LoadFile reads and decodes a catalog TOML file into an immutable Catalog.
// Decoding is strict: unknown fields, missing required fields, or an
// unrecognized record type/class all fail the load.
func LoadFile(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: reading %s: %w", path, err)
	}
	return Decode(b)
}

// Decode parses a catalog document already in memory.
func Decode(b []byte) (*Catalog, error) {
	dec := toml.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()

	var raw RawCatalog
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("catalog: decoding: %w", err)
	}
	return FromRaw(raw)
}
