// Package store persists build catalogs. Every backend stores the same
// zstd-compressed JSON snapshot keyed by reference data version.
package store

import (
	"encoding/json"
	"fmt"

	"leaguehelper/internal/catalog"

	"github.com/klauspost/compress/zstd"
)

// ErrNotFound is returned when no catalog exists for a version
var ErrNotFound = catalog.ErrNotFound

var (
	encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	decoder, _ = zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
)

// Encode serializes a catalog snapshot
func Encode(c *catalog.Catalog) ([]byte, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal catalog: %w", err)
	}
	return encoder.EncodeAll(raw, make([]byte, 0, len(raw)/4)), nil
}

// Decode restores a catalog snapshot
func Decode(data []byte) (*catalog.Catalog, error) {
	raw, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress catalog: %w", err)
	}

	var c catalog.Catalog
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return &c, nil
}
