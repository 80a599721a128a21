// Package random provides seed helpers for dice sources.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// ResolveSeed parses a configured seed, falling back to NewSeed when the
// value is blank. The boolean reports whether the seed was fixed by config.
func ResolveSeed(raw string) (int64, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		seed, err := NewSeed()
		return seed, false, err
	}
	seed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse seed %q: %w", raw, err)
	}
	return seed, true, nil
}
