package fs

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/lesscache/internal/core/ports"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher provides content hashing for cache files.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// HashBytes returns the XXHash of b as 16 hex digits.
func (h *Hasher) HashBytes(b []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(b))
}
