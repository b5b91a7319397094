// Package cache provides the result cache used by the canonicalization
// pipeline.
//
// A [Cache] stores opaque byte payloads under string keys with an optional
// TTL. Three implementations are provided:
//
//   - [FileCache]: one JSON file per entry, for local CLI usage
//   - [RedisCache]: shared cache for multi-instance API deployments
//   - [NullCache]: stores nothing, used with --no-cache
//
// Keys are produced by a [Keyer] so that every cached result is addressed by
// the content of the input molecule and the options that shaped the result.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the payload for key and whether it was found.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases any resources held by the cache.
	Close() error
}

// MoleculeKeyOpts are the canonicalization options that change a cached result.
type MoleculeKeyOpts struct {
	Root        int      `json:"root"`
	Priorities  []string `json:"priorities,omitempty"`
	PermuteSeed *uint64  `json:"permute_seed,omitempty"`
}

// Keyer generates cache keys.
type Keyer interface {
	// MoleculeKey addresses the canonicalization result of a molecule whose
	// source content hashes to contentHash.
	MoleculeKey(contentHash string, opts MoleculeKeyOpts) string
}

// DefaultKeyer produces keys of the form "molecule:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// MoleculeKey implements Keyer.
func (DefaultKeyer) MoleculeKey(contentHash string, opts MoleculeKeyOpts) string {
	return hashKey("molecule", contentHash, opts)
}
