// Package cache stores built forests and rendered artifacts.
//
// Entries are opaque byte slices addressed by string keys. A [Keyer] derives
// those keys from a content hash of the input records plus the options that
// influence the output, so identical requests hit the same entry regardless
// of where the records came from.
//
// Three backends are provided:
//
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: never stores anything (--no-cache)
package cache

import (
	"context"
	"time"
)

// Default time-to-live values.
const (
	// TTLForest is how long a built forest stays cached.
	TTLForest = 24 * time.Hour

	// TTLArtifact is how long a rendered artifact stays cached.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored data and whether the key was present.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ForestKeyOpts holds the options that change how records link into a forest.
type ForestKeyOpts struct {
	IDField     string `json:"id_field"`
	ParentField string `json:"parent_field"`
	Duplicates  string `json:"duplicates"`
	RootPath    string `json:"root_path,omitempty"`
}

// ArtifactKeyOpts holds the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Label  string `json:"label,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ForestKey returns the key for the forest built from records whose
	// content hash is sourceHash.
	ForestKey(sourceHash string, opts ForestKeyOpts) string

	// ArtifactKey returns the key for an artifact rendered from the forest
	// whose content hash is forestHash.
	ArtifactKey(forestHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces "forest:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ForestKey implements Keyer.
func (DefaultKeyer) ForestKey(sourceHash string, opts ForestKeyOpts) string {
	return hashKey("forest", sourceHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(forestHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", forestHash, opts)
}
