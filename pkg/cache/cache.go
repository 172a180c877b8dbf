// Package cache provides content-addressed caching for compiled documents
// and converted artifacts. Every key ultimately derives from the SHA-256
// hash of the full document text, so byte-identical markup is a cache hit
// across builds and processes.
package cache

import (
	"context"
	"time"
)

// TTLs per entry class. Compiled PDFs and converted artifacts are cheap to
// regenerate, so bounded lifetimes keep shared backends from growing
// without limit.
const (
	// TTLDocument is the lifetime of a cached compiled PDF.
	TTLDocument = 30 * 24 * time.Hour

	// TTLArtifact is the lifetime of a cached converted artifact.
	TTLArtifact = 30 * 24 * time.Hour
)

// Cache stores opaque byte values under string keys. Implementations must
// be safe for concurrent use. Get reports a miss with hit=false and a nil
// error; errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ArtifactKeyOpts are the conversion parameters that distinguish artifacts
// rendered from the same compiled document.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	DPI    int    `json:"dpi,omitempty"`
}

// Keyer generates cache keys for the build pipeline's stages.
type Keyer interface {
	// DocumentKey keys a compiled PDF by the document content hash.
	DocumentKey(docHash string) string

	// ArtifactKey keys a converted artifact by the document content
	// hash and the conversion parameters.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// DocumentKey returns "doc:<hash>".
func (k *DefaultKeyer) DocumentKey(docHash string) string {
	return "doc:" + docHash
}

// ArtifactKey returns a key hashing the document hash together with the
// conversion parameters.
func (k *DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", docHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
