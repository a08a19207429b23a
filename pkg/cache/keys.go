package cache

import "fmt"

// Cache key builders. Keeping them in one place makes invalidation
// patterns easy to audit against the write paths that trigger them.

const concertPrefix = "concerto:concerts"

// ConcertCatalogKey is the key for the full concert catalog listing.
func ConcertCatalogKey() string {
	return concertPrefix + ":catalog"
}

// ConcertKey is the key for a single concert snapshot, including its
// reserved seats. Invalidated on every claim and release for that concert.
func ConcertKey(concertID string) string {
	return fmt.Sprintf("%s:%s", concertPrefix, concertID)
}

// ConcertPattern matches every concert cache entry, catalog included.
func ConcertPattern() string {
	return concertPrefix + ":*"
}
