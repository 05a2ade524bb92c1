// Package cache stores classifier results keyed by document content, so an
// unchanged drawing is not re-scanned across runs.
package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ppiankov/redline/internal/model"
)

const keyPrefix = "redline:v1:"

// Cache defines the interface for byte caches
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// ScanKey builds the cache key of a ScanResult. The rules version is part of
// the key so that a rule table change invalidates old entries.
func ScanKey(contentHash, rulesVersion string) string {
	return keyPrefix + rulesVersion + ":" + contentHash
}

// GetScan loads a cached ScanResult. Undecodable entries count as misses.
func GetScan(c Cache, key string) (*model.ScanResult, bool) {
	if c == nil {
		return nil, false
	}

	data, found := c.Get(key)
	if !found {
		return nil, false
	}

	var scan model.ScanResult
	if err := json.Unmarshal(data, &scan); err != nil {
		return nil, false
	}
	return &scan, true
}

// SetScan stores a ScanResult with the cache's default TTL
func SetScan(c Cache, key string, scan *model.ScanResult) error {
	if c == nil || scan == nil {
		return nil
	}

	data, err := json.Marshal(scan)
	if err != nil {
		return fmt.Errorf("marshal scan: %w", err)
	}
	return c.Set(key, data, 0)
}
