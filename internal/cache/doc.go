// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package cache provides a thread-safe, generic LRU cache with TTL expiration.

The recommendation engine caches ranked responses keyed by model version and
query, so a published model never serves results computed by its predecessor.

# Usage Example

	c := cache.NewLRU[[]recommend.Recommendation](10000, 5*time.Minute)

	c.Set("v3:similar:inception:10", recs)
	if recs, ok := c.Get("v3:similar:inception:10"); ok {
	    // serve cached result
	}

	c.Clear() // on model publish

# Expiration

Entries expire lazily on Get. CleanupExpired sweeps the whole list and can
be called periodically to bound memory held by cold keys.

# Thread Safety

All methods are safe for concurrent use. A single mutex guards the list
because Get reorders it.
*/
package cache

// Stats is a snapshot of cache statistics.
type Stats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Size      int   `json:"size"`
	Capacity  int   `json:"capacity"`
}

// HitRate returns hits as a percentage of lookups, 0 with no lookups.
//
//nolint:gocritic // value receiver keeps Stats a plain snapshot
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}
