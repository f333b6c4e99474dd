// Package decisioncache stores LLM decisions in Redis under lossy semantic
// keys. Caching here is a cost optimization, not a correctness requirement:
// every store failure degrades to a miss or a no-op and the model call path
// remains the fallback of last resort.
package decisioncache

import (
	"sync/atomic"
	"time"

	"github.com/danielpatrickdp/wizard-village/go-decision/internal/observation"
	"github.com/danielpatrickdp/wizard-village/go-decision/internal/semantic"
)

// #region entry

// Entry is the serialized cache record stored under one semantic key.
// The Decision is immutable for the life of the entry; only HitCount moves.
type Entry struct {
	Decision  observation.Decision `json:"decision"`
	Features  semantic.Features    `json:"features"`
	CreatedAt time.Time            `json:"createdAt"`
	HitCount  int64                `json:"hitCount"`
}

// #endregion entry

// #region stats

// DefaultTTL is the entry lifetime used when the caller does not override it.
const DefaultTTL = 300 * time.Second

// statsKey is a legacy record some deployments keep inside the cache
// namespace; it is excluded from entry counts and removed on Clear.
const statsKey = semantic.KeyPrefix + ":stats"

// Stats holds the process-wide hit/miss counters. Owned by the caller and
// injected into the store so separate simulation instances never share state.
type Stats struct {
	hits   atomic.Int64
	misses atomic.Int64
}

// Hit records a cache hit.
func (s *Stats) Hit() { s.hits.Add(1) }

// Miss records a cache miss.
func (s *Stats) Miss() { s.misses.Add(1) }

// Reset zeroes both counters.
func (s *Stats) Reset() {
	s.hits.Store(0)
	s.misses.Store(0)
}

// Snapshot is a point-in-time view of cache effectiveness.
type Snapshot struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hitRate"`
	Entries int     `json:"entries"`
}

// Snapshot derives the hit rate; 0 when nothing has been observed yet.
func (s *Stats) Snapshot(entries int) Snapshot {
	hits := s.hits.Load()
	misses := s.misses.Load()
	snap := Snapshot{Hits: hits, Misses: misses, Entries: entries}
	if total := hits + misses; total > 0 {
		snap.HitRate = float64(hits) / float64(total)
	}
	return snap
}

// #endregion stats
