package controller

import (
	"context"
	"sync/atomic"

	"github.com/danielpatrickdp/wizard-village/go-decision/internal/observation"
)

// #region decide-func

// DecideFunc asks an external language model for a decision. Owned by the
// caller; the controller never constructs provider clients itself.
type DecideFunc func(ctx context.Context, prompt string, obs *observation.Observation) (observation.Decision, error)

// #endregion decide-func

// #region result

// Source tags where a decision came from.
type Source string

const (
	SourceHeuristic Source = "heuristic"
	SourceCache     Source = "cache"
	SourceModel     Source = "model"
	// SourceFallback marks a rule decision served because the model call
	// itself failed. Never cached.
	SourceFallback Source = "fallback"
)

// Result is one tick's decision plus its provenance.
type Result struct {
	Decision observation.Decision
	Source   Source
	Reason   string
}

// #endregion result

// #region usage-stats

// UsageStats counts how ticks were resolved. Process-wide, owned by the
// caller and injected, so tests and parallel simulations never share state.
// Independent of the cache's hit/miss counters and separately resettable.
type UsageStats struct {
	heuristic atomic.Int64
	model     atomic.Int64
}

// UsageSnapshot is a point-in-time view of the gate economy.
type UsageSnapshot struct {
	HeuristicHandled int64 `json:"heuristicHandled"`
	ModelHandled     int64 `json:"modelHandled"`
}

// Snapshot returns current counter values.
func (u *UsageStats) Snapshot() UsageSnapshot {
	return UsageSnapshot{
		HeuristicHandled: u.heuristic.Load(),
		ModelHandled:     u.model.Load(),
	}
}

// Reset zeroes both counters.
func (u *UsageStats) Reset() {
	u.heuristic.Store(0)
	u.model.Store(0)
}

// #endregion usage-stats
