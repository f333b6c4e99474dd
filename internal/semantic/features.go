// Package semantic turns an Observation into a lossy fingerprint so that many
// similar situations collapse onto one cache key. Bucketing is intentional:
// two observations that differ only inside a bucket should collide.
package semantic

import (
	"math"

	"github.com/danielpatrickdp/wizard-village/go-decision/internal/observation"
)

// #region constants

const (
	// GaugeBucketWidth quantizes the 0-100 hunger/energy/health gauges.
	GaugeBucketWidth = 20

	// FoodItemType is the inventory type checked by the hasFood predicate.
	FoodItemType = "food"
)

// #endregion constants

// #region features

// Features is the fixed-shape quantized signal record derived from one
// Observation. Computed fresh per call, never mutated.
type Features struct {
	HealthBucket      int  `json:"healthBucket"`
	HungerBucket      int  `json:"hungerBucket"`
	EnergyBucket      int  `json:"energyBucket"`
	AtResource        bool `json:"atResource"`
	AtShelter         bool `json:"atShelter"`
	HasFood           bool `json:"hasFood"`
	HasMoney          bool `json:"hasMoney"`
	NearbyAgentBucket int  `json:"nearbyAgentBucket"`
	// ThreatLevel is reserved; there is no aggression model yet, so it is
	// always 0.
	ThreatLevel      int `json:"threatLevel"`
	OpportunityLevel int `json:"opportunityLevel"`
}

// #endregion features

// #region bucketing

// GaugeBucket maps a 0-100 gauge onto buckets 0..4. 100 clamps into bucket 4
// rather than opening a fifth bucket; out-of-domain values are still bucketed
// arithmetically, never rejected.
func GaugeBucket(v float64) int {
	b := int(math.Floor(v / GaugeBucketWidth))
	if b > 4 {
		b = 4
	}
	return b
}

// agentCountBucket maps a nearby-agent count onto 0 / 1 / 2-3 / 4+.
func agentCountBucket(n int) int {
	switch {
	case n <= 0:
		return 0
	case n == 1:
		return 1
	case n <= 3:
		return 2
	default:
		return 3
	}
}

// opportunityLevel counts reachable non-empty resource spawns: 0 -> 0,
// 1-2 -> 1, 3+ -> 2.
func opportunityLevel(resources []observation.ResourceSpawn) int {
	live := 0
	for _, r := range resources {
		if r.CurrentAmount > 0 {
			live++
		}
	}
	switch {
	case live == 0:
		return 0
	case live <= 2:
		return 1
	default:
		return 2
	}
}

// #endregion bucketing

// #region extract

// Extract computes the quantized feature record for one observation.
// Total function: any observation yields a Features value.
func Extract(obs *observation.Observation) Features {
	self := obs.Self

	atResource := false
	for _, r := range obs.Resources {
		if r.Position == self.Position {
			atResource = true
			break
		}
	}

	atShelter := false
	for _, sh := range obs.Shelters {
		if sh.Position == self.Position {
			atShelter = true
			break
		}
	}

	return Features{
		HealthBucket:      GaugeBucket(self.Health),
		HungerBucket:      GaugeBucket(self.Hunger),
		EnergyBucket:      GaugeBucket(self.Energy),
		AtResource:        atResource,
		AtShelter:         atShelter,
		HasFood:           self.HasItem(FoodItemType),
		HasMoney:          self.Balance > 0,
		NearbyAgentBucket: agentCountBucket(len(obs.Agents)),
		ThreatLevel:       0,
		OpportunityLevel:  opportunityLevel(obs.Resources),
	}
}

// #endregion extract
