package semantic

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/danielpatrickdp/wizard-village/go-decision/internal/observation"
)

// #region key-format

const (
	// KeyPrefix namespaces every cache key in the backing store. Existing
	// telemetry dashboards key off this prefix; do not change it.
	KeyPrefix = "decision_cache"

	// DigestLen is the number of hex characters kept from the SHA-256 digest.
	DigestLen = 16
)

// Key assembles the namespaced cache key for a provider and digest.
func Key(providerID, digest string) string {
	return fmt.Sprintf("%s:%s:%s", KeyPrefix, providerID, digest)
}

// ProviderPrefix returns the scan pattern prefix for one provider's keys.
func ProviderPrefix(providerID string) string {
	return fmt.Sprintf("%s:%s:", KeyPrefix, providerID)
}

func digest(canonical string) string {
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])[:DigestLen]
}

// #endregion key-format

// #region normalizer

// Normalizer is one strategy for collapsing observations onto cache keys.
// Fingerprint must be canonical: equal situations (under the strategy's notion
// of equality) serialize to byte-identical strings.
type Normalizer interface {
	Name() string
	Fingerprint(obs *observation.Observation) string
	Hash(providerID string, obs *observation.Observation) string
}

// ForName selects a normalizer by its configured name. Unknown names fall back
// to the canonical bucket strategy.
func ForName(name string) Normalizer {
	if name == DetailedNormalizer.Name() {
		return DetailedNormalizer
	}
	return BucketNormalizer
}

// #endregion normalizer

// #region bucket-strategy

// BucketNormalizer is the canonical strategy: quantized Features serialized in
// a fixed field order.
var BucketNormalizer Normalizer = bucketNormalizer{}

type bucketNormalizer struct{}

func (bucketNormalizer) Name() string { return "buckets" }

func (bucketNormalizer) Fingerprint(obs *observation.Observation) string {
	f := Extract(obs)
	// Field order is part of the on-wire contract; append-only.
	return fmt.Sprintf("h%d|u%d|e%d|ar%t|as%t|hf%t|hm%t|na%d|th%d|op%d",
		f.HealthBucket, f.HungerBucket, f.EnergyBucket,
		f.AtResource, f.AtShelter, f.HasFood, f.HasMoney,
		f.NearbyAgentBucket, f.ThreatLevel, f.OpportunityLevel)
}

func (n bucketNormalizer) Hash(providerID string, obs *observation.Observation) string {
	return Key(providerID, digest(n.Fingerprint(obs)))
}

// #endregion bucket-strategy

// #region detailed-strategy

// DetailedNormalizer is the alternate strategy: gauges rounded to width-10
// buckets plus sorted nearby-entity summaries. Finer-grained than the bucket
// strategy, so it trades hit rate for situational precision. The two
// strategies are mutually exclusive per deployment; entries they write never
// collide because the fingerprints differ structurally.
var DetailedNormalizer Normalizer = detailedNormalizer{}

type detailedNormalizer struct{}

func (detailedNormalizer) Name() string { return "detailed" }

func (detailedNormalizer) Fingerprint(obs *observation.Observation) string {
	self := obs.Self

	resources := make([]string, 0, len(obs.Resources))
	for _, r := range obs.Resources {
		if r.CurrentAmount > 0 {
			resources = append(resources, fmt.Sprintf("%s@%d", r.Type, roundTo(float64(r.CurrentAmount), 5)))
		}
	}
	sort.Strings(resources)

	personalities := make([]string, 0, len(obs.Agents))
	for _, a := range obs.Agents {
		personalities = append(personalities, a.Personality)
	}
	sort.Strings(personalities)

	items := make([]string, 0, len(self.Inventory))
	for _, it := range self.Inventory {
		if it.Quantity > 0 {
			items = append(items, it.Type)
		}
	}
	sort.Strings(items)

	return fmt.Sprintf("v2|h%d|u%d|e%d|b%d|sh%t|jobs%d|res[%s]|agents[%s]|inv[%s]",
		roundTo(self.Health, 10), roundTo(self.Hunger, 10), roundTo(self.Energy, 10),
		roundTo(self.Balance, 25),
		len(obs.Shelters) > 0, len(obs.Jobs),
		strings.Join(resources, ","), strings.Join(personalities, ","),
		strings.Join(items, ","))
}

func (n detailedNormalizer) Hash(providerID string, obs *observation.Observation) string {
	return Key(providerID, digest(n.Fingerprint(obs)))
}

// roundTo rounds v down to the nearest multiple of step.
func roundTo(v float64, step int) int {
	return int(math.Floor(v/float64(step))) * step
}

// #endregion detailed-strategy
