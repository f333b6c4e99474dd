package semantic

import (
	"strings"
	"testing"

	"github.com/danielpatrickdp/wizard-village/go-decision/internal/observation"
)

func obsWithGauges(hunger, energy, health float64) *observation.Observation {
	return &observation.Observation{
		Self: observation.SelfState{
			ID:     "wiz-1",
			Hunger: hunger,
			Energy: energy,
			Health: health,
		},
	}
}

func TestBucketHash_AliasesWithinBucket(t *testing.T) {
	// 41 and 59 share hunger bucket 2: same key by design.
	o1 := obsWithGauges(41, 75, 90)
	o2 := obsWithGauges(59, 68, 85)

	k1 := BucketNormalizer.Hash("sonnet", o1)
	k2 := BucketNormalizer.Hash("sonnet", o2)
	if k1 != k2 {
		t.Errorf("identical bucketed features hashed apart:\n%s\n%s", k1, k2)
	}
}

func TestBucketHash_DistinguishesBuckets(t *testing.T) {
	o1 := obsWithGauges(41, 75, 90)
	o2 := obsWithGauges(21, 75, 90) // hunger bucket 1 vs 2

	if BucketNormalizer.Hash("sonnet", o1) == BucketNormalizer.Hash("sonnet", o2) {
		t.Error("different hunger buckets produced the same key")
	}
}

func TestHash_NamespacedByProvider(t *testing.T) {
	obs := obsWithGauges(50, 50, 50)
	k1 := BucketNormalizer.Hash("alpha", obs)
	k2 := BucketNormalizer.Hash("beta", obs)
	if k1 == k2 {
		t.Error("providers must never share a key for the same situation")
	}
	if !strings.HasPrefix(k1, "decision_cache:alpha:") {
		t.Errorf("key %q missing provider namespace", k1)
	}
}

func TestHash_DigestLength(t *testing.T) {
	key := BucketNormalizer.Hash("alpha", obsWithGauges(10, 10, 10))
	parts := strings.Split(key, ":")
	if len(parts) != 3 {
		t.Fatalf("key %q: want prefix:provider:digest", key)
	}
	if len(parts[2]) != DigestLen {
		t.Errorf("digest length = %d, want %d", len(parts[2]), DigestLen)
	}
}

func TestBucketFingerprint_Deterministic(t *testing.T) {
	obs := &observation.Observation{
		Self: observation.SelfState{
			Hunger: 33, Energy: 77, Health: 55, Balance: 10,
			Inventory: []observation.InventoryItem{{Type: "food", Quantity: 2}},
		},
		Agents: []observation.NearbyAgent{{ID: "a"}},
	}
	if BucketNormalizer.Fingerprint(obs) != BucketNormalizer.Fingerprint(obs) {
		t.Error("fingerprint not byte-stable across invocations")
	}
}

func TestDetailedFingerprint_SortsEntities(t *testing.T) {
	base := observation.SelfState{Hunger: 50, Energy: 50, Health: 50}
	o1 := &observation.Observation{
		Self: base,
		Resources: []observation.ResourceSpawn{
			{Type: "berry", CurrentAmount: 4},
			{Type: "apple", CurrentAmount: 9},
		},
	}
	o2 := &observation.Observation{
		Self: base,
		Resources: []observation.ResourceSpawn{
			{Type: "apple", CurrentAmount: 9},
			{Type: "berry", CurrentAmount: 4},
		},
	}
	if DetailedNormalizer.Fingerprint(o1) != DetailedNormalizer.Fingerprint(o2) {
		t.Error("entity order leaked into the detailed fingerprint")
	}
}

func TestDetailedFingerprint_FinerThanBuckets(t *testing.T) {
	// Same width-20 bucket, different width-10 buckets.
	o1 := obsWithGauges(41, 50, 50)
	o2 := obsWithGauges(59, 50, 50)

	if DetailedNormalizer.Fingerprint(o1) == DetailedNormalizer.Fingerprint(o2) {
		t.Error("detailed strategy should split hunger 41 vs 59")
	}
}

func TestForName(t *testing.T) {
	if ForName("detailed") != DetailedNormalizer {
		t.Error(`ForName("detailed") did not select the detailed strategy`)
	}
	if ForName("buckets") != BucketNormalizer {
		t.Error(`ForName("buckets") did not select the bucket strategy`)
	}
	if ForName("") != BucketNormalizer {
		t.Error("unknown names must fall back to the canonical bucket strategy")
	}
}
