package decisioncache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/danielpatrickdp/wizard-village/go-decision/internal/observation"
)

func newTestStore(t *testing.T, opts Options) (*Store, *miniredis.Miniredis, *Stats) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	stats := &Stats{}
	opts.Enabled = true
	return NewStore(rdb, stats, zaptest.NewLogger(t), opts), mr, stats
}

func testObs(hunger float64) *observation.Observation {
	return &observation.Observation{
		Self: observation.SelfState{ID: "wiz-1", Hunger: hunger, Energy: 70, Health: 90},
	}
}

func TestPutGet(t *testing.T) {
	store, _, stats := newTestStore(t, Options{})
	ctx := context.Background()

	want := observation.Decision{Action: "gather", Target: "r1", Reason: "stocking up"}
	store.Put(ctx, "sonnet", testObs(50), want)

	got, ok := store.Get(ctx, "sonnet", testObs(50))
	require.True(t, ok)
	require.Equal(t, want, got)

	snap := stats.Snapshot(0)
	require.EqualValues(t, 1, snap.Hits)
	require.EqualValues(t, 0, snap.Misses)
}

func TestGet_MissCounts(t *testing.T) {
	store, _, stats := newTestStore(t, Options{})
	ctx := context.Background()

	_, ok := store.Get(ctx, "sonnet", testObs(50))
	require.False(t, ok)

	snap := stats.Snapshot(0)
	require.EqualValues(t, 0, snap.Hits)
	require.EqualValues(t, 1, snap.Misses)
}

func TestGet_SemanticAliasing(t *testing.T) {
	store, _, _ := newTestStore(t, Options{})
	ctx := context.Background()

	// hunger 41 and 59 share a bucket; the write for one must serve the other.
	store.Put(ctx, "sonnet", testObs(41), observation.Decision{Action: "rest"})
	got, ok := store.Get(ctx, "sonnet", testObs(59))
	require.True(t, ok)
	require.Equal(t, "rest", got.Action)
}

func TestGet_HitCountAndSlidingTTL(t *testing.T) {
	store, mr, _ := newTestStore(t, Options{TTL: 10 * time.Second})
	ctx := context.Background()

	store.Put(ctx, "sonnet", testObs(50), observation.Decision{Action: "rest"})

	// Burn most of the TTL, then read: the hit must refresh it.
	mr.FastForward(8 * time.Second)
	_, ok := store.Get(ctx, "sonnet", testObs(50))
	require.True(t, ok)

	mr.FastForward(8 * time.Second)
	_, ok = store.Get(ctx, "sonnet", testObs(50))
	require.True(t, ok, "sliding expiry should have kept the entry alive")
}

func TestGet_TTLExpiry(t *testing.T) {
	store, mr, _ := newTestStore(t, Options{TTL: time.Second})
	ctx := context.Background()

	store.Put(ctx, "sonnet", testObs(50), observation.Decision{Action: "rest"})
	mr.FastForward(1100 * time.Millisecond)

	_, ok := store.Get(ctx, "sonnet", testObs(50))
	require.False(t, ok, "entry written with TTL=1s must be gone after 1.1s")
}

func TestGet_MalformedEntrySelfHeals(t *testing.T) {
	store, mr, stats := newTestStore(t, Options{})
	ctx := context.Background()

	key := store.Normalizer().Hash("sonnet", testObs(50))
	require.NoError(t, mr.Set(key, "{not json"))

	_, ok := store.Get(ctx, "sonnet", testObs(50))
	require.False(t, ok)
	require.EqualValues(t, 1, stats.Snapshot(0).Misses)
	require.False(t, mr.Exists(key), "corrupt key should be deleted")
}

func TestGet_StoreDownDegradesToMiss(t *testing.T) {
	store, mr, stats := newTestStore(t, Options{})
	ctx := context.Background()
	mr.Close()

	_, ok := store.Get(ctx, "sonnet", testObs(50))
	require.False(t, ok)
	require.EqualValues(t, 1, stats.Snapshot(0).Misses)

	// Put must not panic or surface the failure either.
	store.Put(ctx, "sonnet", testObs(50), observation.Decision{Action: "rest"})
}

func TestInvalidate_ScopedToProvider(t *testing.T) {
	store, _, _ := newTestStore(t, Options{})
	ctx := context.Background()

	store.Put(ctx, "sonnet", testObs(10), observation.Decision{Action: "eat"})
	store.Put(ctx, "sonnet", testObs(50), observation.Decision{Action: "rest"})
	store.Put(ctx, "haiku", testObs(50), observation.Decision{Action: "rest"})

	removed := store.Invalidate(ctx, "sonnet")
	require.Equal(t, 2, removed)

	_, ok := store.Get(ctx, "haiku", testObs(50))
	require.True(t, ok, "other provider's entries must survive")
	_, ok = store.Get(ctx, "sonnet", testObs(50))
	require.False(t, ok)
}

func TestClear_RemovesEntriesAndResetsStats(t *testing.T) {
	store, _, stats := newTestStore(t, Options{})
	ctx := context.Background()

	store.Put(ctx, "sonnet", testObs(50), observation.Decision{Action: "rest"})
	store.Get(ctx, "sonnet", testObs(50))
	store.Get(ctx, "sonnet", testObs(95))
	require.EqualValues(t, 1, stats.Snapshot(0).Hits)

	store.Clear(ctx)

	snap := store.Stats(ctx)
	require.EqualValues(t, 0, snap.Hits)
	require.EqualValues(t, 0, snap.Misses)
	require.Equal(t, 0, snap.Entries)
}

func TestStats_HitRateAndEntries(t *testing.T) {
	store, mr, _ := newTestStore(t, Options{})
	ctx := context.Background()

	// Legacy stats record must not count as an entry.
	require.NoError(t, mr.Set("decision_cache:stats", "{}"))

	store.Put(ctx, "sonnet", testObs(10), observation.Decision{Action: "eat"})
	store.Put(ctx, "sonnet", testObs(50), observation.Decision{Action: "rest"})

	store.Get(ctx, "sonnet", testObs(10)) // hit
	store.Get(ctx, "sonnet", testObs(50)) // hit
	store.Get(ctx, "sonnet", testObs(95)) // miss

	snap := store.Stats(ctx)
	require.EqualValues(t, 2, snap.Hits)
	require.EqualValues(t, 1, snap.Misses)
	require.InDelta(t, 2.0/3.0, snap.HitRate, 1e-9)
	require.Equal(t, 2, snap.Entries)
}

func TestDisabledStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	stats := &Stats{}
	store := NewStore(rdb, stats, zaptest.NewLogger(t), Options{Enabled: false})
	ctx := context.Background()

	store.Put(ctx, "sonnet", testObs(50), observation.Decision{Action: "rest"})
	_, ok := store.Get(ctx, "sonnet", testObs(50))
	require.False(t, ok)

	snap := stats.Snapshot(0)
	require.EqualValues(t, 0, snap.Hits+snap.Misses, "disabled store must not touch counters")
}
