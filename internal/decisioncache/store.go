package decisioncache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/wizard-village/go-decision/internal/observation"
	"github.com/danielpatrickdp/wizard-village/go-decision/internal/semantic"
)

// #region store-struct

// Store is the decision cache over a shared Redis instance. The client handle
// is constructed once at startup and injected; the store never dials on its
// own.
type Store struct {
	rdb     *redis.Client
	norm    semantic.Normalizer
	stats   *Stats
	log     *zap.Logger
	ttl     time.Duration
	enabled bool
}

// Options tunes a Store. Zero values fall back to defaults.
type Options struct {
	TTL        time.Duration
	Enabled    bool
	Normalizer semantic.Normalizer
}

// #endregion store-struct

// #region constructor

// NewStore wires a cache store over an existing Redis client.
func NewStore(rdb *redis.Client, stats *Stats, log *zap.Logger, opts Options) *Store {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Normalizer == nil {
		opts.Normalizer = semantic.BucketNormalizer
	}
	return &Store{
		rdb:     rdb,
		norm:    opts.Normalizer,
		stats:   stats,
		log:     log,
		ttl:     opts.TTL,
		enabled: opts.Enabled,
	}
}

// Enabled reports whether lookups and writes are active.
func (s *Store) Enabled() bool { return s.enabled }

// Normalizer exposes the active key strategy.
func (s *Store) Normalizer() semantic.Normalizer { return s.norm }

// #endregion constructor

// #region get

// Get looks up a cached decision for the observation. On hit the entry's hit
// counter is bumped and its TTL refreshed (sliding expiry; the read-then-write
// is deliberately not atomic, a lost bump is an acceptable statistic). Store
// and decode failures degrade to a miss.
func (s *Store) Get(ctx context.Context, providerID string, obs *observation.Observation) (observation.Decision, bool) {
	if !s.enabled {
		return observation.Decision{}, false
	}

	key := s.norm.Hash(providerID, obs)

	raw, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn("cache read failed, treating as miss",
				zap.String("key", key), zap.Error(err))
		}
		s.stats.Miss()
		return observation.Decision{}, false
	}

	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		// Corrupt entry: delete so the next miss repopulates it.
		s.log.Warn("malformed cache entry, deleting",
			zap.String("key", key), zap.Error(err))
		if delErr := s.rdb.Del(ctx, key).Err(); delErr != nil {
			s.log.Warn("failed to delete malformed entry", zap.String("key", key), zap.Error(delErr))
		}
		s.stats.Miss()
		return observation.Decision{}, false
	}

	entry.HitCount++
	if data, err := json.Marshal(entry); err == nil {
		if err := s.rdb.Set(ctx, key, data, s.ttl).Err(); err != nil {
			s.log.Warn("cache refresh failed", zap.String("key", key), zap.Error(err))
		}
	}

	s.stats.Hit()
	return entry.Decision, true
}

// #endregion get

// #region put

// Put writes a fresh entry for the observation, overwriting any previous one.
// Failures are swallowed and logged.
func (s *Store) Put(ctx context.Context, providerID string, obs *observation.Observation, d observation.Decision) {
	s.PutTTL(ctx, providerID, obs, d, s.ttl)
}

// PutTTL is Put with an explicit entry lifetime.
func (s *Store) PutTTL(ctx context.Context, providerID string, obs *observation.Observation, d observation.Decision, ttl time.Duration) {
	if !s.enabled {
		return
	}
	if ttl <= 0 {
		ttl = s.ttl
	}

	key := s.norm.Hash(providerID, obs)
	entry := Entry{
		Decision:  d,
		Features:  semantic.Extract(obs),
		CreatedAt: time.Now().UTC(),
		HitCount:  0,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		s.log.Warn("cache entry marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		s.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// #endregion put

// #region invalidate

// Invalidate deletes every entry namespaced to one provider and returns the
// number of keys removed. Used when a provider's policy changes so stale
// decisions are not served.
func (s *Store) Invalidate(ctx context.Context, providerID string) int {
	keys, err := s.scanKeys(ctx, semantic.ProviderPrefix(providerID)+"*")
	if err != nil {
		s.log.Warn("cache invalidate scan failed",
			zap.String("provider", providerID), zap.Error(err))
		return 0
	}
	return s.deleteKeys(ctx, keys)
}

// Clear deletes all entries for all providers and resets the stats counters.
func (s *Store) Clear(ctx context.Context) {
	keys, err := s.scanKeys(ctx, semantic.KeyPrefix+":*")
	if err != nil {
		s.log.Warn("cache clear scan failed", zap.Error(err))
	} else {
		s.deleteKeys(ctx, keys)
	}
	s.stats.Reset()
}

func (s *Store) scanKeys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	iter := s.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	return keys, iter.Err()
}

func (s *Store) deleteKeys(ctx context.Context, keys []string) int {
	if len(keys) == 0 {
		return 0
	}
	n, err := s.rdb.Del(ctx, keys...).Result()
	if err != nil {
		s.log.Warn("cache delete failed", zap.Int("keys", len(keys)), zap.Error(err))
	}
	return int(n)
}

// #endregion invalidate

// #region stats

// Stats returns the current counters plus a live entry count enumerated from
// the store. The legacy stats record inside the namespace is excluded. A scan
// failure reports 0 entries rather than an error.
func (s *Store) Stats(ctx context.Context) Snapshot {
	keys, err := s.scanKeys(ctx, semantic.KeyPrefix+":*")
	if err != nil {
		s.log.Warn("cache stats scan failed", zap.Error(err))
		return s.stats.Snapshot(0)
	}
	entries := 0
	for _, k := range keys {
		if k != statsKey {
			entries++
		}
	}
	return s.stats.Snapshot(entries)
}

// #endregion stats
