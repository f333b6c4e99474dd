// Package config holds the deployment knobs for the decision layer: backing
// store addresses, cache tuning, and the experiment flags. Values load from
// an optional YAML file with environment overrides on top.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// #region config-struct

// Config is the full knob set.
type Config struct {
	// RedisAddr is the decision cache's backing store.
	RedisAddr string `yaml:"redis_addr"`
	// CacheTTLSeconds is the per-entry lifetime.
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
	CacheEnabled    bool `yaml:"cache_enabled"`
	// Normalizer selects the cache key strategy: "buckets" or "detailed".
	Normalizer string `yaml:"normalizer"`

	VocabularyEnabled bool `yaml:"vocabulary_enabled"`
	// SafetyLevel is "standard", "minimal", or "none".
	SafetyLevel  string `yaml:"safety_level"`
	ExperimentID string `yaml:"experiment_id"`
	VariantID    string `yaml:"variant_id"`

	AuditDBPath string `yaml:"audit_db"`
	ProviderID  string `yaml:"provider_id"`
	Model       string `yaml:"model"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		RedisAddr:         "localhost:6379",
		CacheTTLSeconds:   300,
		CacheEnabled:      true,
		Normalizer:        "buckets",
		VocabularyEnabled: false,
		SafetyLevel:       "standard",
		AuditDBPath:       "decision_audit.db",
		ProviderID:        "default",
		Model:             "z-ai/glm-4.6",
	}
}

// #endregion config-struct

// #region load

// Load reads the YAML file (skipped when path is empty) and applies
// environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.RedisAddr = envOr("DECISION_REDIS_ADDR", cfg.RedisAddr)
	cfg.CacheTTLSeconds = envOrInt("DECISION_CACHE_TTL", cfg.CacheTTLSeconds)
	cfg.CacheEnabled = envOrBool("DECISION_CACHE_ENABLED", cfg.CacheEnabled)
	cfg.Normalizer = envOr("DECISION_NORMALIZER", cfg.Normalizer)
	cfg.VocabularyEnabled = envOrBool("DECISION_VOCABULARY_ENABLED", cfg.VocabularyEnabled)
	cfg.SafetyLevel = envOr("DECISION_SAFETY_LEVEL", cfg.SafetyLevel)
	cfg.ExperimentID = envOr("DECISION_EXPERIMENT_ID", cfg.ExperimentID)
	cfg.VariantID = envOr("DECISION_VARIANT_ID", cfg.VariantID)
	cfg.AuditDBPath = envOr("DECISION_AUDIT_DB", cfg.AuditDBPath)
	cfg.ProviderID = envOr("DECISION_PROVIDER_ID", cfg.ProviderID)
	cfg.Model = envOr("DECISION_MODEL", cfg.Model)

	return cfg, nil
}

// #endregion load

// #region env-helpers

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envOrBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// #endregion env-helpers
