// Command controller runs the decision pipeline interactively: one
// observation JSON object per stdin line, one decision JSON object per stdout
// line. The simulation talks to this layer the same way in production.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/wizard-village/go-decision/internal/audit"
	"github.com/danielpatrickdp/wizard-village/go-decision/internal/config"
	"github.com/danielpatrickdp/wizard-village/go-decision/internal/controller"
	"github.com/danielpatrickdp/wizard-village/go-decision/internal/decisioncache"
	"github.com/danielpatrickdp/wizard-village/go-decision/internal/heuristic"
	"github.com/danielpatrickdp/wizard-village/go-decision/internal/llm"
	"github.com/danielpatrickdp/wizard-village/go-decision/internal/observation"
	"github.com/danielpatrickdp/wizard-village/go-decision/internal/safety"
	"github.com/danielpatrickdp/wizard-village/go-decision/internal/semantic"
	"github.com/danielpatrickdp/wizard-village/go-decision/internal/vocabulary"
)

// #region output

type tickOutput struct {
	Decision observation.Decision `json:"decision"`
	Source   string               `json:"source"`
	Reason   string               `json:"reason"`
}

// #endregion output

// #region main

func main() {
	configPath := flag.String("config", "", "path to decision.yaml")
	flag.Parse()

	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		// Cache degradation is survivable; every miss just costs a model call.
		log.Warn("redis unreachable, cache will degrade to misses",
			zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}
	cancel()

	auditStore, err := audit.NewStore(cfg.AuditDBPath)
	if err != nil {
		log.Fatal("open audit db", zap.Error(err))
	}
	defer auditStore.Close()

	vocab := vocabulary.NewEngine(cfg.VocabularyEnabled)
	mutator := safety.NewMutator(log, auditStore)
	cache := decisioncache.NewStore(rdb, &decisioncache.Stats{}, log, decisioncache.Options{
		TTL:        time.Duration(cfg.CacheTTLSeconds) * time.Second,
		Enabled:    cfg.CacheEnabled,
		Normalizer: semantic.ForName(cfg.Normalizer),
	})

	model := llm.NewClient(os.Getenv("OPENROUTER_API_KEY"), cfg.Model, vocab, log)

	ctrl := controller.New(
		heuristic.NewGate(heuristic.DefaultThresholds()),
		cache,
		model.Decide,
		vocab,
		mutator,
		auditStore,
		&controller.UsageStats{},
		log,
		controller.Options{
			SafetyLevel:  safety.Level(cfg.SafetyLevel),
			ExperimentID: cfg.ExperimentID,
			VariantID:    cfg.VariantID,
		},
	)

	log.Info("decision controller ready",
		zap.String("provider", cfg.ProviderID),
		zap.String("normalizer", cfg.Normalizer),
		zap.Bool("cache", cfg.CacheEnabled),
		zap.Bool("vocabulary", cfg.VocabularyEnabled),
		zap.String("safety", cfg.SafetyLevel))

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	out := json.NewEncoder(os.Stdout)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var obs observation.Observation
		if err := json.Unmarshal(line, &obs); err != nil {
			log.Warn("bad observation line", zap.Error(err))
			continue
		}

		res := ctrl.Decide(context.Background(), &obs, cfg.ProviderID)
		if err := out.Encode(tickOutput{
			Decision: res.Decision,
			Source:   string(res.Source),
			Reason:   res.Reason,
		}); err != nil {
			log.Warn("write decision", zap.Error(err))
		}
	}
	if err := scanner.Err(); err != nil {
		log.Error("stdin read failed", zap.Error(err))
	}

	usage := ctrl.Usage()
	stats := ctrl.GetStats(context.Background())
	log.Info("session summary",
		zap.Int64("heuristicHandled", usage.HeuristicHandled),
		zap.Int64("modelHandled", usage.ModelHandled),
		zap.Int64("cacheHits", stats.Hits),
		zap.Int64("cacheMisses", stats.Misses),
		zap.Float64("hitRate", stats.HitRate))
}

// #endregion main
