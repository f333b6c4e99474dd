// Command inspect dumps cache statistics and recent audit rows.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/wizard-village/go-decision/internal/audit"
	"github.com/danielpatrickdp/wizard-village/go-decision/internal/decisioncache"
)

// #region main

func main() {
	redisAddr := flag.String("redis", "", "redis address for cache stats (optional)")
	auditPath := flag.String("audit", "", "path to decision_audit.db (optional)")
	last := flag.Int("last", 20, "show N most recent audit rows")
	jsonOut := flag.Bool("json", false, "output as JSON instead of text")
	flag.Parse()

	if *redisAddr == "" && *auditPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect [--redis addr] [--audit path/to/decision_audit.db] [--last N] [--json]")
		os.Exit(2)
	}

	ctx := context.Background()
	out := inspectOutput{}

	if *redisAddr != "" {
		snap, err := cacheStats(ctx, *redisAddr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cache stats: %v\n", err)
			os.Exit(1)
		}
		out.Cache = &snap
	}

	if *auditPath != "" {
		store, err := audit.NewStore(*auditPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open audit db: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		out.Decisions, err = store.RecentDecisions(ctx, *last)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read decisions: %v\n", err)
			os.Exit(1)
		}
		out.Safety, err = store.RecentSafetyInvocations(ctx, *last)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read safety invocations: %v\n", err)
			os.Exit(1)
		}
	}

	if *jsonOut {
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "marshal: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}
	printText(out)
}

type inspectOutput struct {
	Cache     *decisioncache.Snapshot `json:"cache,omitempty"`
	Decisions []audit.DecisionRecord  `json:"decisions,omitempty"`
	Safety    []audit.SafetyRecord    `json:"safetyInvocations,omitempty"`
}

// #endregion main

// #region cache-stats

func cacheStats(ctx context.Context, addr string) (decisioncache.Snapshot, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()

	// Counters are process-local to the controller; from here only the live
	// entry count is observable.
	store := decisioncache.NewStore(rdb, &decisioncache.Stats{}, zap.NewNop(), decisioncache.Options{Enabled: true})
	snap := store.Stats(ctx)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return snap, fmt.Errorf("ping %s: %w", addr, err)
	}
	return snap, nil
}

// #endregion cache-stats

// #region text-output

func printText(out inspectOutput) {
	if out.Cache != nil {
		fmt.Printf("Cache entries: %d\n", out.Cache.Entries)
	}

	if len(out.Decisions) > 0 {
		fmt.Printf("\n%-10s  %-10s  %-8s  %-22s  %-8s  %s\n",
			"Provider", "Agent", "Source", "Reason", "Action", "Time")
		for _, d := range out.Decisions {
			fmt.Printf("%-10s  %-10s  %-8s  %-22s  %-8s  %s\n",
				d.ProviderID, d.AgentID, d.Source, d.Reason, d.Action,
				d.CreatedAt.Format(time.RFC3339))
		}
	}

	if len(out.Safety) > 0 {
		fmt.Printf("\nReduced-safety invocations:\n")
		for _, s := range out.Safety {
			fmt.Printf("  %-8s  exp=%-8s variant=%-4s agent=%-8s  %s\n",
				s.Level, s.ExperimentID, s.VariantID, s.AgentID,
				s.CreatedAt.Format(time.RFC3339))
		}
	}
}

// #endregion text-output
