// Command replay runs a recorded fixture through the gate-and-cache pipeline
// and compares each tick's provenance against the fixture's expectations.
// Exit code 1 on divergence, so it slots into CI.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/wizard-village/go-decision/internal/controller"
	"github.com/danielpatrickdp/wizard-village/go-decision/internal/decisioncache"
	"github.com/danielpatrickdp/wizard-village/go-decision/internal/heuristic"
	"github.com/danielpatrickdp/wizard-village/go-decision/internal/observation"
	"github.com/danielpatrickdp/wizard-village/go-decision/internal/replay"
	"github.com/danielpatrickdp/wizard-village/go-decision/internal/safety"
	"github.com/danielpatrickdp/wizard-village/go-decision/internal/vocabulary"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to fixture JSON")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json")
		os.Exit(2)
	}

	f, err := replay.LoadFixture(*fixturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		os.Exit(2)
	}

	os.Exit(run(f))
}

func run(f *replay.Fixture) int {
	// Replays are hermetic: an in-process redis and a scripted model stand in
	// for the real collaborators, so only the deterministic pipeline is
	// exercised.
	mr, err := miniredis.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "start embedded redis: %v\n", err)
		return 2
	}
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	log := zap.NewNop()
	decide := func(_ context.Context, _ string, _ *observation.Observation) (observation.Decision, error) {
		return observation.Decision{Action: "talk", Reason: "replay stand-in"}, nil
	}

	ctrl := controller.New(
		heuristic.NewGate(heuristic.DefaultThresholds()),
		decisioncache.NewStore(rdb, &decisioncache.Stats{}, log, decisioncache.Options{Enabled: true}),
		decide,
		vocabulary.NewEngine(false),
		safety.NewMutator(log, nil),
		nil,
		&controller.UsageStats{},
		log,
		controller.Options{},
	)

	results := replay.Run(context.Background(), ctrl, f)
	comps := replay.Compare(results, f.Expected)

	fmt.Printf("%-12s| %-28s| %-28s| %s\n", "Tick", "Expected", "Replayed", "Match")
	fmt.Printf("%-12s+%-29s+%-29s+%s\n",
		"------------", "-----------------------------", "-----------------------------", "------")

	matches := 0
	for _, c := range comps {
		status := "DIFF"
		if c.Match {
			status = "OK"
			matches++
		}
		fmt.Printf("%-12s| %-28s| %-28s| %s\n",
			c.TickID,
			fmt.Sprintf("%s/%s", c.Expected.Source, c.Expected.Reason),
			fmt.Sprintf("%s/%s", c.Got.Source, c.Got.Reason),
			status)
	}

	diverge := len(comps) - matches
	fmt.Printf("\nSummary: %d total, %d match, %d diverge\n", len(comps), matches, diverge)
	if diverge > 0 {
		return 1
	}
	return 0
}

// #endregion main
