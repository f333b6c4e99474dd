package replay

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/danielpatrickdp/wizard-village/go-decision/internal/controller"
	"github.com/danielpatrickdp/wizard-village/go-decision/internal/decisioncache"
	"github.com/danielpatrickdp/wizard-village/go-decision/internal/heuristic"
	"github.com/danielpatrickdp/wizard-village/go-decision/internal/observation"
	"github.com/danielpatrickdp/wizard-village/go-decision/internal/safety"
	"github.com/danielpatrickdp/wizard-village/go-decision/internal/vocabulary"
)

func scriptedController(t *testing.T) *controller.Controller {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	log := zaptest.NewLogger(t)
	decide := func(_ context.Context, _ string, _ *observation.Observation) (observation.Decision, error) {
		return observation.Decision{Action: "talk", Target: "wiz-2"}, nil
	}

	return controller.New(
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
}

func TestRun_SampleFixtureMatches(t *testing.T) {
	f := SampleFixture()
	results := Run(context.Background(), scriptedController(t), f)
	require.Len(t, results, len(f.Ticks))

	comps := Compare(results, f.Expected)
	for _, c := range comps {
		require.True(t, c.Match, "tick %s: expected %+v, got %+v", c.TickID, c.Expected, c.Got)
	}
}

func TestCompare_FlagsDivergence(t *testing.T) {
	results := []Result{
		{TickID: "t1", Source: "heuristic", Reason: "survival_critical", Action: "eat"},
	}
	expected := []Expectation{
		{TickID: "t1", Source: "model", Reason: "wizard_brain_needed"},
	}

	comps := Compare(results, expected)
	require.Len(t, comps, 1)
	require.False(t, comps[0].Match)
}

func TestCompare_ActionOptional(t *testing.T) {
	results := []Result{
		{TickID: "t1", Source: "heuristic", Reason: "no_social_opportunity", Action: "gather"},
	}
	expected := []Expectation{
		{TickID: "t1", Source: "heuristic", Reason: "no_social_opportunity"},
	}
	require.True(t, Compare(results, expected)[0].Match)
}

func TestLoadFixture_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.json")
	data, err := json.MarshalIndent(SampleFixture(), "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	f, err := LoadFixture(path)
	require.NoError(t, err)
	require.Equal(t, 3, len(f.Ticks))
	require.Equal(t, "replay", f.ProviderID)
	require.Equal(t, 25.0, f.Ticks[0].Observation.Self.Hunger)
}

func TestLoadFixture_RejectsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"description":"x"}`), 0644))

	_, err := LoadFixture(path)
	require.Error(t, err)
}
