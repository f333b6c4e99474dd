package replay

import (
	"context"

	"github.com/danielpatrickdp/wizard-village/go-decision/internal/controller"
)

// #region results

// Result is one replayed tick's provenance.
type Result struct {
	TickID string
	Source string
	Reason string
	Action string
}

// Comparison pairs a replayed tick with its expectation.
type Comparison struct {
	TickID   string
	Expected Expectation
	Got      Result
	Match    bool
}

// #endregion results

// #region harness

// Run replays every tick of the fixture through the controller, in order.
func Run(ctx context.Context, ctrl *controller.Controller, f *Fixture) []Result {
	results := make([]Result, len(f.Ticks))
	for i, tick := range f.Ticks {
		obs := tick.Observation
		res := ctrl.Decide(ctx, &obs, f.ProviderID)
		results[i] = Result{
			TickID: tick.TickID,
			Source: string(res.Source),
			Reason: res.Reason,
			Action: res.Decision.Action,
		}
	}
	return results
}

// Compare lines results up against the fixture's expectations by index.
func Compare(results []Result, expected []Expectation) []Comparison {
	n := len(results)
	if len(expected) < n {
		n = len(expected)
	}

	comps := make([]Comparison, n)
	for i := 0; i < n; i++ {
		exp, got := expected[i], results[i]
		match := exp.Source == got.Source && exp.Reason == got.Reason
		if exp.Action != "" && exp.Action != got.Action {
			match = false
		}
		comps[i] = Comparison{
			TickID:   got.TickID,
			Expected: exp,
			Got:      got,
			Match:    match,
		}
	}
	return comps
}

// #endregion harness
