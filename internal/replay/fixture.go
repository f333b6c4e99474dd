// Package replay re-runs recorded observation streams through the decision
// pipeline and compares outcomes against expectations. Used to catch drift in
// the gate rules and cache behavior across changes.
package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/wizard-village/go-decision/internal/observation"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay run.
type Fixture struct {
	Description string        `json:"description"`
	ProviderID  string        `json:"provider_id"`
	Ticks       []Tick        `json:"ticks"`
	Expected    []Expectation `json:"expected_results"`
}

// Tick is one recorded agent-tick.
type Tick struct {
	TickID      string                  `json:"tick_id"`
	Observation observation.Observation `json:"observation"`
}

// Expectation captures the expected provenance per tick. Action is optional;
// empty means any action is acceptable.
type Expectation struct {
	TickID string `json:"tick_id"`
	Source string `json:"source"`
	Reason string `json:"reason"`
	Action string `json:"action,omitempty"`
}

// #endregion fixture-types

// #region load

// LoadFixture reads and parses a fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if len(f.Ticks) == 0 {
		return nil, fmt.Errorf("fixture has no ticks")
	}
	if f.ProviderID == "" {
		f.ProviderID = "replay"
	}
	return &f, nil
}

// SampleFixture returns a small starter fixture demonstrating the three gate
// outcomes. cmd/fixture-export writes it out for hand editing.
func SampleFixture() *Fixture {
	return &Fixture{
		Description: "gate smoke: critical, idle, and social ticks",
		ProviderID:  "replay",
		Ticks: []Tick{
			{
				TickID: "tick-1",
				Observation: observation.Observation{
					Tick: 1,
					Self: observation.SelfState{
						ID: "wiz-1", Name: "Orim",
						Position: observation.Position{X: 4, Y: 4},
						Hunger:   25, Energy: 70, Health: 90, Balance: 40,
						Inventory: []observation.InventoryItem{{Type: "food", Quantity: 2}},
					},
				},
			},
			{
				TickID: "tick-2",
				Observation: observation.Observation{
					Tick: 2,
					Self: observation.SelfState{
						ID: "wiz-1", Name: "Orim",
						Position: observation.Position{X: 4, Y: 4},
						Hunger:   85, Energy: 80, Health: 90, Balance: 40,
					},
				},
			},
			{
				TickID: "tick-3",
				Observation: observation.Observation{
					Tick: 3,
					Self: observation.SelfState{
						ID: "wiz-1", Name: "Orim",
						Position: observation.Position{X: 4, Y: 4},
						Hunger:   85, Energy: 80, Health: 90, Balance: 40,
					},
					Agents: []observation.NearbyAgent{
						{ID: "wiz-2", Name: "Mira", Position: observation.Position{X: 6, Y: 5}},
					},
				},
			},
		},
		Expected: []Expectation{
			{TickID: "tick-1", Source: "heuristic", Reason: "survival_critical", Action: "eat"},
			{TickID: "tick-2", Source: "heuristic", Reason: "no_social_opportunity"},
			{TickID: "tick-3", Source: "model", Reason: "wizard_brain_needed"},
		},
	}
}

// #endregion load
