package heuristic

import "github.com/danielpatrickdp/wizard-village/go-decision/internal/observation"

// #region gate

// Gate classifies one tick. It keeps no per-agent state: the same observation
// always yields the same outcome.
type Gate struct {
	cfg Thresholds
}

// NewGate creates a gate with the given thresholds.
func NewGate(cfg Thresholds) *Gate {
	return &Gate{cfg: cfg}
}

// Evaluate runs the survival rules over one observation.
//
// Critical gauges always short-circuit with a rule decision. Otherwise the
// model is consulted only when another agent is close enough to make the tick
// strategically interesting; with nobody nearby the rule decision is the
// cheap default.
func (g *Gate) Evaluate(obs *observation.Observation) Outcome {
	self := obs.Self

	if self.Hunger < g.cfg.CriticalHunger ||
		self.Energy < g.cfg.CriticalEnergy ||
		self.Health < g.cfg.CriticalHealth {
		return Outcome{
			Handled:  true,
			Decision: g.SurvivalDecision(obs),
			Reason:   ReasonSurvivalCritical,
		}
	}

	if !g.hasSocialOpportunity(obs) {
		return Outcome{
			Handled:  true,
			Decision: g.SurvivalDecision(obs),
			Reason:   ReasonNoSocialOpportunity,
		}
	}

	// Someone is nearby: social and strategic calls belong to the model,
	// whether or not the agent is fully stable yet.
	return Outcome{Handled: false, Reason: ReasonWizardBrainNeeded}
}

// Stable reports whether every gauge clears its stable threshold.
func (g *Gate) Stable(obs *observation.Observation) bool {
	self := obs.Self
	return self.Hunger >= g.cfg.StableHunger &&
		self.Energy >= g.cfg.StableEnergy &&
		self.Balance >= g.cfg.StableBalance &&
		self.Health >= g.cfg.StableHealth
}

func (g *Gate) hasSocialOpportunity(obs *observation.Observation) bool {
	for _, a := range obs.Agents {
		if a.ID == obs.Self.ID {
			continue
		}
		if obs.Self.Position.Manhattan(a.Position) <= g.cfg.SocialDistance {
			return true
		}
	}
	return false
}

// #endregion gate
