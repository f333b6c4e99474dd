// Package heuristic is the deterministic pre-filter consulted before any
// cache lookup or model call: when fixed survival rules can produce this
// tick's decision, the expensive path is skipped entirely.
package heuristic

import "github.com/danielpatrickdp/wizard-village/go-decision/internal/observation"

// #region reason

// Reason tags why the gate handled or deferred a tick. Preserved verbatim for
// downstream statistics.
type Reason string

const (
	ReasonSurvivalCritical    Reason = "survival_critical"
	ReasonNoSocialOpportunity Reason = "no_social_opportunity"
	ReasonWizardBrainNeeded   Reason = "wizard_brain_needed"
)

// #endregion reason

// #region outcome

// Outcome is the gate's tagged result. When Handled is true, Decision carries
// the rule-based action; otherwise the caller proceeds to the model path.
type Outcome struct {
	Handled  bool
	Decision observation.Decision
	Reason   Reason
}

// #endregion outcome

// #region thresholds

// Thresholds holds the gate's contract values. The defaults are externally
// observable (telemetry dashboards depend on them) and must not drift.
type Thresholds struct {
	CriticalHunger float64
	CriticalEnergy float64
	CriticalHealth float64

	StableHunger  float64
	StableEnergy  float64
	StableHealth  float64
	StableBalance float64

	// SocialDistance is the Manhattan radius within which another agent
	// counts as a social opportunity.
	SocialDistance int
}

// DefaultThresholds returns the contract values.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CriticalHunger: 40,
		CriticalEnergy: 30,
		CriticalHealth: 30,
		StableHunger:   60,
		StableEnergy:   50,
		StableHealth:   50,
		StableBalance:  30,
		SocialDistance: 5,
	}
}

// #endregion thresholds
