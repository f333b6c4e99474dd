package heuristic

import "github.com/danielpatrickdp/wizard-village/go-decision/internal/observation"

// #region survival

// SurvivalDecision picks a rule-based action from what the agent can see.
// Fully deterministic: nearest entity wins, ties broken by lowest ID. Also
// serves as the caller's fallback of last resort when the model path fails.
func (g *Gate) SurvivalDecision(obs *observation.Observation) observation.Decision {
	self := obs.Self

	// Hunger first: it decays fastest in the simulation.
	if self.Hunger < g.cfg.CriticalHunger {
		if self.HasItem("food") {
			return observation.Decision{Action: "eat", Reason: "hunger critical, consuming carried food"}
		}
		if r, ok := nearestResource(obs); ok {
			if r.Position == self.Position {
				return observation.Decision{Action: "gather", Target: r.ID, Reason: "hunger critical, harvesting here"}
			}
			return observation.Decision{Action: "move", Target: r.ID, Reason: "hunger critical, heading to nearest resource"}
		}
		if j, ok := nearestJob(obs); ok {
			return observation.Decision{Action: "work", Target: j.ID, Reason: "hunger critical, earning for food"}
		}
	}

	if self.Energy < g.cfg.CriticalEnergy {
		if sh, ok := nearestShelter(obs); ok {
			if sh.Position == self.Position {
				return observation.Decision{Action: "sleep", Target: sh.ID, Reason: "energy critical, sleeping in shelter"}
			}
			return observation.Decision{Action: "move", Target: sh.ID, Reason: "energy critical, heading to shelter"}
		}
		return observation.Decision{Action: "sleep", Reason: "energy critical, resting in place"}
	}

	if self.Health < g.cfg.CriticalHealth {
		if self.HasItem("food") {
			return observation.Decision{Action: "eat", Reason: "health critical, recovering with food"}
		}
		if sh, ok := nearestShelter(obs); ok {
			if sh.Position == self.Position {
				return observation.Decision{Action: "sleep", Target: sh.ID, Reason: "health critical, recovering in shelter"}
			}
			return observation.Decision{Action: "move", Target: sh.ID, Reason: "health critical, heading to shelter"}
		}
		return observation.Decision{Action: "sleep", Reason: "health critical, resting in place"}
	}

	// Nothing critical and nothing social: keep the economy ticking over.
	if self.Balance < g.cfg.StableBalance {
		if j, ok := nearestJob(obs); ok {
			return observation.Decision{Action: "work", Target: j.ID, Reason: "low balance, taking nearby work"}
		}
	}
	if r, ok := nearestResource(obs); ok {
		if r.Position == self.Position {
			return observation.Decision{Action: "gather", Target: r.ID, Reason: "stocking up while idle"}
		}
		return observation.Decision{Action: "move", Target: r.ID, Reason: "moving to restock"}
	}

	return observation.Decision{Action: "idle", Reason: "nothing actionable nearby"}
}

// #endregion survival

// #region nearest

func nearestResource(obs *observation.Observation) (observation.ResourceSpawn, bool) {
	var best observation.ResourceSpawn
	bestDist := -1
	for _, r := range obs.Resources {
		if r.CurrentAmount <= 0 {
			continue
		}
		d := obs.Self.Position.Manhattan(r.Position)
		if bestDist < 0 || d < bestDist || (d == bestDist && r.ID < best.ID) {
			best, bestDist = r, d
		}
	}
	return best, bestDist >= 0
}

func nearestShelter(obs *observation.Observation) (observation.Shelter, bool) {
	var best observation.Shelter
	bestDist := -1
	for _, sh := range obs.Shelters {
		d := obs.Self.Position.Manhattan(sh.Position)
		if bestDist < 0 || d < bestDist || (d == bestDist && sh.ID < best.ID) {
			best, bestDist = sh, d
		}
	}
	return best, bestDist >= 0
}

func nearestJob(obs *observation.Observation) (observation.JobOffer, bool) {
	var best observation.JobOffer
	bestDist := -1
	for _, j := range obs.Jobs {
		d := obs.Self.Position.Manhattan(j.Position)
		if bestDist < 0 || d < bestDist || (d == bestDist && j.ID < best.ID) {
			best, bestDist = j, d
		}
	}
	return best, bestDist >= 0
}

// #endregion nearest
