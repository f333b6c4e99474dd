package controller

import (
	"fmt"
	"strings"

	"github.com/danielpatrickdp/wizard-village/go-decision/internal/observation"
)

// #region prompt

// BuildPrompt renders one observation as the model prompt. Written in plain
// vocabulary; the rewrite engine and safety mutator run over the result.
func BuildPrompt(obs *observation.Observation) string {
	self := obs.Self
	var b strings.Builder

	fmt.Fprintf(&b, "You are %s, a wizard living in the village.", displayName(self))
	if self.Personality != "" {
		fmt.Fprintf(&b, " Your disposition: %s.", self.Personality)
	}
	fmt.Fprintf(&b, "\nTick %d. Hunger %.0f/100, energy %.0f/100, health %.0f/100. You have %.0f money.\n",
		obs.Tick, self.Hunger, self.Energy, self.Health, self.Balance)

	if len(self.Inventory) > 0 {
		items := make([]string, 0, len(self.Inventory))
		for _, it := range self.Inventory {
			if it.Quantity > 0 {
				items = append(items, fmt.Sprintf("%s x%d", it.Type, it.Quantity))
			}
		}
		if len(items) > 0 {
			fmt.Fprintf(&b, "You carry: %s.\n", strings.Join(items, ", "))
		}
	}

	if len(obs.Agents) > 0 {
		b.WriteString("Wizards nearby:\n")
		for _, a := range obs.Agents {
			fmt.Fprintf(&b, "- %s at (%d,%d)", a.Name, a.Position.X, a.Position.Y)
			if a.Personality != "" {
				fmt.Fprintf(&b, ", %s", a.Personality)
			}
			b.WriteString("\n")
		}
	}
	if len(obs.Resources) > 0 {
		b.WriteString("Resources:\n")
		for _, r := range obs.Resources {
			fmt.Fprintf(&b, "- %s %q at (%d,%d), %d left\n", r.Type, r.ID, r.Position.X, r.Position.Y, r.CurrentAmount)
		}
	}
	if len(obs.Shelters) > 0 {
		b.WriteString("Shelters:\n")
		for _, sh := range obs.Shelters {
			fmt.Fprintf(&b, "- %q at (%d,%d)\n", sh.ID, sh.Position.X, sh.Position.Y)
		}
	}
	if len(obs.Jobs) > 0 {
		b.WriteString("Job offers:\n")
		for _, j := range obs.Jobs {
			fmt.Fprintf(&b, "- %q from %s, wage %.0f money\n", j.ID, j.EmployerID, j.Wage)
		}
	}
	if len(obs.Employments) > 0 {
		fmt.Fprintf(&b, "You are involved in %d active work arrangements.\n", len(obs.Employments))
	}

	b.WriteString("\nChoose your next action. Reply with JSON only: " +
		`{"action": "...", "target": "...", "message": "...", "reason": "..."}` + "\n" +
		`Valid actions: move, gather, eat, sleep, work, talk, trade, idle.`)

	return b.String()
}

func displayName(self observation.SelfState) string {
	if self.Name != "" {
		return self.Name
	}
	return self.ID
}

// #endregion prompt
