// Package observation defines the snapshot of the world an agent perceives on
// one simulation tick, plus the Decision produced for it. The simulation owns
// these values; the decision layer borrows them read-only for one call.
package observation

// #region position

// Position is a grid coordinate in the village world.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Manhattan returns the L1 distance between two positions.
func (p Position) Manhattan(q Position) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// #endregion position

// #region self-state

// InventoryItem is one stack of a named item type.
type InventoryItem struct {
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
}

// SelfState is the observing agent's own gauges and belongings.
// Hunger/Energy/Health live on a 0-100 scale.
type SelfState struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Position    Position        `json:"position"`
	Hunger      float64         `json:"hunger"`
	Energy      float64         `json:"energy"`
	Health      float64         `json:"health"`
	Balance     float64         `json:"balance"`
	Inventory   []InventoryItem `json:"inventory"`
	Personality string          `json:"personality"`
}

// HasItem reports whether the inventory holds a positive quantity of itemType.
func (s SelfState) HasItem(itemType string) bool {
	for _, it := range s.Inventory {
		if it.Type == itemType && it.Quantity > 0 {
			return true
		}
	}
	return false
}

// #endregion self-state

// #region nearby-entities

// NearbyAgent is another agent within the observer's perception radius.
type NearbyAgent struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Position    Position `json:"position"`
	Personality string   `json:"personality"`
}

// ResourceSpawn is a harvestable resource node.
type ResourceSpawn struct {
	ID            string   `json:"id"`
	Type          string   `json:"type"`
	Position      Position `json:"position"`
	CurrentAmount int      `json:"currentAmount"`
}

// Shelter is a rest location.
type Shelter struct {
	ID       string   `json:"id"`
	Position Position `json:"position"`
	Capacity int      `json:"capacity"`
}

// JobOffer is an open position posted by another agent.
type JobOffer struct {
	ID         string   `json:"id"`
	EmployerID string   `json:"employerId"`
	Position   Position `json:"position"`
	Wage       float64  `json:"wage"`
}

// Employment is an active work relationship involving the observer.
type Employment struct {
	ID         string  `json:"id"`
	EmployerID string  `json:"employerId"`
	WorkerID   string  `json:"workerId"`
	Wage       float64 `json:"wage"`
}

// #endregion nearby-entities

// #region observation

// Observation is the immutable per-tick snapshot handed to the decision layer.
type Observation struct {
	Tick        int64           `json:"tick"`
	Self        SelfState       `json:"self"`
	Agents      []NearbyAgent   `json:"agents"`
	Resources   []ResourceSpawn `json:"resources"`
	Shelters    []Shelter       `json:"shelters"`
	Jobs        []JobOffer      `json:"jobs"`
	Employments []Employment    `json:"employments"`
}

// #endregion observation

// #region decision

// Decision is the structured action an agent takes this tick. Produced either
// by the heuristic gate, the decision cache, or the language model.
type Decision struct {
	Action  string `json:"action"`
	Target  string `json:"target,omitempty"`
	Message string `json:"message,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// #endregion decision
