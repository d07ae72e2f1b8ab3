package world

import "time"

type Room struct {
	ID          string            `json:"id"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	Connections []string          `json:"connections,omitempty"`

	ObjectIDs map[string]struct{} `json:"-"`
	AgentIDs  map[string]struct{} `json:"-"`
}

func (r *Room) ConnectedTo(roomID string) bool {
	for _, c := range r.Connections {
		if c == roomID {
			return true
		}
	}
	return false
}

type Object struct {
	ID                string            `json:"id"`
	Type              string            `json:"type"`
	Location          Location          `json:"location"`
	States            map[string]string `json:"states,omitempty"`
	Weight            float64           `json:"weight"`
	CarryThreshold    float64           `json:"carry_threshold,omitempty"`
	Capacity          int               `json:"capacity,omitempty"`
	ProvidesAbilities []string          `json:"provides_abilities,omitempty"`
	Discovered        bool              `json:"discovered"`
}

func (o *Object) IsContainer() bool {
	return o.Capacity > 0
}

func (o *Object) State(attr string) string {
	if o.States == nil {
		return ""
	}
	return o.States[attr]
}

func (o *Object) IsOpen() bool {
	return o.State("open") == "true"
}

// NeedsJointCarry reports whether the object is too heavy for one agent.
func (o *Object) NeedsJointCarry() bool {
	return o.CarryThreshold > 0 && o.Weight > o.CarryThreshold
}

type CommandRecord struct {
	Command  string    `json:"command"`
	Status   string    `json:"status"`
	Message  string    `json:"message"`
	IssuedAt time.Time `json:"issued_at"`
}

type Agent struct {
	ID             string   `json:"id"`
	Room           string   `json:"room"`
	Inventory      []string `json:"inventory"`
	MaxItems       int      `json:"max_items"`
	MaxCarryWeight float64  `json:"max_carry_weight"`

	// History is append-only; entries are written by the engine after
	// every accepted or rejected command.
	History []CommandRecord `json:"-"`
}

func (a *Agent) Holds(objectID string) bool {
	for _, id := range a.Inventory {
		if id == objectID {
			return true
		}
	}
	return false
}

func (a *Agent) RecordCommand(rec CommandRecord) {
	a.History = append(a.History, rec)
}
