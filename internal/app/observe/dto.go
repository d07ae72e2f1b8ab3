package observe

import "roomverse/internal/domain/world"

type Request struct {
	AgentID string
}

type RoomView struct {
	ID         string            `json:"id"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Exits      []string          `json:"exits,omitempty"`
}

// ObservedObject is the caller-facing projection of one object: state
// attributes plus, for open containers, the discovered contents.
type ObservedObject struct {
	ID                string            `json:"id"`
	Type              string            `json:"type"`
	States            map[string]string `json:"states,omitempty"`
	Weight            float64           `json:"weight"`
	Capacity          int               `json:"capacity,omitempty"`
	Contents          []string          `json:"contents,omitempty"`
	ProvidesAbilities []string          `json:"provides_abilities,omitempty"`
	Held              bool              `json:"held"`
}

type Response struct {
	AgentID    string                `json:"agent_id"`
	Room       RoomView              `json:"room"`
	Inventory  []ObservedObject      `json:"inventory"`
	Near       []ObservedObject      `json:"near_objects"`
	NearAgents []string              `json:"near_agents,omitempty"`
	Abilities  []string              `json:"abilities,omitempty"`
	History    []world.CommandRecord `json:"history,omitempty"`
}
