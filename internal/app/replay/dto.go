package replay

import "roomverse/internal/domain/world"

type Request struct {
	AgentID string
	Limit   int
	// OccurredFrom/OccurredTo bound the window by unix seconds; zero
	// means unbounded on that side.
	OccurredFrom int64
	OccurredTo   int64
}

// Summary is the agent state reconstructed by folding the event stream:
// last known room and the objects still held at the end of the window.
type Summary struct {
	AgentID string   `json:"agent_id"`
	Room    string   `json:"room,omitempty"`
	Holding []string `json:"holding,omitempty"`
}

type Response struct {
	Events  []world.Event `json:"events"`
	Summary Summary       `json:"summary"`
}
