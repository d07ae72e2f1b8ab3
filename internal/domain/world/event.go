package world

import "time"

// Event records one committed world transition for trajectory export and
// replay. OccurredAt is stamped by the engine at commit time.
type Event struct {
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}
