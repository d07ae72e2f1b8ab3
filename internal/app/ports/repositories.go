package ports

import (
	"context"
	"time"

	"roomverse/internal/domain/world"
)

type ExecutionResult struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Events  []world.Event `json:"events,omitempty"`
}

// ExecutionRecord is one step of an episode trajectory: the raw command,
// who issued it, and what came back.
type ExecutionRecord struct {
	EpisodeID string
	Step      int
	AgentIDs  []string
	Command   string
	Result    ExecutionResult
	AppliedAt time.Time
}

type ExecutionRepository interface {
	Save(ctx context.Context, record ExecutionRecord) error
	ListByEpisode(ctx context.Context, episodeID string, limit int) ([]ExecutionRecord, error)
}

type EventRepository interface {
	Append(ctx context.Context, agentID string, events []world.Event) error
	ListByAgentID(ctx context.Context, agentID string, limit int) ([]world.Event, error)
}
