package action

import (
	"roomverse/internal/app/verify"
	"roomverse/internal/domain/world"
)

type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailure Status = "FAILURE"
	StatusInvalid Status = "INVALID"
)

type Request struct {
	// AgentIDs is the issuing agent set. Cooperative commands may instead
	// carry the agent list inside the command string; when both are given
	// they must agree.
	AgentIDs []string
	Command  string
}

// AgentView is the post-commit picture of one acting agent, sufficient
// for the caller to render an observation without re-querying the core.
type AgentView struct {
	AgentID   string   `json:"agent_id"`
	Room      string   `json:"room"`
	Inventory []string `json:"inventory"`
	Near      []string `json:"near"`
	Abilities []string `json:"abilities"`
}

type Result struct {
	Agents       []AgentView           `json:"agents,omitempty"`
	Events       []world.Event         `json:"events,omitempty"`
	Verification []verify.Delta        `json:"verification,omitempty"`
	Subtasks     []verify.SubtaskState `json:"subtasks,omitempty"`
	TaskDone     bool                  `json:"task_done"`
}

type Response struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
	Result  Result `json:"result"`
}
