package replay

import (
	"context"
	"errors"
	"sort"
	"strings"

	"roomverse/internal/app/ports"
	"roomverse/internal/domain/world"
)

var ErrInvalidRequest = errors.New("invalid replay request")

type UseCase struct {
	Events ports.EventRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.AgentID) == "" {
		return Response{}, ErrInvalidRequest
	}
	events, err := u.Events.ListByAgentID(ctx, req.AgentID, req.Limit)
	if err != nil {
		return Response{}, err
	}
	events = filterByTimeWindow(events, req.OccurredFrom, req.OccurredTo)
	summary := reconstruct(req.AgentID, events)
	return Response{Events: events, Summary: summary}, nil
}

func filterByTimeWindow(events []world.Event, from, to int64) []world.Event {
	if from <= 0 && to <= 0 {
		return events
	}
	out := make([]world.Event, 0, len(events))
	for _, evt := range events {
		ts := evt.OccurredAt.Unix()
		if from > 0 && ts < from {
			continue
		}
		if to > 0 && ts > to {
			continue
		}
		out = append(out, evt)
	}
	return out
}

// reconstruct folds movement and ownership events into the agent's last
// known room and held-object set. Events the agent did not take part in
// are skipped.
func reconstruct(agentID string, events []world.Event) Summary {
	holding := map[string]struct{}{}
	summary := Summary{AgentID: agentID}
	for _, evt := range events {
		switch evt.Type {
		case "agent_moved":
			if str(evt.Payload["agent"]) == agentID {
				summary.Room = str(evt.Payload["to"])
			}
		case "object_grabbed":
			if str(evt.Payload["agent"]) == agentID {
				holding[str(evt.Payload["object"])] = struct{}{}
			}
		case "object_placed":
			if str(evt.Payload["agent"]) == agentID {
				delete(holding, str(evt.Payload["object"]))
			}
		case "object_grabbed_jointly":
			if containsAgent(evt.Payload["agents"], agentID) {
				holding[str(evt.Payload["object"])] = struct{}{}
			}
		case "object_placed_jointly":
			if containsAgent(evt.Payload["agents"], agentID) {
				delete(holding, str(evt.Payload["object"]))
			}
		}
	}
	for id := range holding {
		summary.Holding = append(summary.Holding, id)
	}
	sort.Strings(summary.Holding)
	return summary
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

// containsAgent handles both the in-memory []string payload and the
// []any form the payload takes after a JSON round trip.
func containsAgent(v any, agentID string) bool {
	switch list := v.(type) {
	case []string:
		for _, id := range list {
			if id == agentID {
				return true
			}
		}
	case []any:
		for _, raw := range list {
			if str(raw) == agentID {
				return true
			}
		}
	}
	return false
}
