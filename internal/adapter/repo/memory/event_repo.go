package memory

import (
	"context"

	"roomverse/internal/domain/world"
)

type EventRepo struct {
	store *Store
}

func NewEventRepo(store *Store) EventRepo {
	return EventRepo{store: store}
}

func (r EventRepo) Append(_ context.Context, agentID string, events []world.Event) error {
	r.store.events[agentID] = append(r.store.events[agentID], events...)
	return nil
}

func (r EventRepo) ListByAgentID(_ context.Context, agentID string, limit int) ([]world.Event, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	events := r.store.events[agentID]
	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	out := make([]world.Event, len(events))
	copy(out, events)
	return out, nil
}
