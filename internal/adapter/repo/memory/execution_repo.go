package memory

import (
	"context"

	"roomverse/internal/app/ports"
)

type ExecutionRepo struct {
	store *Store
}

func NewExecutionRepo(store *Store) ExecutionRepo {
	return ExecutionRepo{store: store}
}

func (r ExecutionRepo) Save(_ context.Context, record ports.ExecutionRecord) error {
	for _, existing := range r.store.executions[record.EpisodeID] {
		if existing.Step == record.Step {
			return ports.ErrConflict
		}
	}
	r.store.executions[record.EpisodeID] = append(r.store.executions[record.EpisodeID], record)
	return nil
}

func (r ExecutionRepo) ListByEpisode(_ context.Context, episodeID string, limit int) ([]ports.ExecutionRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	records := r.store.executions[episodeID]
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	out := make([]ports.ExecutionRecord, len(records))
	copy(out, records)
	return out, nil
}
