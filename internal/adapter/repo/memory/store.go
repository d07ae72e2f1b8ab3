package memory

import (
	"sync"

	"roomverse/internal/app/ports"
	"roomverse/internal/domain/world"
)

// Store is the shared backing map for the in-memory repositories.
// Writes only happen under TxManager, which holds the write lock for
// the span of a whole transaction; reads take the read lock themselves.
type Store struct {
	mu         sync.RWMutex
	executions map[string][]ports.ExecutionRecord
	events     map[string][]world.Event
}

func NewStore() *Store {
	return &Store{
		executions: make(map[string][]ports.ExecutionRecord),
		events:     make(map[string][]world.Event),
	}
}
