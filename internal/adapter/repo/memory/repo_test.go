package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"roomverse/internal/app/ports"
	"roomverse/internal/domain/world"
)

func TestExecutionRepo_SaveAndList(t *testing.T) {
	store := NewStore()
	repo := NewExecutionRepo(store)
	ctx := context.Background()

	for step := 1; step <= 3; step++ {
		err := repo.Save(ctx, ports.ExecutionRecord{
			EpisodeID: "ep-1", Step: step, AgentIDs: []string{"a1"},
			Command:   "LOOK",
			Result:    ports.ExecutionResult{Status: "SUCCESS"},
			AppliedAt: time.Unix(int64(step), 0),
		})
		if err != nil {
			t.Fatalf("save step %d: %v", step, err)
		}
	}

	err := repo.Save(ctx, ports.ExecutionRecord{EpisodeID: "ep-1", Step: 2})
	if !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("duplicate step err = %v, want ErrConflict", err)
	}

	records, err := repo.ListByEpisode(ctx, "ep-1", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || records[0].Step != 2 || records[1].Step != 3 {
		t.Fatalf("records = %+v, want tail [2 3]", records)
	}

	records, _ = repo.ListByEpisode(ctx, "ep-unknown", 0)
	if len(records) != 0 {
		t.Fatalf("unknown episode records = %d, want 0", len(records))
	}
}

func TestEventRepo_AppendAndList(t *testing.T) {
	store := NewStore()
	repo := NewEventRepo(store)
	ctx := context.Background()

	if err := repo.Append(ctx, "a1", []world.Event{
		{Type: "agent_moved", OccurredAt: time.Unix(1, 0)},
		{Type: "object_grabbed", OccurredAt: time.Unix(2, 0)},
	}); err != nil {
		t.Fatal(err)
	}
	events, err := repo.ListByAgentID(ctx, "a1", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Type != "object_grabbed" {
		t.Fatalf("events = %+v", events)
	}
}

func TestStore_ConcurrentAppendAndList(t *testing.T) {
	store := NewStore()
	tx := NewTxManager(store)
	events := NewEventRepo(store)
	executions := NewExecutionRepo(store)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			err := tx.RunInTx(ctx, func(ctx context.Context) error {
				if err := events.Append(ctx, "a1", []world.Event{{Type: "agent_moved"}}); err != nil {
					return err
				}
				return executions.Save(ctx, ports.ExecutionRecord{EpisodeID: "ep-1", Step: i + 1})
			})
			if err != nil {
				t.Errorf("tx %d: %v", i, err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if _, err := events.ListByAgentID(ctx, "a1", 0); err != nil {
				t.Errorf("list events: %v", err)
				return
			}
			if _, err := executions.ListByEpisode(ctx, "ep-1", 0); err != nil {
				t.Errorf("list executions: %v", err)
				return
			}
		}
	}()
	wg.Wait()

	got, _ := events.ListByAgentID(ctx, "a1", 0)
	if len(got) != 200 {
		t.Fatalf("events after writers finished = %d, want 200", len(got))
	}
}

func TestTxManager_RunsFunction(t *testing.T) {
	store := NewStore()
	tx := NewTxManager(store)
	called := false
	err := tx.RunInTx(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})
	if err != nil || !called {
		t.Fatalf("err = %v, called = %v", err, called)
	}
}
