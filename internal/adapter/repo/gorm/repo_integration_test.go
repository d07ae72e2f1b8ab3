package gormrepo

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"roomverse/internal/app/ports"
	"roomverse/internal/domain/world"
)

func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("ROOMVERSE_DB_DSN")
	if dsn == "" {
		t.Skip("ROOMVERSE_DB_DSN is required for integration test")
	}
	return dsn
}

func TestExecutionRepo_SaveAndListByEpisode(t *testing.T) {
	dsn := requireDSN(t)
	db, err := OpenPostgres(dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	ctx := context.Background()
	if err := ApplyMigrations(ctx, db, "../../../../migrations"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	episodeID := "it-episode-roundtrip"
	_ = db.Exec("DELETE FROM execution_records WHERE episode_id = ?", episodeID).Error

	repo := NewExecutionRepo(db)
	rec := ports.ExecutionRecord{
		EpisodeID: episodeID,
		Step:      1,
		AgentIDs:  []string{"a1", "a2"},
		Command:   "CORP_GRAB a1,a2 heavy_box",
		Result: ports.ExecutionResult{
			Status:  "SUCCESS",
			Message: "a1 and a2 lifted heavy_box together",
			Events: []world.Event{{
				Type:       "object_grabbed_jointly",
				OccurredAt: time.Now().UTC().Truncate(time.Second),
				Payload:    map[string]any{"object": "heavy_box"},
			}},
		},
		AppliedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := repo.Save(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.ListByEpisode(ctx, episodeID, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("records = %d, want 1", len(got))
	}
	if got[0].Result.Status != "SUCCESS" || len(got[0].AgentIDs) != 2 {
		t.Fatalf("record = %+v", got[0])
	}
	if len(got[0].Result.Events) != 1 || got[0].Result.Events[0].Type != "object_grabbed_jointly" {
		t.Fatalf("events = %+v", got[0].Result.Events)
	}
}

func TestEventRepo_AppendAndListInTx(t *testing.T) {
	dsn := requireDSN(t)
	db, err := OpenPostgres(dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	ctx := context.Background()
	if err := ApplyMigrations(ctx, db, "../../../../migrations"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	agentID := "it-events-roundtrip"
	_ = db.Exec("DELETE FROM domain_events WHERE agent_id = ?", agentID).Error

	repo := NewEventRepo(db)
	tx := NewTxManager(db)
	err = tx.RunInTx(ctx, func(ctx context.Context) error {
		return repo.Append(ctx, agentID, []world.Event{
			{Type: "agent_moved", OccurredAt: time.Now().UTC(), Payload: map[string]any{"to": "pantry"}},
			{Type: "object_grabbed", OccurredAt: time.Now().UTC(), Payload: map[string]any{"object": "knife"}},
		})
	})
	if err != nil {
		t.Fatalf("append in tx: %v", err)
	}

	events, err := repo.ListByAgentID(ctx, agentID, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
}

func TestTxManager_RollbackOnError(t *testing.T) {
	dsn := requireDSN(t)
	db, err := OpenPostgres(dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	ctx := context.Background()
	if err := ApplyMigrations(ctx, db, "../../../../migrations"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	agentID := "it-events-rollback"
	_ = db.Exec("DELETE FROM domain_events WHERE agent_id = ?", agentID).Error

	repo := NewEventRepo(db)
	tx := NewTxManager(db)
	boom := errors.New("boom")
	err = tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := repo.Append(ctx, agentID, []world.Event{
			{Type: "agent_moved", OccurredAt: time.Now().UTC()},
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	events, err := repo.ListByAgentID(ctx, agentID, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("rolled-back events = %d, want 0", len(events))
	}
}
