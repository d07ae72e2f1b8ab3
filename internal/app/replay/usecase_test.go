package replay

import (
	"context"
	"testing"
	"time"

	"roomverse/internal/domain/world"
)

type stubEventRepo struct {
	events []world.Event
}

func (s *stubEventRepo) Append(_ context.Context, _ string, events []world.Event) error {
	s.events = append(s.events, events...)
	return nil
}

func (s *stubEventRepo) ListByAgentID(_ context.Context, _ string, _ int) ([]world.Event, error) {
	return s.events, nil
}

func at(sec int64) time.Time { return time.Unix(sec, 0) }

func TestUseCase_ReconstructsSummary(t *testing.T) {
	repo := &stubEventRepo{events: []world.Event{
		{Type: "agent_moved", OccurredAt: at(10), Payload: map[string]any{"agent": "a1", "from": "kitchen", "to": "pantry"}},
		{Type: "object_grabbed", OccurredAt: at(20), Payload: map[string]any{"agent": "a1", "object": "knife"}},
		{Type: "object_grabbed_jointly", OccurredAt: at(30), Payload: map[string]any{"agents": []any{"a1", "a2"}, "object": "heavy_box"}},
		{Type: "object_placed", OccurredAt: at(40), Payload: map[string]any{"agent": "a1", "object": "knife"}},
		{Type: "object_grabbed", OccurredAt: at(50), Payload: map[string]any{"agent": "a2", "object": "coin"}},
	}}

	resp, err := UseCase{Events: repo}.Execute(context.Background(), Request{AgentID: "a1"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Summary.Room != "pantry" {
		t.Fatalf("room = %q, want pantry", resp.Summary.Room)
	}
	if len(resp.Summary.Holding) != 1 || resp.Summary.Holding[0] != "heavy_box" {
		t.Fatalf("holding = %v, want [heavy_box]", resp.Summary.Holding)
	}
}

func TestUseCase_TimeWindow(t *testing.T) {
	repo := &stubEventRepo{events: []world.Event{
		{Type: "agent_moved", OccurredAt: at(10), Payload: map[string]any{"agent": "a1", "to": "pantry"}},
		{Type: "agent_moved", OccurredAt: at(100), Payload: map[string]any{"agent": "a1", "to": "kitchen"}},
		{Type: "agent_moved", OccurredAt: at(200), Payload: map[string]any{"agent": "a1", "to": "storage_room"}},
	}}

	resp, err := UseCase{Events: repo}.Execute(context.Background(), Request{
		AgentID: "a1", OccurredFrom: 50, OccurredTo: 150,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Events) != 1 {
		t.Fatalf("events = %d, want 1", len(resp.Events))
	}
	if resp.Summary.Room != "kitchen" {
		t.Fatalf("room = %q, want kitchen", resp.Summary.Room)
	}
}

func TestUseCase_RejectsBlankAgent(t *testing.T) {
	if _, err := (UseCase{Events: &stubEventRepo{}}).Execute(context.Background(), Request{AgentID: ""}); err != ErrInvalidRequest {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}
}
