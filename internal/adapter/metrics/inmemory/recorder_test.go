package inmemory

import "testing"

func TestRecorderSnapshot(t *testing.T) {
	r := NewRecorder()
	r.RecordSuccess()
	r.RecordSuccess()
	r.RecordFailure()
	r.RecordInvalid()

	s := r.Snapshot()
	if s.CommandTotal != 4 {
		t.Fatalf("expected total 4, got %d", s.CommandTotal)
	}
	if s.CommandSuccess != 2 {
		t.Fatalf("expected success 2, got %d", s.CommandSuccess)
	}
	if s.CommandFailure != 1 {
		t.Fatalf("expected failure 1, got %d", s.CommandFailure)
	}
	if s.CommandInvalid != 1 {
		t.Fatalf("expected invalid 1, got %d", s.CommandInvalid)
	}
}
