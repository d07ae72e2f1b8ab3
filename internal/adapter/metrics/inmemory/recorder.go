package inmemory

import "sync"

type Snapshot struct {
	CommandTotal   uint64 `json:"command_total"`
	CommandSuccess uint64 `json:"command_success"`
	CommandFailure uint64 `json:"command_failure"`
	CommandInvalid uint64 `json:"command_invalid"`
}

// Recorder counts command outcomes in memory for the /ops/kpi endpoint.
type Recorder struct {
	mu      sync.Mutex
	success uint64
	failure uint64
	invalid uint64
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) RecordSuccess() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.success++
}

func (r *Recorder) RecordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure++
}

func (r *Recorder) RecordInvalid() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invalid++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Snapshot{
		CommandSuccess: r.success,
		CommandFailure: r.failure,
		CommandInvalid: r.invalid,
		CommandTotal:   r.success + r.failure + r.invalid,
	}
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
