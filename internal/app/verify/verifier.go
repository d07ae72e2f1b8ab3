package verify

import (
	"errors"

	"roomverse/internal/domain/task"
	"roomverse/internal/domain/world"
)

type Mode string

const (
	ModeDisabled   Mode = "disabled"
	ModeStepByStep Mode = "step_by_step"
	ModeGlobal     Mode = "global"
)

type SubtaskStatus string

const (
	StatusPending        SubtaskStatus = "PENDING"
	StatusCompleted      SubtaskStatus = "COMPLETED"
	StatusCannotEvaluate SubtaskStatus = "CANNOT_EVALUATE"
)

type SubtaskState struct {
	Subtask task.Subtask  `json:"subtask"`
	Status  SubtaskStatus `json:"status"`
	Detail  string        `json:"detail,omitempty"`
}

type Delta struct {
	SubtaskID string        `json:"subtask_id"`
	From      SubtaskStatus `json:"from"`
	To        SubtaskStatus `json:"to"`
}

// Verifier tracks subtask completion against the world. It only reads the
// arena; the sole state it owns is the per-subtask status. With Recheck
// disabled (the default) COMPLETED is sticky: a later action undoing the
// goal does not regress the subtask.
type Verifier struct {
	Mode    Mode
	Recheck bool

	subtasks []SubtaskState
}

func New(tk task.Task, mode Mode, recheck bool) *Verifier {
	states := make([]SubtaskState, 0, len(tk.Subtasks))
	for _, sub := range tk.Subtasks {
		states = append(states, SubtaskState{Subtask: sub, Status: StatusPending})
	}
	if mode == "" {
		mode = ModeDisabled
	}
	return &Verifier{Mode: mode, Recheck: recheck, subtasks: states}
}

// AfterAction runs one verification pass if the verifier is in
// step-by-step mode; otherwise it is a no-op.
func (v *Verifier) AfterAction(st *world.State) []Delta {
	if v.Mode != ModeStepByStep {
		return nil
	}
	return v.evaluate(st)
}

// EvaluateAll runs a full pass on explicit request (end of episode, status
// endpoint). A disabled verifier never runs, not even explicitly.
func (v *Verifier) EvaluateAll(st *world.State) []Delta {
	if v.Mode == ModeDisabled {
		return nil
	}
	return v.evaluate(st)
}

func (v *Verifier) Snapshot() []SubtaskState {
	out := make([]SubtaskState, len(v.subtasks))
	copy(out, v.subtasks)
	return out
}

func (v *Verifier) AllCompleted() bool {
	if len(v.subtasks) == 0 {
		return false
	}
	for _, s := range v.subtasks {
		if s.Status != StatusCompleted {
			return false
		}
	}
	return true
}

func (v *Verifier) evaluate(st *world.State) []Delta {
	var deltas []Delta
	for i := range v.subtasks {
		state := &v.subtasks[i]
		if state.Status == StatusCompleted && !v.Recheck {
			continue
		}
		prev := state.Status

		ok, err := task.Satisfied(st, state.Subtask)
		switch {
		case err != nil && errors.Is(err, task.ErrCannotEvaluate):
			state.Status = StatusCannotEvaluate
			state.Detail = err.Error()
		case ok:
			state.Status = StatusCompleted
			state.Detail = ""
		default:
			state.Status = StatusPending
			state.Detail = ""
		}

		if state.Status != prev {
			deltas = append(deltas, Delta{SubtaskID: state.Subtask.ID, From: prev, To: state.Status})
		}
	}
	return deltas
}
