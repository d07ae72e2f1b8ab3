package task

import (
	"errors"
	"fmt"

	"roomverse/internal/domain/world"
)

var ErrCannotEvaluate = errors.New("goal check cannot be evaluated")

// Evaluate runs one goal check against the world. It is read-only. A check
// referencing a missing entity returns ErrCannotEvaluate instead of a
// verdict.
func Evaluate(st *world.State, c GoalCheck) (bool, error) {
	switch c.Kind {
	case CheckAttributeEquals:
		obj, err := st.Object(c.Target)
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrCannotEvaluate, err)
		}
		return obj.State(c.Attribute) == c.Value, nil

	case CheckLocatedIn:
		if agent, err := st.Agent(c.Target); err == nil {
			return agent.Room == c.Where, nil
		}
		obj, err := st.Object(c.Target)
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrCannotEvaluate, err)
		}
		if (obj.Location.Kind == world.LocInside || obj.Location.Kind == world.LocOnTop) && obj.Location.Ref == c.Where {
			return true, nil
		}
		room, err := st.RoomOf(c.Target)
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrCannotEvaluate, err)
		}
		return room == c.Where, nil

	case CheckHeldBy:
		obj, err := st.Object(c.Target)
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrCannotEvaluate, err)
		}
		if _, err := st.Agent(c.Holder); err != nil {
			return false, fmt.Errorf("%w: %v", ErrCannotEvaluate, err)
		}
		return obj.Location.IsHeldBy(c.Holder), nil

	default:
		return false, fmt.Errorf("%w: unknown check kind %q", ErrCannotEvaluate, c.Kind)
	}
}

// Satisfied evaluates a whole subtask under its completion mode.
func Satisfied(st *world.State, sub Subtask) (bool, error) {
	if len(sub.Checks) == 0 {
		return false, fmt.Errorf("%w: subtask %s has no checks", ErrCannotEvaluate, sub.ID)
	}
	mode := sub.Mode
	if mode == "" {
		mode = ModeAllChecks
	}
	anyHolds := false
	for _, c := range sub.Checks {
		ok, err := Evaluate(st, c)
		if err != nil {
			return false, err
		}
		if ok {
			anyHolds = true
		} else if mode == ModeAllChecks {
			return false, nil
		}
	}
	if mode == ModeAnyCheck {
		return anyHolds, nil
	}
	return true, nil
}
