package action

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCommand covers malformed syntax and references to actions
	// the issuing agents do not currently have registered. No state is
	// touched.
	ErrInvalidCommand = errors.New("invalid command")

	// ErrPreconditionFailed covers syntactically valid commands rejected
	// by a semantic precondition. No state is touched; the message names
	// the failing predicate.
	ErrPreconditionFailed = errors.New("action precondition failed")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidCommand}, args...)...)
}

func failf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrPreconditionFailed}, args...)...)
}

// ProximityError reports that an agent is not close enough to a target
// to interact with it.
type ProximityError struct {
	AgentID  string
	TargetID string
}

func (e *ProximityError) Error() string {
	return fmt.Sprintf("%s is not near %s", e.AgentID, e.TargetID)
}

func (e *ProximityError) Unwrap() error { return ErrPreconditionFailed }

// OwnershipError reports a holder mismatch: the target is held by
// someone else, or not held when the action requires it to be.
type OwnershipError struct {
	ObjectID string
	Detail   string
}

func (e *OwnershipError) Error() string {
	return fmt.Sprintf("%s: %s", e.ObjectID, e.Detail)
}

func (e *OwnershipError) Unwrap() error { return ErrPreconditionFailed }

// CapacityError reports an inventory or container bound that the action
// would exceed.
type CapacityError struct {
	Subject string
	Detail  string
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s: %s", e.Subject, e.Detail)
}

func (e *CapacityError) Unwrap() error { return ErrPreconditionFailed }

// AttributeError reports a state-attribute precondition, such as setting
// an attribute to the value it already has.
type AttributeError struct {
	ObjectID  string
	Attribute string
	Detail    string
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.ObjectID, e.Attribute, e.Detail)
}

func (e *AttributeError) Unwrap() error { return ErrPreconditionFailed }

// CooperationError reports a joint-action precondition that concerns the
// agent group as a whole rather than a single member.
type CooperationError struct {
	ObjectID string
	Detail   string
}

func (e *CooperationError) Error() string {
	return fmt.Sprintf("%s: %s", e.ObjectID, e.Detail)
}

func (e *CooperationError) Unwrap() error { return ErrPreconditionFailed }
