package action

import (
	"fmt"

	"roomverse/internal/domain/world"
)

type grabHandler struct{ BaseHandler }

func (grabHandler) Precheck(ec *ExecContext) error {
	if len(ec.Inv.Targets) != 1 {
		return invalidf("grab takes exactly one object, got %d targets", len(ec.Inv.Targets))
	}
	agent := ec.agent()
	obj, err := ec.State.Object(ec.Inv.Targets[0])
	if err != nil {
		return failf("no object named %s", ec.Inv.Targets[0])
	}
	if obj.Location.IsHeldBy(agent.ID) {
		return &OwnershipError{ObjectID: obj.ID, Detail: "already held by " + agent.ID}
	}
	if obj.Location.IsHeld() {
		return &OwnershipError{ObjectID: obj.ID, Detail: "held by another agent"}
	}
	if !ec.Prox.IsNear(agent.ID, obj.ID) {
		return &ProximityError{AgentID: agent.ID, TargetID: obj.ID}
	}
	if obj.NeedsJointCarry() {
		return failf("%s is too heavy for one agent, use CORP_GRAB", obj.ID)
	}
	if obj.IsContainer() && ec.State.ContainedCount(obj.ID) > 0 {
		return failf("%s is not empty and cannot be picked up", obj.ID)
	}
	if agent.MaxItems > 0 && len(agent.Inventory) >= agent.MaxItems {
		return &CapacityError{Subject: agent.ID, Detail: "inventory is full"}
	}
	if agent.MaxCarryWeight > 0 && ec.State.CarriedWeight(agent.ID)+obj.Weight > agent.MaxCarryWeight {
		return &CapacityError{Subject: agent.ID, Detail: fmt.Sprintf("cannot carry %s, weight limit exceeded", obj.ID)}
	}
	return nil
}

func (grabHandler) Plan(ec *ExecContext) error {
	agent := ec.agent()
	objectID := ec.Inv.Targets[0]
	ec.Plan.attach(objectID, agent.ID)
	ec.Plan.event("object_grabbed", map[string]any{
		"agent": agent.ID, "object": objectID,
	})
	ec.Plan.Message = fmt.Sprintf("%s picked up %s", agent.ID, objectID)
	return nil
}

// resolveHeldSolo checks that the agent is the sole holder of the object.
func resolveHeldSolo(ec *ExecContext, objectID string) (*world.Object, error) {
	agent := ec.agent()
	obj, err := ec.State.Object(objectID)
	if err != nil {
		return nil, failf("no object named %s", objectID)
	}
	if !obj.Location.IsHeldBy(agent.ID) {
		return nil, &OwnershipError{ObjectID: obj.ID, Detail: "not held by " + agent.ID}
	}
	if len(obj.Location.Holders) > 1 {
		return nil, &OwnershipError{ObjectID: obj.ID, Detail: "jointly held, use CORP_PLACE"}
	}
	return obj, nil
}
