package action

import (
	"fmt"

	"roomverse/internal/domain/world"
)

type placeHandler struct{ BaseHandler }

func (placeHandler) Precheck(ec *ExecContext) error {
	if len(ec.Inv.Targets) != 1 {
		return invalidf("place takes exactly one object, got %d targets", len(ec.Inv.Targets))
	}
	if _, err := resolveHeldSolo(ec, ec.Inv.Targets[0]); err != nil {
		return err
	}
	if ec.Inv.Preposition == "" {
		return nil
	}
	agent := ec.agent()
	target, err := ec.State.Object(ec.Inv.Destination)
	if err != nil {
		return failf("no object named %s", ec.Inv.Destination)
	}
	if !ec.Prox.IsNear(agent.ID, target.ID) {
		return &ProximityError{AgentID: agent.ID, TargetID: target.ID}
	}
	if ec.Inv.Preposition == "in" {
		if !target.IsContainer() {
			return failf("%s is not a container", target.ID)
		}
		if target.State("open") == "false" {
			return failf("%s is closed", target.ID)
		}
		if ec.State.ContainedCount(target.ID) >= target.Capacity {
			return &CapacityError{Subject: target.ID, Detail: "container is full"}
		}
	}
	return nil
}

func (placeHandler) Plan(ec *ExecContext) error {
	agent := ec.agent()
	objectID := ec.Inv.Targets[0]

	var to world.Location
	var where string
	switch ec.Inv.Preposition {
	case "in":
		to = world.InsideLocation(ec.Inv.Destination)
		where = "in " + ec.Inv.Destination
	case "on":
		to = world.OnTopLocation(ec.Inv.Destination)
		where = "on " + ec.Inv.Destination
	default:
		to = world.RoomLocation(agent.Room)
		where = "in " + agent.Room
	}

	ec.Plan.placeObject(objectID, to)
	ec.Plan.event("object_placed", map[string]any{
		"agent": agent.ID, "object": objectID, "location": where,
	})
	ec.Plan.Message = fmt.Sprintf("%s placed %s %s", agent.ID, objectID, where)
	return nil
}
