package action

import "fmt"

type moveHandler struct{ BaseHandler }

func (moveHandler) Precheck(ec *ExecContext) error {
	if len(ec.Inv.Targets) != 1 {
		return invalidf("move takes exactly one room, got %d targets", len(ec.Inv.Targets))
	}
	agent := ec.agent()
	dest := ec.Inv.Targets[0]
	if dest == agent.Room {
		return nil
	}
	room, err := ec.State.Room(agent.Room)
	if err != nil {
		return failf("%v", err)
	}
	if _, err := ec.State.Room(dest); err != nil {
		return failf("no room named %s", dest)
	}
	if !room.ConnectedTo(dest) {
		return failf("%s is not connected to %s", dest, agent.Room)
	}
	for _, objectID := range agent.Inventory {
		obj, err := ec.State.Object(objectID)
		if err != nil {
			return failf("%v", err)
		}
		if len(obj.Location.Holders) > 1 {
			return &OwnershipError{ObjectID: objectID, Detail: "jointly held, the group must act together"}
		}
	}
	return nil
}

func (moveHandler) Plan(ec *ExecContext) error {
	agent := ec.agent()
	dest := ec.Inv.Targets[0]
	if dest == agent.Room {
		ec.Plan.Message = fmt.Sprintf("%s is already in %s", agent.ID, dest)
		return nil
	}
	ec.Plan.moveAgent(agent.ID, dest)
	ec.Plan.event("agent_moved", map[string]any{
		"agent": agent.ID, "from": agent.Room, "to": dest,
	})
	ec.Plan.Message = fmt.Sprintf("%s moved from %s to %s", agent.ID, agent.Room, dest)
	return nil
}
