package action

import (
	"fmt"
	"strings"
)

type exploreHandler struct{ BaseHandler }

func (exploreHandler) Precheck(ec *ExecContext) error {
	if len(ec.Inv.Targets) != 0 {
		return invalidf("explore takes no targets")
	}
	return nil
}

func (exploreHandler) Plan(ec *ExecContext) error {
	agent := ec.agent()
	room, err := ec.State.Room(agent.Room)
	if err != nil {
		return failf("%v", err)
	}

	objectIDs, err := ec.State.ObjectsInRoom(room.ID)
	if err != nil {
		return failf("%v", err)
	}
	found := []string{}
	for _, id := range objectIDs {
		obj, err := ec.State.Object(id)
		if err != nil {
			return failf("%v", err)
		}
		if !obj.Discovered {
			ec.Plan.discover(obj.ID)
			found = append(found, obj.ID)
		}
	}
	if len(found) > 0 {
		ec.Plan.event("objects_discovered", map[string]any{
			"agent": agent.ID, "room": room.ID, "objects": found,
		})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s searched %s.", agent.ID, room.ID)
	if len(found) > 0 {
		fmt.Fprintf(&b, " Found: %s.", strings.Join(found, ", "))
	} else {
		b.WriteString(" Nothing new found.")
	}
	if len(room.Connections) > 0 {
		fmt.Fprintf(&b, " Exits: %s.", strings.Join(room.Connections, ", "))
	}
	ec.Plan.Message = b.String()
	return nil
}
