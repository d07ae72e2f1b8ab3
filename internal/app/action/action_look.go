package action

import (
	"fmt"
	"strings"
)

type lookHandler struct{ BaseHandler }

func (lookHandler) Precheck(ec *ExecContext) error {
	if len(ec.Inv.Targets) != 0 {
		return invalidf("look takes no targets")
	}
	return nil
}

func (lookHandler) Plan(ec *ExecContext) error {
	agent := ec.agent()
	room, err := ec.State.Room(agent.Room)
	if err != nil {
		return failf("%v", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s is in %s.", agent.ID, room.ID)
	if len(room.Connections) > 0 {
		fmt.Fprintf(&b, " Exits: %s.", strings.Join(room.Connections, ", "))
	}

	objectIDs, err := ec.State.ObjectsInRoom(room.ID)
	if err != nil {
		return failf("%v", err)
	}
	visible := make([]string, 0, len(objectIDs))
	for _, id := range objectIDs {
		obj, err := ec.State.Object(id)
		if err != nil {
			return failf("%v", err)
		}
		if !obj.Discovered {
			continue
		}
		visible = append(visible, describeObject(ec, obj.ID))
	}
	if len(visible) > 0 {
		fmt.Fprintf(&b, " Objects: %s.", strings.Join(visible, ", "))
	}

	agentIDs, err := ec.State.AgentsInRoom(room.ID)
	if err != nil {
		return failf("%v", err)
	}
	others := make([]string, 0, len(agentIDs))
	for _, id := range agentIDs {
		if id != agent.ID {
			others = append(others, id)
		}
	}
	if len(others) > 0 {
		fmt.Fprintf(&b, " Agents: %s.", strings.Join(others, ", "))
	}

	ec.Plan.Message = b.String()
	return nil
}

// describeObject renders one object for room listings, folding in its
// open state and, for open containers, the discovered contents.
func describeObject(ec *ExecContext, objectID string) string {
	obj, err := ec.State.Object(objectID)
	if err != nil {
		return objectID
	}
	if !obj.IsContainer() {
		if v := obj.State("open"); v == "true" || v == "false" {
			return fmt.Sprintf("%s (%s)", obj.ID, openWord(obj.IsOpen()))
		}
		return obj.ID
	}
	if !obj.IsOpen() {
		return fmt.Sprintf("%s (closed)", obj.ID)
	}
	contents := []string{}
	for _, id := range ec.State.ContainerContents(obj.ID) {
		if inner, err := ec.State.Object(id); err == nil && inner.Discovered {
			contents = append(contents, inner.ID)
		}
	}
	if len(contents) == 0 {
		return fmt.Sprintf("%s (open, empty)", obj.ID)
	}
	return fmt.Sprintf("%s (open, holding %s)", obj.ID, strings.Join(contents, ", "))
}

func openWord(open bool) string {
	if open {
		return "open"
	}
	return "closed"
}
