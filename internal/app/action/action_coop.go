package action

import (
	"fmt"
	"sort"
	"strings"

	"roomverse/internal/domain/world"
)

type corpGrabHandler struct{ BaseHandler }

// Precheck validates every named agent in lexicographic order. The checks
// are a conjunction, so the order only decides which failing agent is
// reported first.
func (corpGrabHandler) Precheck(ec *ExecContext) error {
	if len(ec.Inv.Targets) != 1 {
		return invalidf("corp_grab takes exactly one object, got %d targets", len(ec.Inv.Targets))
	}
	obj, err := ec.State.Object(ec.Inv.Targets[0])
	if err != nil {
		return failf("no object named %s", ec.Inv.Targets[0])
	}
	if obj.Location.IsHeld() {
		return &OwnershipError{ObjectID: obj.ID, Detail: "already held"}
	}
	if obj.IsContainer() && ec.State.ContainedCount(obj.ID) > 0 {
		return failf("%s is not empty and cannot be picked up", obj.ID)
	}
	share := obj.Weight / float64(len(ec.Agents))
	if obj.CarryThreshold > 0 && share > obj.CarryThreshold {
		return &CooperationError{ObjectID: obj.ID,
			Detail: fmt.Sprintf("too heavy even for %d agents", len(ec.Agents))}
	}
	for _, agent := range ec.Agents {
		if !ec.Prox.IsNear(agent.ID, obj.ID) {
			return &ProximityError{AgentID: agent.ID, TargetID: obj.ID}
		}
		if len(agent.Inventory) > 0 {
			return &CapacityError{Subject: agent.ID, Detail: "hands must be free for a joint lift"}
		}
		if agent.MaxCarryWeight > 0 && share > agent.MaxCarryWeight {
			return &CapacityError{Subject: agent.ID, Detail: fmt.Sprintf("cannot carry a share of %s", obj.ID)}
		}
	}
	return nil
}

func (corpGrabHandler) Plan(ec *ExecContext) error {
	objectID := ec.Inv.Targets[0]
	holders := agentIDs(ec.Agents)
	ec.Plan.attach(objectID, holders...)
	ec.Plan.event("object_grabbed_jointly", map[string]any{
		"agents": holders, "object": objectID,
	})
	ec.Plan.Message = fmt.Sprintf("%s lifted %s together", strings.Join(holders, " and "), objectID)
	return nil
}

type corpPlaceHandler struct{ BaseHandler }

func (corpPlaceHandler) Precheck(ec *ExecContext) error {
	if len(ec.Inv.Targets) != 1 {
		return invalidf("corp_place takes exactly one object, got %d targets", len(ec.Inv.Targets))
	}
	if ec.Inv.Preposition != "in" || ec.Inv.Destination == "" {
		return invalidf("corp_place needs a destination, use CORP_PLACE <agents> <object> IN <room>")
	}
	obj, err := ec.State.Object(ec.Inv.Targets[0])
	if err != nil {
		return failf("no object named %s", ec.Inv.Targets[0])
	}
	if !sameHolders(obj.Location, ec.Agents) {
		return &CooperationError{ObjectID: obj.ID, Detail: "not jointly held by exactly these agents"}
	}
	if _, err := ec.State.Room(ec.Inv.Destination); err != nil {
		return failf("no room named %s", ec.Inv.Destination)
	}
	here := ec.Agents[0].Room
	for _, agent := range ec.Agents {
		if agent.Room != here {
			return failf("agents holding %s are not in the same room", obj.ID)
		}
	}
	if ec.Inv.Destination != here {
		room, err := ec.State.Room(here)
		if err != nil {
			return failf("%v", err)
		}
		if !room.ConnectedTo(ec.Inv.Destination) {
			return failf("%s is not connected to %s", ec.Inv.Destination, here)
		}
	}
	return nil
}

func (corpPlaceHandler) Plan(ec *ExecContext) error {
	objectID := ec.Inv.Targets[0]
	holders := agentIDs(ec.Agents)
	ec.Plan.placeObject(objectID, world.RoomLocation(ec.Inv.Destination))
	ec.Plan.event("object_placed_jointly", map[string]any{
		"agents": holders, "object": objectID, "room": ec.Inv.Destination,
	})
	ec.Plan.Message = fmt.Sprintf("%s set %s down in %s", strings.Join(holders, " and "), objectID, ec.Inv.Destination)
	return nil
}

func agentIDs(agents []*world.Agent) []string {
	out := make([]string, 0, len(agents))
	for _, a := range agents {
		out = append(out, a.ID)
	}
	return out
}

func sameHolders(loc world.Location, agents []*world.Agent) bool {
	if loc.Kind != world.LocHeldBy || len(loc.Holders) != len(agents) {
		return false
	}
	ids := agentIDs(agents)
	sort.Strings(ids)
	for i, id := range ids {
		if loc.Holders[i] != id {
			return false
		}
	}
	return true
}
