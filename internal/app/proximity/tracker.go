package proximity

import (
	"sort"

	"roomverse/internal/domain/world"
)

// Tracker keeps a per-agent near-set: the targets an agent may interact
// with without moving first. The sets are a derived cache over the world
// arena, refreshed by the engine on movement and ownership changes; the
// arena itself stays the source of truth.
type Tracker struct {
	// ExposeOpenContainers makes the contents of an open container near
	// every agent in the container's room, not just its holder.
	ExposeOpenContainers bool

	near map[string]map[string]struct{}
}

func NewTracker(exposeOpenContainers bool) *Tracker {
	return &Tracker{
		ExposeOpenContainers: exposeOpenContainers,
		near:                 map[string]map[string]struct{}{},
	}
}

// Init recomputes every agent's near-set. Called once at scenario load.
func (t *Tracker) Init(st *world.State) error {
	for _, agentID := range st.AgentIDs() {
		if err := t.recompute(st, agentID); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tracker) IsNear(agentID, targetID string) bool {
	set, ok := t.near[agentID]
	if !ok {
		return false
	}
	_, ok = set[targetID]
	return ok
}

// Near returns the agent's near-set, sorted, for observation rendering.
func (t *Tracker) Near(agentID string) []string {
	set := t.near[agentID]
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// UpdateOnMove refreshes the moving agent's near-set from its new room and
// fixes the mover's presence in every other agent's set. Called after the
// arena has committed the move.
func (t *Tracker) UpdateOnMove(st *world.State, agentID, newRoom string) error {
	if err := t.recompute(st, agentID); err != nil {
		return err
	}
	roomAgents, err := st.AgentsInRoom(newRoom)
	if err != nil {
		return err
	}
	inRoom := map[string]struct{}{}
	for _, id := range roomAgents {
		inRoom[id] = struct{}{}
	}
	for other, set := range t.near {
		if other == agentID {
			continue
		}
		if _, ok := inRoom[other]; ok {
			set[agentID] = struct{}{}
		} else {
			delete(set, agentID)
		}
	}
	// Objects carried along by the mover.
	mover, err := st.Agent(agentID)
	if err != nil {
		return err
	}
	for _, objectID := range mover.Inventory {
		if err := t.UpdateOnObjectMove(st, objectID); err != nil {
			return err
		}
	}
	return nil
}

// UpdateOnOwnershipChange point-updates near-sets after a grab or drop.
// The held flag reports the post-commit state; the object's committed
// location decides visibility, so the flag only disambiguates logging
// call sites.
func (t *Tracker) UpdateOnOwnershipChange(st *world.State, agentID, objectID string, held bool) error {
	_ = agentID
	_ = held
	return t.UpdateOnObjectMove(st, objectID)
}

// UpdateOnObjectMove re-derives, for one relocated object and everything
// nested in it, which agents are near it. Point update: no agent's full
// near-set is rebuilt.
func (t *Tracker) UpdateOnObjectMove(st *world.State, objectID string) error {
	ids := append([]string{objectID}, t.transitiveContents(st, objectID)...)
	for _, agentID := range st.AgentIDs() {
		agent, err := st.Agent(agentID)
		if err != nil {
			return err
		}
		set := t.ensure(agentID)
		for _, id := range ids {
			obj, err := st.Object(id)
			if err != nil {
				return err
			}
			visible, err := t.objectNear(st, agent, obj)
			if err != nil {
				return err
			}
			if visible {
				set[id] = struct{}{}
			} else {
				delete(set, id)
			}
		}
	}
	return nil
}

func (t *Tracker) recompute(st *world.State, agentID string) error {
	agent, err := st.Agent(agentID)
	if err != nil {
		return err
	}
	set := map[string]struct{}{}

	for _, id := range st.ObjectIDs() {
		obj, err := st.Object(id)
		if err != nil {
			return err
		}
		visible, err := t.objectNear(st, agent, obj)
		if err != nil {
			return err
		}
		if visible {
			set[id] = struct{}{}
		}
	}

	others, err := st.AgentsInRoom(agent.Room)
	if err != nil {
		return err
	}
	for _, id := range others {
		if id != agentID {
			set[id] = struct{}{}
		}
	}

	t.near[agentID] = set
	return nil
}

// objectNear walks the object's location chain. Rules: an object directly
// in a room is near everyone in that room; a held object is near its
// holders only; contents of a held container are near the holder
// unconditionally, and near co-located agents only when every enclosing
// container is open and exposure is configured.
func (t *Tracker) objectNear(st *world.State, agent *world.Agent, obj *world.Object) (bool, error) {
	cur := obj
	chainOpen := true
	for {
		switch cur.Location.Kind {
		case world.LocInRoom:
			if cur.ID == obj.ID {
				return agent.Room == cur.Location.Ref, nil
			}
			return agent.Room == cur.Location.Ref && t.ExposeOpenContainers && chainOpen, nil

		case world.LocHeldBy:
			if cur.ID == obj.ID {
				return cur.Location.IsHeldBy(agent.ID), nil
			}
			if cur.Location.IsHeldBy(agent.ID) {
				return true, nil
			}
			holder, err := st.Agent(cur.Location.Holders[0])
			if err != nil {
				return false, err
			}
			return holder.Room == agent.Room && t.ExposeOpenContainers && chainOpen, nil

		case world.LocInside, world.LocOnTop:
			parent, err := st.Object(cur.Location.Ref)
			if err != nil {
				return false, err
			}
			if cur.Location.Kind == world.LocInside && !parent.IsOpen() {
				chainOpen = false
			}
			cur = parent

		default:
			return false, nil
		}
	}
}

func (t *Tracker) transitiveContents(st *world.State, objectID string) []string {
	var out []string
	queue := []string{objectID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, c := range st.ContainerContents(id) {
			out = append(out, c)
			queue = append(queue, c)
		}
	}
	return out
}

func (t *Tracker) ensure(agentID string) map[string]struct{} {
	set, ok := t.near[agentID]
	if !ok {
		set = map[string]struct{}{}
		t.near[agentID] = set
	}
	return set
}
