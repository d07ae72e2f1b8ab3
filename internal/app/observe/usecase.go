package observe

import (
	"errors"
	"sort"
	"strings"

	"roomverse/internal/app/capability"
	"roomverse/internal/app/proximity"
	"roomverse/internal/domain/world"
)

var ErrInvalidRequest = errors.New("invalid observe request")

const historyLimit = 20

// UseCase renders one agent's current observation: room, inventory,
// nearby entities, abilities and recent history. Purely read-only over
// the shared arena; callers serialize with the engine.
type UseCase struct {
	State  *world.State
	Prox   *proximity.Tracker
	Grants []string
}

func (u UseCase) Execute(req Request) (Response, error) {
	if strings.TrimSpace(req.AgentID) == "" {
		return Response{}, ErrInvalidRequest
	}
	agent, err := u.State.Agent(req.AgentID)
	if err != nil {
		return Response{}, err
	}
	room, err := u.State.Room(agent.Room)
	if err != nil {
		return Response{}, err
	}

	abilities, err := capability.Abilities(u.State, u.Grants, agent.ID)
	if err != nil {
		return Response{}, err
	}
	tokens := make([]string, 0, len(abilities))
	for token := range abilities {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)

	inventory := make([]ObservedObject, 0, len(agent.Inventory))
	for _, id := range agent.Inventory {
		if view, ok := u.project(id, true); ok {
			inventory = append(inventory, view)
		}
	}

	nearObjects := []ObservedObject{}
	nearAgents := []string{}
	for _, id := range u.Prox.Near(agent.ID) {
		if _, err := u.State.Agent(id); err == nil {
			nearAgents = append(nearAgents, id)
			continue
		}
		if agent.Holds(id) {
			continue
		}
		if view, ok := u.project(id, false); ok {
			nearObjects = append(nearObjects, view)
		}
	}

	history := agent.History
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}

	return Response{
		AgentID: agent.ID,
		Room: RoomView{
			ID:         room.ID,
			Attributes: room.Attributes,
			Exits:      append([]string(nil), room.Connections...),
		},
		Inventory:  inventory,
		Near:       nearObjects,
		NearAgents: nearAgents,
		Abilities:  tokens,
		History:    history,
	}, nil
}

// project builds the object view. Undiscovered objects are skipped
// unless held; the agent always sees what is in its own hands.
func (u UseCase) project(objectID string, held bool) (ObservedObject, bool) {
	obj, err := u.State.Object(objectID)
	if err != nil {
		return ObservedObject{}, false
	}
	if !obj.Discovered && !held {
		return ObservedObject{}, false
	}
	view := ObservedObject{
		ID:                obj.ID,
		Type:              obj.Type,
		States:            obj.States,
		Weight:            obj.Weight,
		Capacity:          obj.Capacity,
		ProvidesAbilities: obj.ProvidesAbilities,
		Held:              held,
	}
	if obj.IsContainer() && (obj.IsOpen() || held) {
		for _, id := range u.State.ContainerContents(obj.ID) {
			if inner, err := u.State.Object(id); err == nil && (inner.Discovered || held) {
				view.Contents = append(view.Contents, inner.ID)
			}
		}
	}
	return view, true
}
