package action

import (
	"time"

	"roomverse/internal/app/command"
	"roomverse/internal/app/proximity"
	"roomverse/internal/domain/world"
)

type mutationKind int

const (
	mutMoveAgent mutationKind = iota
	mutPlaceObject
	mutAttach
	mutSetState
	mutDiscover
)

type mutation struct {
	kind     mutationKind
	agentID  string
	objectID string
	roomID   string
	holders  []string
	location world.Location
	key      string
	value    string
}

// WritePlan is the staged outcome of a successful Plan pass. The engine
// applies mutations in order against the live arena, then uses the moved
// sets to refresh the proximity cache.
type WritePlan struct {
	Mutations    []mutation
	Events       []world.Event
	MovedAgents  map[string]struct{}
	MovedObjects map[string]struct{}
	Message      string
}

func newWritePlan() *WritePlan {
	return &WritePlan{
		MovedAgents:  map[string]struct{}{},
		MovedObjects: map[string]struct{}{},
	}
}

func (p *WritePlan) moveAgent(agentID, roomID string) {
	p.Mutations = append(p.Mutations, mutation{kind: mutMoveAgent, agentID: agentID, roomID: roomID})
	p.MovedAgents[agentID] = struct{}{}
}

func (p *WritePlan) placeObject(objectID string, loc world.Location) {
	p.Mutations = append(p.Mutations, mutation{kind: mutPlaceObject, objectID: objectID, location: loc})
	p.MovedObjects[objectID] = struct{}{}
}

func (p *WritePlan) attach(objectID string, holders ...string) {
	p.Mutations = append(p.Mutations, mutation{kind: mutAttach, objectID: objectID, holders: holders})
	p.MovedObjects[objectID] = struct{}{}
}

func (p *WritePlan) setState(objectID, key, value string) {
	p.Mutations = append(p.Mutations, mutation{kind: mutSetState, objectID: objectID, key: key, value: value})
	p.MovedObjects[objectID] = struct{}{}
}

func (p *WritePlan) discover(objectID string) {
	p.Mutations = append(p.Mutations, mutation{kind: mutDiscover, objectID: objectID})
}

func (p *WritePlan) event(typ string, payload map[string]any) {
	p.Events = append(p.Events, world.Event{Type: typ, Payload: payload})
}

// ExecContext carries everything a handler may read while prechecking
// and planning a single invocation. Handlers never mutate State; they
// stage into Plan.
type ExecContext struct {
	Inv    command.Invocation
	Agents []*world.Agent
	Spec   Spec
	State  *world.State
	Prox   *proximity.Tracker
	Grants []string
	NowAt  time.Time
	Plan   *WritePlan
}

func (ec *ExecContext) agent() *world.Agent { return ec.Agents[0] }
