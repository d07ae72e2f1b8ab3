package world

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnknownRoom   = errors.New("unknown room")
	ErrUnknownObject = errors.New("unknown object")
	ErrUnknownAgent  = errors.New("unknown agent")
	ErrDuplicateID   = errors.New("duplicate entity id")
	ErrInvariant     = errors.New("world invariant violated")
)

// State is the arena of all rooms, objects and agents. It is exclusively
// owned by one engine instance; mutations validate every invariant before
// touching anything, so a rejected mutation leaves the arena unchanged.
type State struct {
	rooms   map[string]*Room
	objects map[string]*Object
	agents  map[string]*Agent
}

func NewState() *State {
	return &State{
		rooms:   map[string]*Room{},
		objects: map[string]*Object{},
		agents:  map[string]*Agent{},
	}
}

func (s *State) Room(id string) (*Room, error) {
	r, ok := s.rooms[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRoom, id)
	}
	return r, nil
}

func (s *State) Object(id string) (*Object, error) {
	o, ok := s.objects[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownObject, id)
	}
	return o, nil
}

func (s *State) Agent(id string) (*Agent, error) {
	a, ok := s.agents[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAgent, id)
	}
	return a, nil
}

func (s *State) HasEntity(id string) bool {
	if _, ok := s.rooms[id]; ok {
		return true
	}
	if _, ok := s.objects[id]; ok {
		return true
	}
	_, ok := s.agents[id]
	return ok
}

func (s *State) RoomIDs() []string   { return sortedKeysRoom(s.rooms) }
func (s *State) ObjectIDs() []string { return sortedKeysObject(s.objects) }
func (s *State) AgentIDs() []string  { return sortedKeysAgent(s.agents) }

func (s *State) AddRoom(r *Room) error {
	if r == nil || r.ID == "" {
		return fmt.Errorf("%w: empty room id", ErrInvariant)
	}
	if s.HasEntity(r.ID) {
		return fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
	}
	if r.ObjectIDs == nil {
		r.ObjectIDs = map[string]struct{}{}
	}
	if r.AgentIDs == nil {
		r.AgentIDs = map[string]struct{}{}
	}
	s.rooms[r.ID] = r
	return nil
}

func (s *State) ConnectRooms(a, b string) error {
	ra, err := s.Room(a)
	if err != nil {
		return err
	}
	rb, err := s.Room(b)
	if err != nil {
		return err
	}
	if !ra.ConnectedTo(b) {
		ra.Connections = append(ra.Connections, b)
	}
	if !rb.ConnectedTo(a) {
		rb.Connections = append(rb.Connections, a)
	}
	return nil
}

func (s *State) AddAgent(a *Agent) error {
	if a == nil || a.ID == "" {
		return fmt.Errorf("%w: empty agent id", ErrInvariant)
	}
	if s.HasEntity(a.ID) {
		return fmt.Errorf("%w: %s", ErrDuplicateID, a.ID)
	}
	room, err := s.Room(a.Room)
	if err != nil {
		return err
	}
	s.agents[a.ID] = a
	room.AgentIDs[a.ID] = struct{}{}
	return nil
}

func (s *State) AddObject(o *Object) error {
	if o == nil || o.ID == "" {
		return fmt.Errorf("%w: empty object id", ErrInvariant)
	}
	if s.HasEntity(o.ID) {
		return fmt.Errorf("%w: %s", ErrDuplicateID, o.ID)
	}
	s.objects[o.ID] = o
	// Validate against a blank prior location: a held destination must
	// pass the full inventory checks, not the already-holding exemption.
	to := o.Location
	o.Location = Location{}
	if err := s.validateDestination(o, to); err != nil {
		delete(s.objects, o.ID)
		o.Location = to
		return err
	}
	s.insertAt(o, to)
	return nil
}

// ObjectsInRoom lists objects directly located in the room, sorted.
func (s *State) ObjectsInRoom(roomID string) ([]string, error) {
	r, err := s.Room(roomID)
	if err != nil {
		return nil, err
	}
	return sortedSet(r.ObjectIDs), nil
}

func (s *State) AgentsInRoom(roomID string) ([]string, error) {
	r, err := s.Room(roomID)
	if err != nil {
		return nil, err
	}
	return sortedSet(r.AgentIDs), nil
}

// ContainerContents lists objects directly inside or on top of the target.
func (s *State) ContainerContents(objectID string) []string {
	out := []string{}
	for id, o := range s.objects {
		if (o.Location.Kind == LocInside || o.Location.Kind == LocOnTop) && o.Location.Ref == objectID {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func (s *State) ContainedCount(objectID string) int {
	n := 0
	for _, o := range s.objects {
		if o.Location.Kind == LocInside && o.Location.Ref == objectID {
			n++
		}
	}
	return n
}

// RoomOf resolves the room an object ultimately sits in by walking its
// location chain. The chain is acyclic by construction; the visited guard
// turns a corrupted arena into an error instead of a hang.
func (s *State) RoomOf(objectID string) (string, error) {
	visited := map[string]bool{}
	id := objectID
	for {
		if visited[id] {
			return "", fmt.Errorf("%w: containment cycle at %s", ErrInvariant, id)
		}
		visited[id] = true
		o, err := s.Object(id)
		if err != nil {
			return "", err
		}
		switch o.Location.Kind {
		case LocInRoom:
			return o.Location.Ref, nil
		case LocHeldBy:
			holder, err := s.Agent(o.Location.Holders[0])
			if err != nil {
				return "", err
			}
			return holder.Room, nil
		case LocInside, LocOnTop:
			id = o.Location.Ref
		default:
			return "", fmt.Errorf("%w: object %s has no location", ErrInvariant, id)
		}
	}
}

// CarriedWeight sums the weight of everything an agent holds. A jointly
// held object counts an equal share against each holder.
func (s *State) CarriedWeight(agentID string) float64 {
	a, ok := s.agents[agentID]
	if !ok {
		return 0
	}
	total := 0.0
	for _, id := range a.Inventory {
		o, ok := s.objects[id]
		if !ok {
			continue
		}
		total += o.Weight / float64(len(o.Location.Holders))
	}
	return total
}

func (s *State) MoveAgent(agentID, roomID string) error {
	a, err := s.Agent(agentID)
	if err != nil {
		return err
	}
	dst, err := s.Room(roomID)
	if err != nil {
		return err
	}
	if a.Room == roomID {
		return nil
	}
	src, err := s.Room(a.Room)
	if err != nil {
		return err
	}
	delete(src.AgentIDs, agentID)
	dst.AgentIDs[agentID] = struct{}{}
	a.Room = roomID
	return nil
}

// PlaceObject moves an object to a new location, validating every
// invariant first. It is the single mutation path for object locations.
func (s *State) PlaceObject(objectID string, to Location) error {
	o, err := s.Object(objectID)
	if err != nil {
		return err
	}
	if err := s.validateDestination(o, to); err != nil {
		return err
	}
	s.removeFromLocation(o)
	s.insertAt(o, to)
	return nil
}

func (s *State) AttachToAgent(objectID string, agentIDs ...string) error {
	return s.PlaceObject(objectID, HeldLocation(agentIDs...))
}

func (s *State) DetachFromAgent(objectID string, to Location) error {
	o, err := s.Object(objectID)
	if err != nil {
		return err
	}
	if o.Location.Kind != LocHeldBy {
		return fmt.Errorf("%w: %s is not held", ErrInvariant, objectID)
	}
	return s.PlaceObject(objectID, to)
}

func (s *State) SetObjectState(objectID, attr, value string) error {
	o, err := s.Object(objectID)
	if err != nil {
		return err
	}
	if o.States == nil {
		o.States = map[string]string{}
	}
	o.States[attr] = value
	return nil
}

func (s *State) validateDestination(o *Object, to Location) error {
	switch to.Kind {
	case LocInRoom:
		if _, err := s.Room(to.Ref); err != nil {
			return err
		}
	case LocHeldBy:
		if len(to.Holders) == 0 {
			return fmt.Errorf("%w: held location without holders", ErrInvariant)
		}
		if o.IsContainer() && s.ContainedCount(o.ID) > 0 {
			return fmt.Errorf("%w: non-empty container %s cannot be held", ErrInvariant, o.ID)
		}
		share := o.Weight / float64(len(to.Holders))
		for _, agentID := range to.Holders {
			a, err := s.Agent(agentID)
			if err != nil {
				return err
			}
			if o.Location.IsHeldBy(agentID) {
				continue
			}
			if a.MaxItems > 0 && len(a.Inventory) >= a.MaxItems {
				return fmt.Errorf("%w: inventory of %s is full", ErrInvariant, agentID)
			}
			if a.MaxCarryWeight > 0 && s.CarriedWeight(agentID)+share > a.MaxCarryWeight {
				return fmt.Errorf("%w: %s cannot carry more weight", ErrInvariant, agentID)
			}
		}
	case LocInside, LocOnTop:
		target, err := s.Object(to.Ref)
		if err != nil {
			return err
		}
		if target.ID == o.ID {
			return fmt.Errorf("%w: %s cannot contain itself", ErrInvariant, o.ID)
		}
		if to.Kind == LocInside {
			if !target.IsContainer() {
				return fmt.Errorf("%w: %s is not a container", ErrInvariant, target.ID)
			}
			if s.ContainedCount(target.ID) >= target.Capacity && !(o.Location.Kind == LocInside && o.Location.Ref == target.ID) {
				return fmt.Errorf("%w: container %s is full", ErrInvariant, target.ID)
			}
		}
		if s.wouldCycle(o.ID, target.ID) {
			return fmt.Errorf("%w: placing %s would create a containment cycle", ErrInvariant, o.ID)
		}
	default:
		return fmt.Errorf("%w: unknown location kind %q", ErrInvariant, to.Kind)
	}
	return nil
}

// wouldCycle reports whether target sits (transitively) inside moved.
func (s *State) wouldCycle(movedID, targetID string) bool {
	id := targetID
	for {
		if id == movedID {
			return true
		}
		o, ok := s.objects[id]
		if !ok {
			return false
		}
		if o.Location.Kind != LocInside && o.Location.Kind != LocOnTop {
			return false
		}
		id = o.Location.Ref
	}
}

func (s *State) removeFromLocation(o *Object) {
	switch o.Location.Kind {
	case LocInRoom:
		if r, ok := s.rooms[o.Location.Ref]; ok {
			delete(r.ObjectIDs, o.ID)
		}
	case LocHeldBy:
		for _, agentID := range o.Location.Holders {
			if a, ok := s.agents[agentID]; ok {
				a.Inventory = removeID(a.Inventory, o.ID)
			}
		}
	}
	o.Location = Location{}
}

func (s *State) insertAt(o *Object, to Location) {
	switch to.Kind {
	case LocInRoom:
		s.rooms[to.Ref].ObjectIDs[o.ID] = struct{}{}
	case LocHeldBy:
		for _, agentID := range to.Holders {
			a := s.agents[agentID]
			if !a.Holds(o.ID) {
				a.Inventory = append(a.Inventory, o.ID)
			}
		}
	}
	o.Location = to
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func sortedKeysRoom(m map[string]*Room) []string {
	out := make([]string, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func sortedKeysObject(m map[string]*Object) []string {
	out := make([]string, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func sortedKeysAgent(m map[string]*Agent) []string {
	out := make([]string, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
