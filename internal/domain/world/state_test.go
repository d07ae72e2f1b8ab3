package world

import (
	"errors"
	"testing"
)

func newTestState(t *testing.T) *State {
	t.Helper()
	s := NewState()
	mustAddRoom(t, s, "kitchen")
	mustAddRoom(t, s, "pantry")
	if err := s.ConnectRooms("kitchen", "pantry"); err != nil {
		t.Fatalf("connect rooms: %v", err)
	}
	return s
}

func mustAddRoom(t *testing.T, s *State, id string) {
	t.Helper()
	if err := s.AddRoom(&Room{ID: id}); err != nil {
		t.Fatalf("add room %s: %v", id, err)
	}
}

func mustAddObject(t *testing.T, s *State, o *Object) {
	t.Helper()
	if err := s.AddObject(o); err != nil {
		t.Fatalf("add object %s: %v", o.ID, err)
	}
}

func mustAddAgent(t *testing.T, s *State, a *Agent) {
	t.Helper()
	if err := s.AddAgent(a); err != nil {
		t.Fatalf("add agent %s: %v", a.ID, err)
	}
}

func TestState_RejectsContainmentCycle(t *testing.T) {
	s := newTestState(t)
	mustAddObject(t, s, &Object{ID: "box_a", Type: "box", Capacity: 2, Location: RoomLocation("kitchen")})
	mustAddObject(t, s, &Object{ID: "box_b", Type: "box", Capacity: 2, Location: InsideLocation("box_a")})

	err := s.PlaceObject("box_a", InsideLocation("box_b"))
	if !errors.Is(err, ErrInvariant) {
		t.Fatalf("expected ErrInvariant for cycle, got %v", err)
	}
	obj, _ := s.Object("box_a")
	if obj.Location.Kind != LocInRoom || obj.Location.Ref != "kitchen" {
		t.Fatalf("box_a location mutated on rejected placement: %+v", obj.Location)
	}
}

func TestState_NonEmptyContainerCannotBeHeld(t *testing.T) {
	s := newTestState(t)
	mustAddAgent(t, s, &Agent{ID: "a1", Room: "kitchen"})
	mustAddObject(t, s, &Object{ID: "drawer", Type: "drawer", Capacity: 4, Location: RoomLocation("kitchen")})
	mustAddObject(t, s, &Object{ID: "spoon", Type: "tool", Location: InsideLocation("drawer")})

	if err := s.AttachToAgent("drawer", "a1"); !errors.Is(err, ErrInvariant) {
		t.Fatalf("expected ErrInvariant, got %v", err)
	}

	if err := s.PlaceObject("spoon", RoomLocation("kitchen")); err != nil {
		t.Fatalf("empty the drawer: %v", err)
	}
	if err := s.AttachToAgent("drawer", "a1"); err != nil {
		t.Fatalf("empty container should be liftable: %v", err)
	}
}

func TestState_RoomOfWalksLocationChain(t *testing.T) {
	s := newTestState(t)
	mustAddAgent(t, s, &Agent{ID: "a1", Room: "kitchen"})
	mustAddObject(t, s, &Object{ID: "pouch", Type: "pouch", Capacity: 2, Location: RoomLocation("kitchen")})
	mustAddObject(t, s, &Object{ID: "coin", Type: "coin", Location: RoomLocation("kitchen")})

	if err := s.AttachToAgent("pouch", "a1"); err != nil {
		t.Fatalf("grab pouch: %v", err)
	}
	if err := s.PlaceObject("coin", InsideLocation("pouch")); err != nil {
		t.Fatalf("stash coin: %v", err)
	}
	// coin rides along inside the held pouch; its room follows the holder.
	if err := s.MoveAgent("a1", "pantry"); err != nil {
		t.Fatalf("move: %v", err)
	}
	room, err := s.RoomOf("coin")
	if err != nil {
		t.Fatalf("room of coin: %v", err)
	}
	if room != "pantry" {
		t.Fatalf("expected coin in pantry, got %s", room)
	}
}

func TestState_InventoryBounds(t *testing.T) {
	s := newTestState(t)
	mustAddAgent(t, s, &Agent{ID: "a1", Room: "kitchen", MaxItems: 1, MaxCarryWeight: 10})
	mustAddObject(t, s, &Object{ID: "knife", Type: "tool", Weight: 1, Location: RoomLocation("kitchen")})
	mustAddObject(t, s, &Object{ID: "pan", Type: "tool", Weight: 1, Location: RoomLocation("kitchen")})
	mustAddObject(t, s, &Object{ID: "anvil", Type: "tool", Weight: 50, Location: RoomLocation("kitchen")})

	if err := s.AttachToAgent("knife", "a1"); err != nil {
		t.Fatalf("grab knife: %v", err)
	}
	if err := s.AttachToAgent("pan", "a1"); !errors.Is(err, ErrInvariant) {
		t.Fatalf("expected item-count rejection, got %v", err)
	}

	if err := s.DetachFromAgent("knife", RoomLocation("kitchen")); err != nil {
		t.Fatalf("drop knife: %v", err)
	}
	if err := s.AttachToAgent("anvil", "a1"); !errors.Is(err, ErrInvariant) {
		t.Fatalf("expected weight rejection, got %v", err)
	}
}

func TestState_InventoryBoundsHoldAtLoad(t *testing.T) {
	s := newTestState(t)
	mustAddAgent(t, s, &Agent{ID: "a1", Room: "kitchen", MaxItems: 1, MaxCarryWeight: 1})

	err := s.AddObject(&Object{ID: "o1", Type: "tool", Weight: 5, Location: HeldLocation("a1")})
	if !errors.Is(err, ErrInvariant) {
		t.Fatalf("expected weight rejection for initially held object, got %v", err)
	}
	if _, err := s.Object("o1"); err == nil {
		t.Fatal("rejected object must not stay registered")
	}

	mustAddObject(t, s, &Object{ID: "o2", Type: "tool", Weight: 1, Location: HeldLocation("a1")})
	err = s.AddObject(&Object{ID: "o3", Type: "tool", Weight: 1, Location: HeldLocation("a1")})
	if !errors.Is(err, ErrInvariant) {
		t.Fatalf("expected item-count rejection for initially held object, got %v", err)
	}
	a1, _ := s.Agent("a1")
	if len(a1.Inventory) != 1 || a1.Inventory[0] != "o2" {
		t.Fatalf("inventory = %v, want [o2]", a1.Inventory)
	}
}

func TestState_JointHoldSplitsWeight(t *testing.T) {
	s := newTestState(t)
	mustAddAgent(t, s, &Agent{ID: "a1", Room: "kitchen", MaxCarryWeight: 10})
	mustAddAgent(t, s, &Agent{ID: "a2", Room: "kitchen", MaxCarryWeight: 10})
	mustAddObject(t, s, &Object{ID: "heavy_box", Type: "box", Weight: 16, CarryThreshold: 10, Location: RoomLocation("kitchen")})

	if err := s.AttachToAgent("heavy_box", "a1", "a2"); err != nil {
		t.Fatalf("joint grab: %v", err)
	}
	if got := s.CarriedWeight("a1"); got != 8 {
		t.Fatalf("expected split weight 8, got %v", got)
	}
	a2, _ := s.Agent("a2")
	if !a2.Holds("heavy_box") {
		t.Fatalf("a2 should hold heavy_box")
	}

	if err := s.DetachFromAgent("heavy_box", RoomLocation("pantry")); err != nil {
		t.Fatalf("joint place: %v", err)
	}
	a1, _ := s.Agent("a1")
	if a1.Holds("heavy_box") || a2.Holds("heavy_box") {
		t.Fatalf("joint hold not released")
	}
	room, err := s.RoomOf("heavy_box")
	if err != nil || room != "pantry" {
		t.Fatalf("expected heavy_box in pantry, got %s err=%v", room, err)
	}
}

func TestState_MoveAgentUpdatesRoomSets(t *testing.T) {
	s := newTestState(t)
	mustAddAgent(t, s, &Agent{ID: "a1", Room: "kitchen"})

	if err := s.MoveAgent("a1", "pantry"); err != nil {
		t.Fatalf("move: %v", err)
	}
	kitchenAgents, _ := s.AgentsInRoom("kitchen")
	pantryAgents, _ := s.AgentsInRoom("pantry")
	if len(kitchenAgents) != 0 || len(pantryAgents) != 1 || pantryAgents[0] != "a1" {
		t.Fatalf("room agent sets wrong: kitchen=%v pantry=%v", kitchenAgents, pantryAgents)
	}

	if err := s.MoveAgent("a1", "nowhere"); !errors.Is(err, ErrUnknownRoom) {
		t.Fatalf("expected ErrUnknownRoom, got %v", err)
	}
}

func TestState_DuplicateIDsRejected(t *testing.T) {
	s := newTestState(t)
	mustAddObject(t, s, &Object{ID: "knife", Type: "tool", Location: RoomLocation("kitchen")})
	if err := s.AddObject(&Object{ID: "knife", Type: "tool", Location: RoomLocation("kitchen")}); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if err := s.AddAgent(&Agent{ID: "kitchen", Room: "kitchen"}); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID across entity kinds, got %v", err)
	}
}

func TestState_ContainerCapacity(t *testing.T) {
	s := newTestState(t)
	mustAddObject(t, s, &Object{ID: "jar", Type: "jar", Capacity: 1, Location: RoomLocation("kitchen")})
	mustAddObject(t, s, &Object{ID: "nut", Type: "food", Location: InsideLocation("jar")})
	mustAddObject(t, s, &Object{ID: "bolt", Type: "part", Location: RoomLocation("kitchen")})

	if err := s.PlaceObject("bolt", InsideLocation("jar")); !errors.Is(err, ErrInvariant) {
		t.Fatalf("expected capacity rejection, got %v", err)
	}
}
