package scenario

import (
	"path/filepath"
	"strings"
	"testing"

	"roomverse/internal/app/verify"
	"roomverse/internal/domain/world"
)

const kitchenYAML = `
episode_id: ep-kitchen
options:
  verification: step_by_step
rooms:
  - id: kitchen
    connections: [pantry]
  - id: pantry
objects:
  - id: drawer
    type: container
    location: {kind: in_room, ref: kitchen}
    states: {open: "false"}
    weight: 8
    capacity: 2
  - id: knife
    type: tool
    location: {kind: inside, ref: drawer}
    weight: 0.5
  - id: pouch
    type: container
    location: {kind: held_by, holders: [a1]}
    weight: 0.3
    capacity: 1
agents:
  - id: a1
    room: kitchen
    max_items: 3
    max_carry_weight: 20
task:
  scene_abilities: [open]
  subtasks:
    - id: stash
      checks:
        - {kind: located_in, target: knife, where: pantry}
actions:
  - name: sharpen
    requires_ability: whetstone
    attribute: sharp
    value: "true"
`

func TestParseAndBuild(t *testing.T) {
	sc, err := Parse([]byte(kitchenYAML))
	if err != nil {
		t.Fatal(err)
	}
	rt, err := Build(sc)
	if err != nil {
		t.Fatal(err)
	}

	if rt.EpisodeID != "ep-kitchen" {
		t.Fatalf("episode id = %q", rt.EpisodeID)
	}
	knife, err := rt.State.Object("knife")
	if err != nil {
		t.Fatal(err)
	}
	if knife.Location.Kind != world.LocInside || knife.Location.Ref != "drawer" {
		t.Fatalf("knife location = %+v", knife.Location)
	}
	a1, err := rt.State.Agent("a1")
	if err != nil {
		t.Fatal(err)
	}
	if !a1.Holds("pouch") {
		t.Fatal("pouch should start in a1's inventory")
	}
	if !knife.Discovered {
		t.Fatal("discovered should default to true")
	}
	if rt.Verifier.Mode != verify.ModeStepByStep {
		t.Fatalf("verifier mode = %s", rt.Verifier.Mode)
	}
	if len(rt.Grants) != 1 || rt.Grants[0] != "open" {
		t.Fatalf("grants = %v", rt.Grants)
	}
	if _, ok := rt.Catalog.Lookup("sharpen"); !ok {
		t.Fatal("custom attribute action should be registered")
	}
	if !rt.Prox.IsNear("a1", "drawer") {
		t.Fatal("tracker should be initialized")
	}
}

func TestParse_RejectsDanglingReferences(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "unknown room connection",
			yaml: "rooms:\n  - id: kitchen\n    connections: [attic]\nagents:\n  - {id: a1, room: kitchen}\n",
			want: "unknown room",
		},
		{
			name: "agent in unknown room",
			yaml: "rooms:\n  - id: kitchen\nagents:\n  - {id: a1, room: attic}\n",
			want: "unknown room",
		},
		{
			name: "object in unknown container",
			yaml: "rooms:\n  - id: kitchen\nagents:\n  - {id: a1, room: kitchen}\nobjects:\n  - id: coin\n    location: {kind: inside, ref: vault}\n",
			want: "unknown object",
		},
		{
			name: "duplicate id across kinds",
			yaml: "rooms:\n  - id: kitchen\nagents:\n  - {id: kitchen, room: kitchen}\n",
			want: "duplicate id",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want containing %q", err, tc.want)
			}
		})
	}
}

func TestBuild_RejectsContainmentCycle(t *testing.T) {
	sc, err := Parse([]byte(`
rooms:
  - id: kitchen
agents:
  - {id: a1, room: kitchen}
objects:
  - id: box_a
    location: {kind: inside, ref: box_b}
    capacity: 1
  - id: box_b
    location: {kind: inside, ref: box_a}
    capacity: 1
`))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Build(sc); err == nil {
		t.Fatal("cyclic containment should not build")
	}
}

func TestValidateSchema(t *testing.T) {
	schemaPath := filepath.Join("..", "..", "..", "schemas", "scenario.schema.json")

	if err := ValidateSchema([]byte(kitchenYAML), schemaPath); err != nil {
		t.Fatalf("valid scenario rejected: %v", err)
	}
	bad := "rooms:\n  - id: kitchen\nagents:\n  - {id: a1, room: kitchen}\nobjects:\n  - id: coin\n    location: {kind: teleported}\n"
	if err := ValidateSchema([]byte(bad), schemaPath); err == nil {
		t.Fatal("unknown location kind should fail schema validation")
	}
}

func TestBuild_GeneratesEpisodeID(t *testing.T) {
	sc, err := Parse([]byte("rooms:\n  - id: kitchen\nagents:\n  - {id: a1, room: kitchen}\n"))
	if err != nil {
		t.Fatal(err)
	}
	rt, err := Build(sc)
	if err != nil {
		t.Fatal(err)
	}
	if rt.EpisodeID == "" {
		t.Fatal("episode id should be generated")
	}
}
