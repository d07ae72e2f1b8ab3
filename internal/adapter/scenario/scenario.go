package scenario

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"roomverse/internal/app/action"
	"roomverse/internal/app/verify"
	"roomverse/internal/domain/task"
)

// Scenario is the declarative episode description consumed at startup:
// the room graph, every object and agent, the task with its goal checks,
// and any scenario-specific attribute actions.
type Scenario struct {
	EpisodeID string  `yaml:"episode_id,omitempty"`
	Options   Options `yaml:"options,omitempty"`

	Rooms   []RoomSpec   `yaml:"rooms"`
	Objects []ObjectSpec `yaml:"objects,omitempty"`
	Agents  []AgentSpec  `yaml:"agents"`

	Task    task.Task                      `yaml:"task,omitempty"`
	Actions []action.AttributeActionConfig `yaml:"actions,omitempty"`
}

type Options struct {
	// ExposeOpenContainers controls whether the contents of an open
	// container are near co-located agents. Defaults to true.
	ExposeOpenContainers *bool       `yaml:"expose_open_containers,omitempty"`
	Verification         verify.Mode `yaml:"verification,omitempty"`
	Recheck              bool        `yaml:"recheck,omitempty"`
}

type RoomSpec struct {
	ID          string            `yaml:"id"`
	Attributes  map[string]string `yaml:"attributes,omitempty"`
	Connections []string          `yaml:"connections,omitempty"`
}

type LocationSpec struct {
	Kind    string   `yaml:"kind"`
	Ref     string   `yaml:"ref,omitempty"`
	Holders []string `yaml:"holders,omitempty"`
}

type ObjectSpec struct {
	ID                string            `yaml:"id"`
	Type              string            `yaml:"type,omitempty"`
	Location          LocationSpec      `yaml:"location"`
	States            map[string]string `yaml:"states,omitempty"`
	Weight            float64           `yaml:"weight,omitempty"`
	CarryThreshold    float64           `yaml:"carry_threshold,omitempty"`
	Capacity          int               `yaml:"capacity,omitempty"`
	ProvidesAbilities []string          `yaml:"provides_abilities,omitempty"`
	Discovered        *bool             `yaml:"discovered,omitempty"`
}

type AgentSpec struct {
	ID             string  `yaml:"id"`
	Room           string  `yaml:"room"`
	MaxItems       int     `yaml:"max_items,omitempty"`
	MaxCarryWeight float64 `yaml:"max_carry_weight,omitempty"`
}

// Load reads, normalizes and validates a scenario file.
func Load(path string) (Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, err
	}
	return Parse(b)
}

func Parse(b []byte) (Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(b, &sc); err != nil {
		return Scenario{}, fmt.Errorf("scenario: %w", err)
	}
	sc.Normalize()
	if err := sc.Validate(); err != nil {
		return Scenario{}, fmt.Errorf("scenario: %w", err)
	}
	return sc, nil
}

func (s *Scenario) Normalize() {
	if s.Options.ExposeOpenContainers == nil {
		v := true
		s.Options.ExposeOpenContainers = &v
	}
	if s.Options.Verification == "" {
		s.Options.Verification = verify.ModeDisabled
	}
	for i := range s.Objects {
		if s.Objects[i].Discovered == nil {
			v := true
			s.Objects[i].Discovered = &v
		}
		if s.Objects[i].Type == "" {
			s.Objects[i].Type = "object"
		}
		s.Objects[i].Location.Kind = strings.ToLower(strings.TrimSpace(s.Objects[i].Location.Kind))
	}
	for i := range s.Task.Subtasks {
		if s.Task.Subtasks[i].Mode == "" {
			s.Task.Subtasks[i].Mode = task.ModeAllChecks
		}
	}
}

func (s *Scenario) Validate() error {
	if len(s.Rooms) == 0 {
		return fmt.Errorf("at least one room is required")
	}
	rooms := map[string]bool{}
	ids := map[string]bool{}
	for _, r := range s.Rooms {
		if r.ID == "" {
			return fmt.Errorf("room with empty id")
		}
		if ids[r.ID] {
			return fmt.Errorf("duplicate id %q", r.ID)
		}
		ids[r.ID] = true
		rooms[r.ID] = true
	}
	for _, r := range s.Rooms {
		for _, c := range r.Connections {
			if !rooms[c] {
				return fmt.Errorf("room %q connects to unknown room %q", r.ID, c)
			}
		}
	}

	agents := map[string]bool{}
	for _, a := range s.Agents {
		if a.ID == "" {
			return fmt.Errorf("agent with empty id")
		}
		if ids[a.ID] {
			return fmt.Errorf("duplicate id %q", a.ID)
		}
		ids[a.ID] = true
		agents[a.ID] = true
		if !rooms[a.Room] {
			return fmt.Errorf("agent %q starts in unknown room %q", a.ID, a.Room)
		}
	}

	objects := map[string]bool{}
	for _, o := range s.Objects {
		if o.ID == "" {
			return fmt.Errorf("object with empty id")
		}
		if ids[o.ID] {
			return fmt.Errorf("duplicate id %q", o.ID)
		}
		ids[o.ID] = true
		objects[o.ID] = true
	}
	for _, o := range s.Objects {
		loc := o.Location
		switch loc.Kind {
		case "in_room":
			if !rooms[loc.Ref] {
				return fmt.Errorf("object %q is in unknown room %q", o.ID, loc.Ref)
			}
		case "inside", "on_top":
			if !objects[loc.Ref] {
				return fmt.Errorf("object %q is placed on unknown object %q", o.ID, loc.Ref)
			}
		case "held_by":
			if len(loc.Holders) == 0 {
				return fmt.Errorf("object %q is held by nobody", o.ID)
			}
			for _, h := range loc.Holders {
				if !agents[h] {
					return fmt.Errorf("object %q is held by unknown agent %q", o.ID, h)
				}
			}
		default:
			return fmt.Errorf("object %q has unknown location kind %q", o.ID, loc.Kind)
		}
	}

	for _, sub := range s.Task.Subtasks {
		if sub.ID == "" {
			return fmt.Errorf("subtask with empty id")
		}
		if len(sub.Checks) == 0 {
			return fmt.Errorf("subtask %q has no checks", sub.ID)
		}
	}
	return nil
}
