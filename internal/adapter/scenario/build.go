package scenario

import (
	"fmt"

	"github.com/google/uuid"

	"roomverse/internal/app/action"
	"roomverse/internal/app/proximity"
	"roomverse/internal/app/verify"
	"roomverse/internal/domain/world"
)

// Runtime holds the assembled core of one episode, ready to be wrapped
// in an action.Engine.
type Runtime struct {
	EpisodeID string
	State     *world.State
	Prox      *proximity.Tracker
	Catalog   *action.Catalog
	Verifier  *verify.Verifier
	Grants    []string
}

// Build turns a validated scenario into a live arena. Objects are
// inserted in dependency order so containers exist before their
// contents.
func Build(sc Scenario) (*Runtime, error) {
	st := world.NewState()

	for _, r := range sc.Rooms {
		if err := st.AddRoom(&world.Room{ID: r.ID, Attributes: r.Attributes}); err != nil {
			return nil, err
		}
	}
	for _, r := range sc.Rooms {
		for _, c := range r.Connections {
			if err := st.ConnectRooms(r.ID, c); err != nil {
				return nil, err
			}
		}
	}
	for _, a := range sc.Agents {
		if err := st.AddAgent(&world.Agent{
			ID:             a.ID,
			Room:           a.Room,
			MaxItems:       a.MaxItems,
			MaxCarryWeight: a.MaxCarryWeight,
		}); err != nil {
			return nil, err
		}
	}
	if err := addObjects(st, sc.Objects); err != nil {
		return nil, err
	}

	catalog := action.NewCatalog()
	for _, cfg := range sc.Actions {
		if err := catalog.RegisterAttribute(cfg); err != nil {
			return nil, err
		}
	}

	prox := proximity.NewTracker(*sc.Options.ExposeOpenContainers)
	if err := prox.Init(st); err != nil {
		return nil, err
	}

	episodeID := sc.EpisodeID
	if episodeID == "" {
		episodeID = uuid.NewString()
	}

	return &Runtime{
		EpisodeID: episodeID,
		State:     st,
		Prox:      prox,
		Catalog:   catalog,
		Verifier:  verify.New(sc.Task, sc.Options.Verification, sc.Options.Recheck),
		Grants:    sc.Task.SceneAbilities,
	}, nil
}

// addObjects inserts objects in passes: anything whose location target
// is already present goes in, repeating until done. A pass without
// progress means an unresolvable containment chain.
func addObjects(st *world.State, specs []ObjectSpec) error {
	pending := append([]ObjectSpec(nil), specs...)
	for len(pending) > 0 {
		next := pending[:0]
		progressed := false
		for _, spec := range pending {
			if spec.Location.Kind == "inside" || spec.Location.Kind == "on_top" {
				if _, err := st.Object(spec.Location.Ref); err != nil {
					next = append(next, spec)
					continue
				}
			}
			if err := st.AddObject(toObject(spec)); err != nil {
				return fmt.Errorf("object %s: %w", spec.ID, err)
			}
			progressed = true
		}
		if !progressed {
			return fmt.Errorf("unresolvable containment chain among %d objects", len(next))
		}
		pending = next
	}
	return nil
}

func toObject(spec ObjectSpec) *world.Object {
	var loc world.Location
	switch spec.Location.Kind {
	case "in_room":
		loc = world.RoomLocation(spec.Location.Ref)
	case "inside":
		loc = world.InsideLocation(spec.Location.Ref)
	case "on_top":
		loc = world.OnTopLocation(spec.Location.Ref)
	case "held_by":
		loc = world.HeldLocation(spec.Location.Holders...)
	}
	return &world.Object{
		ID:                spec.ID,
		Type:              spec.Type,
		Location:          loc,
		States:            spec.States,
		Weight:            spec.Weight,
		CarryThreshold:    spec.CarryThreshold,
		Capacity:          spec.Capacity,
		ProvidesAbilities: spec.ProvidesAbilities,
		Discovered:        *spec.Discovered,
	}
}
