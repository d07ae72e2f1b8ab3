package capability

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"roomverse/internal/domain/world"
)

// ErrNoAgents is returned by the query functions when the caller asks
// about an empty agent set. It marks a malformed request, not a lookup
// miss.
var ErrNoAgents = errors.New("no agents queried")

type Category string

const (
	CategoryBasic       Category = "basic"
	CategoryAttribute   Category = "attribute"
	CategoryCooperative Category = "cooperative"
)

// ActionDescriptor is the registry's view of a catalog entry: enough to
// decide registration and describe the action, nothing about execution.
type ActionDescriptor struct {
	Name            string
	Category        Category
	RequiresAbility string
	Syntax          string
	Summary         string
}

// Abilities recomputes an agent's ability set from scene-global grants
// plus the grants of every currently held tool. It is never cached: an
// inventory mutation changes the result on the very next call.
func Abilities(st *world.State, sceneGrants []string, agentID string) (map[string]struct{}, error) {
	agent, err := st.Agent(agentID)
	if err != nil {
		return nil, err
	}
	out := map[string]struct{}{}
	for _, token := range sceneGrants {
		out[token] = struct{}{}
	}
	for _, objectID := range agent.Inventory {
		obj, err := st.Object(objectID)
		if err != nil {
			return nil, err
		}
		for _, token := range obj.ProvidesAbilities {
			out[token] = struct{}{}
		}
	}
	return out, nil
}

// Registered returns the actions the given agent set may invoke right now:
// every basic action; attribute actions whose ability token every queried
// agent holds; cooperative actions only for joint queries of two or more
// agents, so single-agent callers are never advertised commands they
// cannot issue.
func Registered(catalog []ActionDescriptor, st *world.State, sceneGrants []string, agentIDs ...string) ([]ActionDescriptor, error) {
	if len(agentIDs) == 0 {
		return nil, ErrNoAgents
	}
	abilities := make([]map[string]struct{}, 0, len(agentIDs))
	for _, id := range agentIDs {
		ab, err := Abilities(st, sceneGrants, id)
		if err != nil {
			return nil, err
		}
		abilities = append(abilities, ab)
	}

	out := make([]ActionDescriptor, 0, len(catalog))
	for _, desc := range catalog {
		switch desc.Category {
		case CategoryBasic:
			out = append(out, desc)
		case CategoryAttribute:
			if desc.RequiresAbility == "" || allHave(abilities, desc.RequiresAbility) {
				out = append(out, desc)
			}
		case CategoryCooperative:
			if len(agentIDs) >= 2 {
				out = append(out, desc)
			}
		}
	}
	sortDescriptors(out)
	return out, nil
}

// IsRegistered reports whether the named action is currently registered
// for the agent set.
func IsRegistered(catalog []ActionDescriptor, st *world.State, sceneGrants []string, name string, agentIDs ...string) (bool, error) {
	registered, err := Registered(catalog, st, sceneGrants, agentIDs...)
	if err != nil {
		return false, err
	}
	for _, desc := range registered {
		if desc.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// Describe renders the complete plain-text action listing for the agent
// set: one line per registered action, syntax plus a behavior summary.
// This is the contract the prompt layer consumes.
func Describe(catalog []ActionDescriptor, st *world.State, sceneGrants []string, agentIDs ...string) (string, error) {
	registered, err := Registered(catalog, st, sceneGrants, agentIDs...)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, desc := range registered {
		fmt.Fprintf(&b, "%s: %s\n", desc.Syntax, desc.Summary)
	}
	return b.String(), nil
}

func allHave(abilities []map[string]struct{}, token string) bool {
	for _, set := range abilities {
		if _, ok := set[token]; !ok {
			return false
		}
	}
	return true
}

var categoryRank = map[Category]int{
	CategoryBasic:       0,
	CategoryAttribute:   1,
	CategoryCooperative: 2,
}

func sortDescriptors(descs []ActionDescriptor) {
	sort.Slice(descs, func(i, j int) bool {
		if categoryRank[descs[i].Category] != categoryRank[descs[j].Category] {
			return categoryRank[descs[i].Category] < categoryRank[descs[j].Category]
		}
		return descs[i].Name < descs[j].Name
	})
}
