package action

import (
	"fmt"
	"strings"

	"roomverse/internal/app/capability"
)

// Handler splits an action into a read-only precondition pass and a plan
// pass that stages mutations. Neither touches the arena directly; the
// engine commits the staged plan after both passes succeed.
type Handler interface {
	Precheck(ec *ExecContext) error
	Plan(ec *ExecContext) error
}

type BaseHandler struct{}

func (BaseHandler) Precheck(*ExecContext) error { return nil }
func (BaseHandler) Plan(*ExecContext) error     { return nil }

type Spec struct {
	capability.ActionDescriptor
	Handler Handler
}

// Catalog is the closed registry of action definitions. Built-ins cover
// the five basics, the gated attribute actions and the cooperative pair;
// scenarios may add declarative attribute actions on top.
type Catalog struct {
	specs   map[string]Spec
	aliases map[string]string
}

func NewCatalog() *Catalog {
	c := &Catalog{specs: map[string]Spec{}, aliases: map[string]string{}}
	for _, spec := range builtinSpecs() {
		c.specs[spec.Name] = spec
	}
	c.aliases["goto"] = "move"
	c.aliases["drop"] = "place"
	return c
}

func (c *Catalog) Lookup(name string) (Spec, bool) {
	name = strings.ToLower(name)
	if canonical, ok := c.aliases[name]; ok {
		name = canonical
	}
	spec, ok := c.specs[name]
	return spec, ok
}

// AttributeActionConfig is the declarative form scenarios use to extend
// the catalog with gated single-attribute mutations.
type AttributeActionConfig struct {
	Name            string `json:"name" yaml:"name"`
	RequiresAbility string `json:"requires_ability" yaml:"requires_ability"`
	Attribute       string `json:"attribute" yaml:"attribute"`
	Value           string `json:"value" yaml:"value"`
	Summary         string `json:"summary,omitempty" yaml:"summary,omitempty"`
}

func (c *Catalog) RegisterAttribute(cfg AttributeActionConfig) error {
	name := strings.ToLower(strings.TrimSpace(cfg.Name))
	if name == "" || cfg.Attribute == "" {
		return fmt.Errorf("attribute action needs a name and an attribute")
	}
	if _, exists := c.Lookup(name); exists {
		return fmt.Errorf("action %q already registered", name)
	}
	summary := cfg.Summary
	if summary == "" {
		summary = fmt.Sprintf("set %s of the target to %q", cfg.Attribute, cfg.Value)
	}
	c.specs[name] = Spec{
		ActionDescriptor: capability.ActionDescriptor{
			Name:            name,
			Category:        capability.CategoryAttribute,
			RequiresAbility: cfg.RequiresAbility,
			Syntax:          strings.ToUpper(name) + " <object>",
			Summary:         summary,
		},
		Handler: attributeHandler{attribute: cfg.Attribute, value: cfg.Value},
	}
	return nil
}

// Descriptors returns the registry view consumed by the capability layer.
func (c *Catalog) Descriptors() []capability.ActionDescriptor {
	out := make([]capability.ActionDescriptor, 0, len(c.specs))
	for _, spec := range c.specs {
		out = append(out, spec.ActionDescriptor)
	}
	return out
}

func builtinSpecs() []Spec {
	return []Spec{
		{
			ActionDescriptor: capability.ActionDescriptor{
				Name: "move", Category: capability.CategoryBasic,
				Syntax:  "MOVE <room>",
				Summary: "walk to a connected room (GOTO is an alias)",
			},
			Handler: moveHandler{},
		},
		{
			ActionDescriptor: capability.ActionDescriptor{
				Name: "grab", Category: capability.CategoryBasic,
				Syntax:  "GRAB <object>",
				Summary: "pick up a nearby object",
			},
			Handler: grabHandler{},
		},
		{
			ActionDescriptor: capability.ActionDescriptor{
				Name: "place", Category: capability.CategoryBasic,
				Syntax:  "PLACE <object> [IN|ON <target>]",
				Summary: "put a held object down, into a container or onto a surface",
			},
			Handler: placeHandler{},
		},
		{
			ActionDescriptor: capability.ActionDescriptor{
				Name: "look", Category: capability.CategoryBasic,
				Syntax:  "LOOK",
				Summary: "describe the current room and its discovered contents",
			},
			Handler: lookHandler{},
		},
		{
			ActionDescriptor: capability.ActionDescriptor{
				Name: "explore", Category: capability.CategoryBasic,
				Syntax:  "EXPLORE",
				Summary: "search the current room, discovering its objects and exits",
			},
			Handler: exploreHandler{},
		},
		{
			ActionDescriptor: capability.ActionDescriptor{
				Name: "open", Category: capability.CategoryAttribute, RequiresAbility: "open",
				Syntax:  "OPEN <object>",
				Summary: "open a nearby object",
			},
			Handler: attributeHandler{attribute: "open", value: "true"},
		},
		{
			ActionDescriptor: capability.ActionDescriptor{
				Name: "close", Category: capability.CategoryAttribute, RequiresAbility: "open",
				Syntax:  "CLOSE <object>",
				Summary: "close a nearby object",
			},
			Handler: attributeHandler{attribute: "open", value: "false"},
		},
		{
			ActionDescriptor: capability.ActionDescriptor{
				Name: "turn_on", Category: capability.CategoryAttribute, RequiresAbility: "power",
				Syntax:  "TURN_ON <object>",
				Summary: "power a nearby object on",
			},
			Handler: attributeHandler{attribute: "powered_on", value: "true"},
		},
		{
			ActionDescriptor: capability.ActionDescriptor{
				Name: "turn_off", Category: capability.CategoryAttribute, RequiresAbility: "power",
				Syntax:  "TURN_OFF <object>",
				Summary: "power a nearby object off",
			},
			Handler: attributeHandler{attribute: "powered_on", value: "false"},
		},
		{
			ActionDescriptor: capability.ActionDescriptor{
				Name: "corp_grab", Category: capability.CategoryCooperative,
				Syntax:  "CORP_GRAB <a1,a2,...> <object>",
				Summary: "lift an object together; every named agent must be near it with a free inventory",
			},
			Handler: corpGrabHandler{},
		},
		{
			ActionDescriptor: capability.ActionDescriptor{
				Name: "corp_place", Category: capability.CategoryCooperative,
				Syntax:  "CORP_PLACE <a1,a2,...> <object> IN <room>",
				Summary: "set a jointly held object down in the current or a connected room",
			},
			Handler: corpPlaceHandler{},
		},
	}
}
