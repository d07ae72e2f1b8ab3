package action

import "fmt"

// attributeHandler backs every gated single-attribute action: open/close,
// turn_on/turn_off, and any scenario-registered extension. Registration
// gating by ability token happens in the capability layer before the
// handler runs.
type attributeHandler struct {
	BaseHandler
	attribute string
	value     string
}

func (h attributeHandler) Precheck(ec *ExecContext) error {
	if len(ec.Inv.Targets) != 1 {
		return invalidf("%s takes exactly one object, got %d targets", ec.Spec.Name, len(ec.Inv.Targets))
	}
	agent := ec.agent()
	obj, err := ec.State.Object(ec.Inv.Targets[0])
	if err != nil {
		return failf("no object named %s", ec.Inv.Targets[0])
	}
	if !ec.Prox.IsNear(agent.ID, obj.ID) {
		return &ProximityError{AgentID: agent.ID, TargetID: obj.ID}
	}
	if obj.State(h.attribute) == h.value {
		return &AttributeError{ObjectID: obj.ID, Attribute: h.attribute,
			Detail: fmt.Sprintf("already set to %s", h.value)}
	}
	return nil
}

func (h attributeHandler) Plan(ec *ExecContext) error {
	agent := ec.agent()
	objectID := ec.Inv.Targets[0]
	ec.Plan.setState(objectID, h.attribute, h.value)
	ec.Plan.event("state_changed", map[string]any{
		"agent": agent.ID, "object": objectID, "attribute": h.attribute, "value": h.value,
	})
	ec.Plan.Message = fmt.Sprintf("%s set %s of %s to %s", agent.ID, h.attribute, objectID, h.value)
	return nil
}
