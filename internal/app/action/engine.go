package action

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"time"

	"roomverse/internal/app/capability"
	"roomverse/internal/app/command"
	"roomverse/internal/app/ports"
	"roomverse/internal/app/proximity"
	"roomverse/internal/app/verify"
	"roomverse/internal/domain/world"
)

// EngineConfig wires an Engine to its world, catalog and ports. Only
// State, Catalog and Prox are required; the rest default to no-ops so
// tests can run without persistence.
type EngineConfig struct {
	State       *world.State
	Catalog     *Catalog
	Prox        *proximity.Tracker
	Verifier    *verify.Verifier
	SceneGrants []string
	EpisodeID   string

	TxManager  ports.TxManager
	Executions ports.ExecutionRepository
	Events     ports.EventRepository
	Metrics    ports.ActionMetrics
	Now        func() time.Time
}

// Engine owns one world arena and executes commands against it strictly
// sequentially: each Execute call fully commits or rejects before the
// next is accepted. Callers serialize; the engine itself holds no locks.
type Engine struct {
	state    *world.State
	catalog  *Catalog
	prox     *proximity.Tracker
	verifier *verify.Verifier
	grants   []string
	episode  string

	tx         ports.TxManager
	executions ports.ExecutionRepository
	events     ports.EventRepository
	metrics    ports.ActionMetrics
	now        func() time.Time

	step int
}

func NewEngine(cfg EngineConfig) *Engine {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Engine{
		state:      cfg.State,
		catalog:    cfg.Catalog,
		prox:       cfg.Prox,
		verifier:   cfg.Verifier,
		grants:     cfg.SceneGrants,
		episode:    cfg.EpisodeID,
		tx:         cfg.TxManager,
		executions: cfg.Executions,
		events:     cfg.Events,
		metrics:    cfg.Metrics,
		now:        cfg.Now,
	}
}

// Execute runs one command through the full pipeline: parse, resolve,
// registration check, precheck, atomic commit, proximity refresh,
// verification. Every outcome, including INVALID, is appended to agent
// history and persisted.
func (e *Engine) Execute(ctx context.Context, req Request) Response {
	now := e.now()
	resp, agents := e.run(req, now)

	for _, a := range agents {
		a.RecordCommand(world.CommandRecord{
			Command:  req.Command,
			Status:   string(resp.Status),
			Message:  resp.Message,
			IssuedAt: now,
		})
	}
	e.count(resp.Status)
	e.persist(ctx, req, resp, agentIDs(agents), now)
	return resp
}

// DescribeActions renders the plain-text action listing currently
// registered for the agent set.
func (e *Engine) DescribeActions(agentIDs ...string) (string, error) {
	return capability.Describe(e.catalog.Descriptors(), e.state, e.grants, agentIDs...)
}

// Verifier exposes the task verifier for callers that request a global
// evaluation or a status snapshot. May be nil when the scenario carries
// no task.
func (e *Engine) Verifier() *verify.Verifier { return e.verifier }

func (e *Engine) EpisodeID() string { return e.episode }

// State exposes the live arena for read-only callers such as on-demand
// global verification. Callers must hold the same serialization the
// engine relies on.
func (e *Engine) State() *world.State { return e.state }

// run resolves and executes the command. A panic anywhere inside is
// recovered here and downgraded to FAILURE, leaving the arena untouched
// because no handler mutates state before the commit step.
func (e *Engine) run(req Request, now time.Time) (resp Response, agents []*world.Agent) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("action: recovered panic executing %q: %v", req.Command, r)
			resp = Response{Status: StatusFailure, Message: "internal error while executing command"}
		}
	}()

	inv, err := command.Parse(req.Command)
	if err != nil {
		return Response{Status: StatusInvalid, Message: err.Error()}, nil
	}

	agents, err = e.resolveAgents(req.AgentIDs, inv)
	if err != nil {
		return Response{Status: StatusInvalid, Message: err.Error()}, nil
	}
	ids := agentIDs(agents)

	spec, ok := e.catalog.Lookup(inv.Action)
	if !ok {
		return e.respond(StatusInvalid, "unknown action "+inv.Action, ids, nil), agents
	}
	if spec.Category == capability.CategoryCooperative && len(agents) < 2 {
		return e.respond(StatusInvalid, spec.Name+" needs at least two agents", ids, nil), agents
	}
	if spec.Category != capability.CategoryCooperative && len(agents) > 1 {
		return e.respond(StatusInvalid, spec.Name+" takes a single agent", ids, nil), agents
	}
	registered, err := capability.IsRegistered(e.catalog.Descriptors(), e.state, e.grants, spec.Name, ids...)
	if err != nil {
		return e.respond(StatusInvalid, err.Error(), ids, nil), agents
	}
	if !registered {
		return e.respond(StatusInvalid, spec.Name+" is not registered for "+joinIDs(ids), ids, nil), agents
	}

	ec := &ExecContext{
		Inv:    inv,
		Agents: agents,
		Spec:   spec,
		State:  e.state,
		Prox:   e.prox,
		Grants: e.grants,
		NowAt:  now,
		Plan:   newWritePlan(),
	}
	if err := spec.Handler.Precheck(ec); err != nil {
		return e.respond(e.classify(err), err.Error(), ids, nil), agents
	}
	if err := spec.Handler.Plan(ec); err != nil {
		return e.respond(e.classify(err), err.Error(), ids, nil), agents
	}
	if err := e.commit(ec.Plan); err != nil {
		return e.respond(StatusFailure, err.Error(), ids, nil), agents
	}

	for i := range ec.Plan.Events {
		ec.Plan.Events[i].OccurredAt = now
	}
	return e.respond(StatusSuccess, ec.Plan.Message, ids, ec.Plan), agents
}

func (e *Engine) resolveAgents(issuers []string, inv command.Invocation) ([]*world.Agent, error) {
	ids := issuers
	if len(inv.Agents) > 0 {
		if len(issuers) > 0 && !sameIDSet(issuers, inv.Agents) {
			return nil, invalidf("issuing agents %s do not match the command's agent list %s",
				joinIDs(issuers), joinIDs(inv.Agents))
		}
		ids = inv.Agents
	}
	if len(ids) == 0 {
		return nil, invalidf("no issuing agent")
	}
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	agents := make([]*world.Agent, 0, len(sorted))
	for i, id := range sorted {
		if i > 0 && sorted[i-1] == id {
			return nil, invalidf("duplicate agent id %s", id)
		}
		a, err := e.state.Agent(id)
		if err != nil {
			return nil, invalidf("unknown agent %s", id)
		}
		agents = append(agents, a)
	}
	return agents, nil
}

// commit applies the staged plan in order. Handlers precheck every
// invariant beforehand and each plan carries at most one fallible
// mutation, so an error here means the plan and precheck disagree.
func (e *Engine) commit(plan *WritePlan) error {
	for _, m := range plan.Mutations {
		var err error
		switch m.kind {
		case mutMoveAgent:
			err = e.state.MoveAgent(m.agentID, m.roomID)
		case mutPlaceObject:
			err = e.state.PlaceObject(m.objectID, m.location)
		case mutAttach:
			err = e.state.AttachToAgent(m.objectID, m.holders...)
		case mutSetState:
			err = e.state.SetObjectState(m.objectID, m.key, m.value)
		case mutDiscover:
			var obj *world.Object
			if obj, err = e.state.Object(m.objectID); err == nil {
				obj.Discovered = true
			}
		}
		if err != nil {
			return failf("%v", err)
		}
	}
	return nil
}

// respond refreshes derived state for a committed plan and assembles the
// structured result. A nil plan means nothing was committed.
func (e *Engine) respond(status Status, message string, ids []string, plan *WritePlan) Response {
	resp := Response{Status: status, Message: message}
	if plan != nil {
		for agentID := range plan.MovedAgents {
			if a, err := e.state.Agent(agentID); err == nil {
				if err := e.prox.UpdateOnMove(e.state, agentID, a.Room); err != nil {
					log.Printf("action: proximity refresh for %s: %v", agentID, err)
				}
			}
		}
		for objectID := range plan.MovedObjects {
			if err := e.prox.UpdateOnObjectMove(e.state, objectID); err != nil {
				log.Printf("action: proximity refresh for %s: %v", objectID, err)
			}
		}
		resp.Result.Events = plan.Events
		if e.verifier != nil {
			resp.Result.Verification = e.verifier.AfterAction(e.state)
			resp.Result.Subtasks = e.verifier.Snapshot()
			resp.Result.TaskDone = e.verifier.AllCompleted()
		}
	}
	resp.Result.Agents = e.views(ids)
	return resp
}

func (e *Engine) views(ids []string) []AgentView {
	out := make([]AgentView, 0, len(ids))
	for _, id := range ids {
		a, err := e.state.Agent(id)
		if err != nil {
			continue
		}
		abilities, err := capability.Abilities(e.state, e.grants, id)
		if err != nil {
			continue
		}
		tokens := make([]string, 0, len(abilities))
		for token := range abilities {
			tokens = append(tokens, token)
		}
		sort.Strings(tokens)
		out = append(out, AgentView{
			AgentID:   id,
			Room:      a.Room,
			Inventory: append([]string(nil), a.Inventory...),
			Near:      e.prox.Near(id),
			Abilities: tokens,
		})
	}
	return out
}

func (e *Engine) classify(err error) Status {
	if errors.Is(err, ErrInvalidCommand) {
		return StatusInvalid
	}
	return StatusFailure
}

func (e *Engine) count(status Status) {
	if e.metrics == nil {
		return
	}
	switch status {
	case StatusSuccess:
		e.metrics.RecordSuccess()
	case StatusFailure:
		e.metrics.RecordFailure()
	default:
		e.metrics.RecordInvalid()
	}
}

func (e *Engine) persist(ctx context.Context, req Request, resp Response, ids []string, now time.Time) {
	if e.executions == nil {
		return
	}
	e.step++
	rec := ports.ExecutionRecord{
		EpisodeID: e.episode,
		Step:      e.step,
		AgentIDs:  ids,
		Command:   req.Command,
		Result: ports.ExecutionResult{
			Status:  string(resp.Status),
			Message: resp.Message,
			Events:  resp.Result.Events,
		},
		AppliedAt: now,
	}
	save := func(ctx context.Context) error {
		if err := e.executions.Save(ctx, rec); err != nil {
			return err
		}
		if e.events != nil && len(resp.Result.Events) > 0 {
			for _, id := range ids {
				if err := e.events.Append(ctx, id, resp.Result.Events); err != nil {
					return err
				}
			}
		}
		return nil
	}
	var err error
	if e.tx != nil {
		err = e.tx.RunInTx(ctx, save)
	} else {
		err = save(ctx)
	}
	if err != nil {
		log.Printf("action: persisting step %d: %v", e.step, err)
	}
}

func sameIDSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func joinIDs(ids []string) string {
	return strings.Join(ids, ",")
}
