package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync"

	"roomverse/internal/app/action"
	"roomverse/internal/app/capability"
	"roomverse/internal/app/observe"
	"roomverse/internal/app/ports"
	"roomverse/internal/app/replay"
	"roomverse/internal/app/verify"
	"roomverse/internal/domain/world"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// Handler exposes the engine over HTTP. The engine and the in-memory
// world it mutates are single-threaded; every route that touches them
// takes mu, which is the only lock in the system.
type Handler struct {
	mu sync.Mutex

	Engine    *action.Engine
	ObserveUC observe.UseCase
	ReplayUC  replay.UseCase
	KPI       kpiSnapshotProvider
}

func (h *Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	agent := s.Group("/api/agent")
	agent.POST("/execute", h.execute)
	agent.POST("/observe", h.observe)
	agent.POST("/actions", h.actions)
	agent.GET("/replay", h.replay)

	s.GET("/api/tasks/status", h.taskStatus)
	s.GET("/ops/kpi", h.kpi)
}

type executeRequest struct {
	AgentIDs []string `json:"agent_ids"`
	Command  string   `json:"command"`
}

type observeRequest struct {
	AgentID string `json:"agent_id"`
}

type actionsRequest struct {
	AgentIDs []string `json:"agent_ids"`
}

type actionsResponse struct {
	Actions string `json:"actions"`
}

type taskStatusResponse struct {
	EpisodeID string                `json:"episode_id"`
	Mode      verify.Mode           `json:"mode"`
	Subtasks  []verify.SubtaskState `json:"subtasks"`
	TaskDone  bool                  `json:"task_done"`
}

func (h *Handler) execute(c context.Context, ctx *app.RequestContext) {
	var body executeRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if strings.TrimSpace(body.Command) == "" {
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_command", "command is required")
		return
	}

	h.mu.Lock()
	resp := h.Engine.Execute(c, action.Request{
		AgentIDs: body.AgentIDs,
		Command:  body.Command,
	})
	h.mu.Unlock()

	ctx.JSON(consts.StatusOK, resp)
}

func (h *Handler) observe(c context.Context, ctx *app.RequestContext) {
	var body observeRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	h.mu.Lock()
	resp, err := h.ObserveUC.Execute(observe.Request{AgentID: body.AgentID})
	h.mu.Unlock()
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(consts.StatusOK, resp)
}

func (h *Handler) actions(c context.Context, ctx *app.RequestContext) {
	var body actionsRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	h.mu.Lock()
	text, err := h.Engine.DescribeActions(body.AgentIDs...)
	h.mu.Unlock()
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(consts.StatusOK, actionsResponse{Actions: text})
}

// taskStatus reports subtask progress. In global mode progress is only
// computed on demand, so this endpoint runs a full evaluation pass
// before snapshotting.
func (h *Handler) taskStatus(_ context.Context, ctx *app.RequestContext) {
	h.mu.Lock()
	v := h.Engine.Verifier()
	if v != nil && v.Mode == verify.ModeGlobal {
		v.EvaluateAll(h.Engine.State())
	}
	resp := taskStatusResponse{EpisodeID: h.Engine.EpisodeID()}
	if v != nil {
		resp.Mode = v.Mode
		resp.Subtasks = v.Snapshot()
		resp.TaskDone = v.AllCompleted()
	} else {
		resp.Mode = verify.ModeDisabled
	}
	h.mu.Unlock()

	ctx.JSON(consts.StatusOK, resp)
}

func (h *Handler) replay(c context.Context, ctx *app.RequestContext) {
	agentID := string(ctx.Query("agent_id"))
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	occurredFrom, _ := strconv.ParseInt(string(ctx.Query("occurred_from")), 10, 64)
	occurredTo, _ := strconv.ParseInt(string(ctx.Query("occurred_to")), 10, 64)

	h.mu.Lock()
	resp, err := h.ReplayUC.Execute(c, replay.Request{
		AgentID:      agentID,
		Limit:        limit,
		OccurredFrom: occurredFrom,
		OccurredTo:   occurredTo,
	})
	h.mu.Unlock()
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h *Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, observe.ErrInvalidRequest),
		errors.Is(err, replay.ErrInvalidRequest),
		errors.Is(err, capability.ErrNoAgents):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, world.ErrUnknownAgent):
		writeErrorBody(ctx, consts.StatusNotFound, "unknown_agent", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
