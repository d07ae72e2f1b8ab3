package gormrepo

import (
	"context"
	"encoding/json"
	"strings"

	"roomverse/internal/adapter/repo/gorm/model"
	"roomverse/internal/app/ports"
	"roomverse/internal/domain/world"

	"gorm.io/gorm"
)

type ExecutionRepo struct {
	db *gorm.DB
}

func NewExecutionRepo(db *gorm.DB) ExecutionRepo {
	return ExecutionRepo{db: db}
}

func (r ExecutionRepo) Save(ctx context.Context, record ports.ExecutionRecord) error {
	agentsJSON, _ := json.Marshal(record.AgentIDs)
	eventsJSON, _ := json.Marshal(record.Result.Events)
	m := model.ExecutionRecord{
		EpisodeID: record.EpisodeID,
		Step:      record.Step,
		AgentIDs:  agentsJSON,
		Command:   record.Command,
		Status:    record.Result.Status,
		Message:   record.Result.Message,
		Events:    eventsJSON,
		AppliedAt: record.AppliedAt,
	}
	if err := getDBFromCtx(ctx, r.db).Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return ports.ErrConflict
		}
		return err
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

func (r ExecutionRepo) ListByEpisode(ctx context.Context, episodeID string, limit int) ([]ports.ExecutionRecord, error) {
	rows := []model.ExecutionRecord{}
	query := getDBFromCtx(ctx, r.db).
		Where(&model.ExecutionRecord{EpisodeID: episodeID}).
		Order("step ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]ports.ExecutionRecord, 0, len(rows))
	for _, row := range rows {
		var agentIDs []string
		var events []world.Event
		_ = json.Unmarshal(row.AgentIDs, &agentIDs)
		_ = json.Unmarshal(row.Events, &events)
		out = append(out, ports.ExecutionRecord{
			EpisodeID: row.EpisodeID,
			Step:      row.Step,
			AgentIDs:  agentIDs,
			Command:   row.Command,
			Result: ports.ExecutionResult{
				Status:  row.Status,
				Message: row.Message,
				Events:  events,
			},
			AppliedAt: row.AppliedAt,
		})
	}
	return out, nil
}
