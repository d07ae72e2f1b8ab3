// Package model holds the table mappings for the gorm repositories.
// The schema lives in migrations/; these structs mirror it by hand since
// there is no live database to generate from at build time.
package model

import "time"

type ExecutionRecord struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	EpisodeID string    `gorm:"column:episode_id;index:idx_episode_step,unique"`
	Step      int       `gorm:"column:step;index:idx_episode_step,unique"`
	AgentIDs  []byte    `gorm:"column:agent_ids;type:jsonb"`
	Command   string    `gorm:"column:command"`
	Status    string    `gorm:"column:status"`
	Message   string    `gorm:"column:message"`
	Events    []byte    `gorm:"column:events;type:jsonb"`
	AppliedAt time.Time `gorm:"column:applied_at"`
}

func (ExecutionRecord) TableName() string { return "execution_records" }

type DomainEvent struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	AgentID    string    `gorm:"column:agent_id;index"`
	Type       string    `gorm:"column:type"`
	OccurredAt time.Time `gorm:"column:occurred_at;index"`
	Payload    []byte    `gorm:"column:payload;type:jsonb"`
}

func (DomainEvent) TableName() string { return "domain_events" }
