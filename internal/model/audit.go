package model

import "time"

// AuditLog is an append-only change record. Rows are never updated or deleted.
type AuditLog struct {
	AuditID       uint      `gorm:"column:audit_id;primaryKey" json:"audit_id"`
	SnapshotID    uint      `gorm:"column:snapshot_id;not null;index" json:"snapshot_id"`
	EntityType    string    `gorm:"type:varchar(20);not null" json:"entity_type"` // "project" | "event"
	EntityKey     string    `gorm:"type:varchar(100);not null" json:"entity_key"` // e.g. "P1" or "2025-01|P1"
	Action        string    `gorm:"type:varchar(10);not null" json:"action"`      // INSERT | UPDATE | DELETE
	ChangedFields *string   `gorm:"type:text" json:"changed_fields"`              // sorted, comma-separated
	BeforeJSON    *string   `gorm:"column:before_json;type:text" json:"before_json"`
	AfterJSON     *string   `gorm:"column:after_json;type:text" json:"after_json"`
	Actor         string    `gorm:"type:varchar(50);not null" json:"actor"`
	ActedAt       time.Time `gorm:"autoCreateTime" json:"acted_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
