package model

import "time"

// Snapshot is one immutable import batch. The date comes from the uploaded
// filename and is unique: a second upload for the same date is rejected, never
// merged or replaced.
type Snapshot struct {
	SnapshotID     uint      `gorm:"column:snapshot_id;primaryKey" json:"snapshot_id"`
	SnapshotDate   string    `gorm:"type:varchar(10);uniqueIndex;not null" json:"snapshot_date"` // YYYY-MM-DD
	UploadedAt     time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
	SourceFilename string    `gorm:"type:varchar(255);not null" json:"source_filename"`
}

func (Snapshot) TableName() string {
	return "snapshots"
}
