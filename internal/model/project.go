package model

// Project is one unit of work inside one snapshot. Snapshots are full
// point-in-time copies, so the same logical project id reappears as a new row
// under every snapshot that includes it; identity is (snapshot_id, project_id).
type Project struct {
	SnapshotID    uint    `gorm:"column:snapshot_id;primaryKey;autoIncrement:false" json:"snapshot_id"`
	ProjectID     string  `gorm:"column:project_id;type:varchar(50);primaryKey" json:"project_id"`
	ProjectName   string  `gorm:"type:varchar(255);not null" json:"project_name"`
	ChampionID    *uint   `gorm:"column:champion_id" json:"champion_id"`
	StrategyID    *uint   `gorm:"column:strategy_id" json:"strategy_id"`
	OrgUnit       *string `gorm:"type:varchar(100)" json:"org_unit"`
	CurrentStatus string  `gorm:"type:varchar(50);not null" json:"current_status"` // free text, never empty
	ProposedMonth *string `gorm:"type:varchar(20)" json:"proposed_month"`
	ApprovedMonth *string `gorm:"type:varchar(20)" json:"approved_month"`
}

func (Project) TableName() string {
	return "projects"
}
