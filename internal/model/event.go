package model

// ProjectMonthlyEvent records proposal/approval activity of one project in one
// calendar month of one snapshot. ChampionID is a deliberate denormalized copy:
// it captures who acted in that month, which may differ from the project's
// current champion.
type ProjectMonthlyEvent struct {
	SnapshotID    uint    `gorm:"column:snapshot_id;primaryKey;autoIncrement:false" json:"snapshot_id"`
	MonthKey      string  `gorm:"column:month_key;type:varchar(7);primaryKey" json:"month_key"` // YYYY-MM
	ProjectID     string  `gorm:"column:project_id;type:varchar(50);primaryKey" json:"project_id"`
	ChampionID    *uint   `gorm:"column:champion_id" json:"champion_id"`
	IsNewProposal bool    `gorm:"not null;default:false" json:"is_new_proposal"`
	IsApproved    bool    `gorm:"not null;default:false" json:"is_approved"`
	Note          *string `gorm:"type:text" json:"note"`
}

func (ProjectMonthlyEvent) TableName() string {
	return "project_monthly_events"
}
