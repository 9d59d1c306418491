package model

// Champion is a project owner, shared across snapshots. Rows are created
// lazily the first time a name shows up in an import or an edit; the unique
// index on name is the race-safety backstop for get-or-create.
type Champion struct {
	ChampionID uint   `gorm:"column:champion_id;primaryKey" json:"champion_id"`
	Name       string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	IsActive   bool   `gorm:"default:true" json:"is_active"`
}

func (Champion) TableName() string {
	return "champions"
}
