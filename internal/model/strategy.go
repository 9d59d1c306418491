package model

// StrategyCategory classifies projects. Same lazy-creation lifecycle as
// Champion.
type StrategyCategory struct {
	StrategyID uint   `gorm:"column:strategy_id;primaryKey" json:"strategy_id"`
	Name       string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	IsActive   bool   `gorm:"default:true" json:"is_active"`
}

func (StrategyCategory) TableName() string {
	return "strategy_categories"
}
