package database

import (
	"fmt"

	"ax-dashboard/config"
	"ax-dashboard/internal/model"
	"ax-dashboard/tools"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

var autoMigrateModels = []any{
	&model.Snapshot{},
	&model.Champion{},
	&model.StrategyCategory{},
	&model.Project{},
	&model.ProjectMonthlyEvent{},
	&model.AuditLog{},
}

func Init() {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		config.Get().Mysql.Username,
		config.Get().Mysql.Password,
		config.Get().Mysql.Host,
		config.Get().Mysql.Port,
		config.Get().Mysql.DBName,
	)
	gormConfig := &gorm.Config{}

	switch config.Get().Mode {
	case config.ModeDebug:
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	case config.ModeRelease:
		gormConfig.Logger = logger.Discard
	}

	db, err := gorm.Open(mysql.Open(dsn), gormConfig)
	tools.PanicOnErr(err)
	DB = db

	tools.PanicOnErr(Migrate(DB))
}

// Migrate applies the schema. Split out from Init so tests can run it against
// their own connection.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(autoMigrateModels...)
}
