package test

import (
	"fmt"
	"sync/atomic"
	"testing"

	"ax-dashboard/config"
	"ax-dashboard/internal/global/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// SetupDB loads config defaults and points the global database handle at a
// fresh in-memory SQLite instance with the full schema migrated. Each call
// gets its own named instance so parallel tests do not share state.
func SetupDB(t *testing.T) *gorm.DB {
	config.Init()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	database.DB = db
	return db
}
