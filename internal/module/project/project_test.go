package project

import (
	"testing"

	"ax-dashboard/internal/global/audit"
	"ax-dashboard/internal/model"
	"ax-dashboard/test"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func ptr[T any](v T) *T { return &v }

func seedProject(t *testing.T, db *gorm.DB) model.Project {
	t.Helper()
	snap := model.Snapshot{SnapshotDate: "2025-01-01", SourceFilename: "2025-01-01.xlsx"}
	require.NoError(t, db.Create(&snap).Error)
	champion := model.Champion{Name: "Alice", IsActive: true}
	require.NoError(t, db.Create(&champion).Error)
	project := model.Project{
		SnapshotID:    snap.SnapshotID,
		ProjectID:     "P1",
		ProjectName:   "Original",
		ChampionID:    &champion.ChampionID,
		CurrentStatus: "제안",
	}
	require.NoError(t, db.Create(&project).Error)
	return project
}

func TestApplyProjectUpdatePartial(t *testing.T) {
	db := test.SetupDB(t)
	project := seedProject(t, db)

	req := UpdateProjectReq{
		ProjectName:   ptr("Renamed"),
		CurrentStatus: ptr("승인(진행중)"),
		ApprovedMonth: ptr("2025-02"),
	}
	require.NoError(t, ApplyProjectUpdate(db, project.SnapshotID, "P1", req, "kim"))

	var updated model.Project
	require.NoError(t, db.Where("snapshot_id = ? AND project_id = ?", project.SnapshotID, "P1").
		First(&updated).Error)
	require.Equal(t, "Renamed", updated.ProjectName)
	require.Equal(t, "승인(진행중)", updated.CurrentStatus)
	require.NotNil(t, updated.ApprovedMonth)
	require.Equal(t, "2025-02", *updated.ApprovedMonth)
	// Untouched fields survive.
	require.NotNil(t, updated.ChampionID)
	require.Equal(t, *project.ChampionID, *updated.ChampionID)

	var entry model.AuditLog
	require.NoError(t, db.First(&entry).Error)
	require.Equal(t, audit.EntityProject, entry.EntityType)
	require.Equal(t, "P1", entry.EntityKey)
	require.Equal(t, audit.ActionUpdate, entry.Action)
	require.Equal(t, "kim", entry.Actor)
	require.NotNil(t, entry.ChangedFields)
	require.Equal(t,
		"approved_month,champion_id,current_status,org_unit,project_name,proposed_month,strategy_id",
		*entry.ChangedFields)
	require.Contains(t, *entry.BeforeJSON, "Original")
	require.Contains(t, *entry.AfterJSON, "Renamed")
}

func TestApplyProjectUpdateClearsChampion(t *testing.T) {
	db := test.SetupDB(t)
	project := seedProject(t, db)

	req := UpdateProjectReq{ChampionID: ptr(uint(0))}
	require.NoError(t, ApplyProjectUpdate(db, project.SnapshotID, "P1", req, "admin"))

	var updated model.Project
	require.NoError(t, db.Where("snapshot_id = ? AND project_id = ?", project.SnapshotID, "P1").
		First(&updated).Error)
	require.Nil(t, updated.ChampionID)
}

func TestApplyProjectUpdateBlankStatusRejected(t *testing.T) {
	db := test.SetupDB(t)
	project := seedProject(t, db)

	req := UpdateProjectReq{CurrentStatus: ptr("   ")}
	err := ApplyProjectUpdate(db, project.SnapshotID, "P1", req, "admin")
	require.ErrorIs(t, err, errBlankStatus)

	// Nothing changed, nothing audited.
	var updated model.Project
	require.NoError(t, db.Where("snapshot_id = ? AND project_id = ?", project.SnapshotID, "P1").
		First(&updated).Error)
	require.Equal(t, "제안", updated.CurrentStatus)
	var auditCount int64
	require.NoError(t, db.Model(&model.AuditLog{}).Count(&auditCount).Error)
	require.Zero(t, auditCount)
}

func TestApplyProjectUpdateNotFound(t *testing.T) {
	db := test.SetupDB(t)
	project := seedProject(t, db)

	err := ApplyProjectUpdate(db, project.SnapshotID, "NOPE", UpdateProjectReq{ProjectName: ptr("x")}, "admin")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var auditCount int64
	require.NoError(t, db.Model(&model.AuditLog{}).Count(&auditCount).Error)
	require.Zero(t, auditCount)
}
