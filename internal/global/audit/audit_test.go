package audit

import (
	"testing"

	"ax-dashboard/internal/model"
	"ax-dashboard/test"

	"github.com/stretchr/testify/require"
)

func TestRecordSortedUnionOfFields(t *testing.T) {
	db := test.SetupDB(t)

	before := map[string]any{"current_status": "제안", "note": "old"}
	after := map[string]any{"current_status": "완료", "approved_month": "2025-02"}
	require.NoError(t, Record(db, 1, EntityProject, "P1", ActionUpdate, before, after, "admin"))

	var entry model.AuditLog
	require.NoError(t, db.First(&entry).Error)
	require.Equal(t, EntityProject, entry.EntityType)
	require.Equal(t, "P1", entry.EntityKey)
	require.Equal(t, ActionUpdate, entry.Action)
	require.Equal(t, "admin", entry.Actor)
	// Union of both key sets, sorted; "note" only exists on the before side.
	require.NotNil(t, entry.ChangedFields)
	require.Equal(t, "approved_month,current_status,note", *entry.ChangedFields)
	require.NotNil(t, entry.BeforeJSON)
	require.NotNil(t, entry.AfterJSON)
	require.JSONEq(t, `{"current_status":"완료","approved_month":"2025-02"}`, *entry.AfterJSON)
}

func TestRecordInsertHasNoBefore(t *testing.T) {
	db := test.SetupDB(t)

	after := map[string]any{"project_name": "New", "current_status": "제안"}
	require.NoError(t, Record(db, 1, EntityProject, "P9", ActionInsert, nil, after, "importer"))

	var entry model.AuditLog
	require.NoError(t, db.First(&entry).Error)
	require.Nil(t, entry.BeforeJSON)
	require.NotNil(t, entry.AfterJSON)
	require.Equal(t, "current_status,project_name", *entry.ChangedFields)
}

func TestRecordDeleteHasNoAfter(t *testing.T) {
	db := test.SetupDB(t)

	before := map[string]any{"is_approved": true}
	require.NoError(t, Record(db, 1, EntityEvent, "2025-01|P1", ActionDelete, before, nil, "admin"))

	var entry model.AuditLog
	require.NoError(t, db.First(&entry).Error)
	require.NotNil(t, entry.BeforeJSON)
	require.Nil(t, entry.AfterJSON)
	require.Equal(t, "is_approved", *entry.ChangedFields)
}

func TestRecordBothSidesNil(t *testing.T) {
	db := test.SetupDB(t)

	require.NoError(t, Record(db, 1, EntityEvent, "2025-01|P1", ActionDelete, nil, nil, "admin"))

	var entry model.AuditLog
	require.NoError(t, db.First(&entry).Error)
	require.Nil(t, entry.ChangedFields)
	require.Nil(t, entry.BeforeJSON)
	require.Nil(t, entry.AfterJSON)
}
