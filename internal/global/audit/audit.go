// Package audit appends immutable change records for mutations on imported
// data. The recorder is independent of how the mutation was triggered: CRUD
// handlers pass their transaction in, so the audit row commits or rolls back
// together with the data change.
package audit

import (
	"encoding/json"
	"sort"
	"strings"

	"ax-dashboard/internal/model"

	"gorm.io/gorm"
)

const (
	EntityProject = "project"
	EntityEvent   = "event"

	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// Record appends one AuditLog row inside tx. Before and after are field
// snapshots; either may be nil (INSERT has no before, DELETE has no after).
// ChangedFields is the sorted union of both key sets, not a value diff: a
// field present on both sides is listed even when its value did not change.
func Record(tx *gorm.DB, snapshotID uint, entityType, entityKey, action string,
	before, after map[string]any, actor string) error {

	entry := model.AuditLog{
		SnapshotID: snapshotID,
		EntityType: entityType,
		EntityKey:  entityKey,
		Action:     action,
		Actor:      actor,
	}

	fieldSet := map[string]struct{}{}
	for k := range before {
		fieldSet[k] = struct{}{}
	}
	for k := range after {
		fieldSet[k] = struct{}{}
	}
	if len(fieldSet) > 0 {
		fields := make([]string, 0, len(fieldSet))
		for k := range fieldSet {
			fields = append(fields, k)
		}
		sort.Strings(fields)
		joined := strings.Join(fields, ",")
		entry.ChangedFields = &joined
	}

	if before != nil {
		raw, err := json.Marshal(before)
		if err != nil {
			return err
		}
		s := string(raw)
		entry.BeforeJSON = &s
	}
	if after != nil {
		raw, err := json.Marshal(after)
		if err != nil {
			return err
		}
		s := string(raw)
		entry.AfterJSON = &s
	}

	return tx.Create(&entry).Error
}
