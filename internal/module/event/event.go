package event

import (
	"strconv"

	"ax-dashboard/internal/global/audit"
	"ax-dashboard/internal/global/database"
	"ax-dashboard/internal/global/response"
	"ax-dashboard/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// EventRow is the list view with the acting champion's name resolved.
type EventRow struct {
	model.ProjectMonthlyEvent
	ChampionName *string `json:"champion_name"`
}

// ListEventsReq selects the snapshot and month to list.
type ListEventsReq struct {
	SnapshotID uint   `form:"snapshot_id" binding:"required"`
	Month      string `form:"month" binding:"required"`
}

// ListEvents returns the monthly events of one snapshot and month, ordered by
// project id.
func ListEvents(c *gin.Context) {
	var req ListEventsReq
	if err := c.ShouldBindQuery(&req); err != nil {
		log.Error("failed to bind event list query", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	var events []EventRow
	err := database.DB.Table("project_monthly_events AS e").
		Select("e.*, c.name AS champion_name").
		Joins("LEFT JOIN champions AS c ON e.champion_id = c.champion_id").
		Where("e.snapshot_id = ? AND e.month_key = ?", req.SnapshotID, req.Month).
		Order("e.project_id").
		Scan(&events).Error
	if err != nil {
		log.Error("failed to list events", "error", err, "snapshot_id", req.SnapshotID, "month", req.Month)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, events)
}

// UpdateEventReq supports partial updates; nil fields are left untouched.
// A champion id of 0 clears the reference.
type UpdateEventReq struct {
	ChampionID    *uint   `json:"champion_id"`
	IsNewProposal *bool   `json:"is_new_proposal"`
	IsApproved    *bool   `json:"is_approved"`
	Note          *string `json:"note"`
}

// UpdateEvent edits one monthly event and records the change. The edit and
// its audit entry commit in a single transaction.
func UpdateEvent(c *gin.Context) {
	snapshotID, err := strconv.ParseUint(c.Param("snapshot_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips("invalid snapshot id"))
		return
	}
	month := c.Param("month")
	projectID := c.Param("project_id")

	var req UpdateEventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind event update", "error", err, "project_id", projectID)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	actor := c.GetHeader("X-Actor")
	if actor == "" {
		actor = "admin"
	}

	err = ApplyEventUpdate(database.DB, uint(snapshotID), month, projectID, req, actor)
	switch {
	case err == nil:
		log.Info("event updated", "snapshot_id", snapshotID, "month", month, "project_id", projectID, "actor", actor)
		response.Success(c)
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Warn("event not found", "snapshot_id", snapshotID, "month", month, "project_id", projectID)
		response.Fail(c, response.ErrNotFound.WithTips("event not found"))
	default:
		log.Error("failed to update event", "error", err, "snapshot_id", snapshotID, "month", month, "project_id", projectID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
	}
}

// ApplyEventUpdate runs the partial update plus its audit record in one
// transaction. The audit entity key is "month|project_id".
func ApplyEventUpdate(db *gorm.DB, snapshotID uint, month, projectID string, req UpdateEventReq, actor string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var evt model.ProjectMonthlyEvent
		if err := tx.Where("snapshot_id = ? AND month_key = ? AND project_id = ?", snapshotID, month, projectID).
			First(&evt).Error; err != nil {
			return err
		}
		before := eventFields(&evt)

		if req.ChampionID != nil {
			evt.ChampionID = normalizeRef(req.ChampionID)
		}
		if req.IsNewProposal != nil {
			evt.IsNewProposal = *req.IsNewProposal
		}
		if req.IsApproved != nil {
			evt.IsApproved = *req.IsApproved
		}
		if req.Note != nil {
			evt.Note = req.Note
		}

		if err := tx.Save(&evt).Error; err != nil {
			return err
		}

		entityKey := month + "|" + projectID
		return audit.Record(tx, snapshotID, audit.EntityEvent, entityKey, audit.ActionUpdate,
			before, eventFields(&evt), actor)
	})
}

func normalizeRef(id *uint) *uint {
	if id == nil || *id == 0 {
		return nil
	}
	return id
}

func eventFields(e *model.ProjectMonthlyEvent) map[string]any {
	return map[string]any{
		"champion_id":     e.ChampionID,
		"is_new_proposal": e.IsNewProposal,
		"is_approved":     e.IsApproved,
		"note":            e.Note,
	}
}
