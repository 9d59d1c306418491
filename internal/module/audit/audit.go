package audit

import (
	"ax-dashboard/internal/global/database"
	"ax-dashboard/internal/global/response"
	"ax-dashboard/internal/model"

	"github.com/gin-gonic/gin"
)

type ListAuditLogsReq struct {
	SnapshotID uint `form:"snapshot_id"`
	Limit      int  `form:"limit"`
}

// ListAuditLogs returns change records, newest first, optionally filtered to
// one snapshot.
func ListAuditLogs(c *gin.Context) {
	var req ListAuditLogsReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	if req.Limit <= 0 || req.Limit > 500 {
		req.Limit = 100
	}

	query := database.DB.Model(&model.AuditLog{})
	if req.SnapshotID != 0 {
		query = query.Where("snapshot_id = ?", req.SnapshotID)
	}

	var logs []model.AuditLog
	if err := query.Order("acted_at DESC, audit_id DESC").Limit(req.Limit).Find(&logs).Error; err != nil {
		log.Error("failed to list audit logs", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, logs)
}
