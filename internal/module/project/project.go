package project

import (
	"strconv"
	"strings"

	"ax-dashboard/internal/global/audit"
	"ax-dashboard/internal/global/database"
	"ax-dashboard/internal/global/response"
	"ax-dashboard/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var errBlankStatus = errors.New("current_status must not be blank")

// ProjectRow is the list view with champion/strategy names resolved.
type ProjectRow struct {
	model.Project
	ChampionName *string `json:"champion_name"`
	StrategyName *string `json:"strategy_name"`
}

// ListProjectsReq selects the snapshot to list.
type ListProjectsReq struct {
	SnapshotID uint `form:"snapshot_id" binding:"required"`
}

// ListProjects returns all projects of one snapshot, ordered by project id.
func ListProjects(c *gin.Context) {
	var req ListProjectsReq
	if err := c.ShouldBindQuery(&req); err != nil {
		log.Error("failed to bind project list query", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	var projects []ProjectRow
	err := database.DB.Table("projects AS p").
		Select("p.*, c.name AS champion_name, s.name AS strategy_name").
		Joins("LEFT JOIN champions AS c ON p.champion_id = c.champion_id").
		Joins("LEFT JOIN strategy_categories AS s ON p.strategy_id = s.strategy_id").
		Where("p.snapshot_id = ?", req.SnapshotID).
		Order("p.project_id").
		Scan(&projects).Error
	if err != nil {
		log.Error("failed to list projects", "error", err, "snapshot_id", req.SnapshotID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, projects)
}

// UpdateProjectReq supports partial updates; nil fields are left untouched.
// A champion/strategy id of 0 clears the reference.
type UpdateProjectReq struct {
	ProjectName   *string `json:"project_name"`
	ChampionID    *uint   `json:"champion_id"`
	StrategyID    *uint   `json:"strategy_id"`
	OrgUnit       *string `json:"org_unit"`
	CurrentStatus *string `json:"current_status"`
	ProposedMonth *string `json:"proposed_month"`
	ApprovedMonth *string `json:"approved_month"`
}

// UpdateProject edits one project row and records the change. The edit and
// its audit entry commit in a single transaction.
func UpdateProject(c *gin.Context) {
	snapshotID, err := strconv.ParseUint(c.Param("snapshot_id"), 10, 64)
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips("invalid snapshot id"))
		return
	}
	projectID := c.Param("project_id")

	var req UpdateProjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind project update", "error", err, "project_id", projectID)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	actor := c.GetHeader("X-Actor")
	if actor == "" {
		actor = "admin"
	}

	err = ApplyProjectUpdate(database.DB, uint(snapshotID), projectID, req, actor)
	switch {
	case err == nil:
		log.Info("project updated", "snapshot_id", snapshotID, "project_id", projectID, "actor", actor)
		response.Success(c)
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Warn("project not found", "snapshot_id", snapshotID, "project_id", projectID)
		response.Fail(c, response.ErrNotFound.WithTips("project not found"))
	case errors.Is(err, errBlankStatus):
		response.Fail(c, response.ErrInvalidRequest.WithTips("current_status must not be blank"))
	default:
		log.Error("failed to update project", "error", err, "snapshot_id", snapshotID, "project_id", projectID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
	}
}

// ApplyProjectUpdate runs the partial update plus its audit record in one
// transaction: if the audit insert fails, the data change rolls back too.
func ApplyProjectUpdate(db *gorm.DB, snapshotID uint, projectID string, req UpdateProjectReq, actor string) error {
	if req.CurrentStatus != nil && strings.TrimSpace(*req.CurrentStatus) == "" {
		return errBlankStatus
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var project model.Project
		if err := tx.Where("snapshot_id = ? AND project_id = ?", snapshotID, projectID).
			First(&project).Error; err != nil {
			return err
		}
		before := projectFields(&project)

		if req.ProjectName != nil {
			project.ProjectName = *req.ProjectName
		}
		if req.ChampionID != nil {
			project.ChampionID = normalizeRef(req.ChampionID)
		}
		if req.StrategyID != nil {
			project.StrategyID = normalizeRef(req.StrategyID)
		}
		if req.OrgUnit != nil {
			project.OrgUnit = req.OrgUnit
		}
		if req.CurrentStatus != nil {
			project.CurrentStatus = *req.CurrentStatus
		}
		if req.ProposedMonth != nil {
			project.ProposedMonth = req.ProposedMonth
		}
		if req.ApprovedMonth != nil {
			project.ApprovedMonth = req.ApprovedMonth
		}

		if err := tx.Save(&project).Error; err != nil {
			return err
		}

		return audit.Record(tx, snapshotID, audit.EntityProject, projectID, audit.ActionUpdate,
			before, projectFields(&project), actor)
	})
}

// normalizeRef treats id 0 as "unassigned".
func normalizeRef(id *uint) *uint {
	if id == nil || *id == 0 {
		return nil
	}
	return id
}

func projectFields(p *model.Project) map[string]any {
	return map[string]any{
		"project_name":   p.ProjectName,
		"champion_id":    p.ChampionID,
		"strategy_id":    p.StrategyID,
		"org_unit":       p.OrgUnit,
		"current_status": p.CurrentStatus,
		"proposed_month": p.ProposedMonth,
		"approved_month": p.ApprovedMonth,
	}
}
