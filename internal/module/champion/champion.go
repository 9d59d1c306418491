package champion

import (
	"strconv"

	"ax-dashboard/internal/global/database"
	"ax-dashboard/internal/global/response"
	"ax-dashboard/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ListChampions returns all champions ordered by name.
func ListChampions(c *gin.Context) {
	var champions []model.Champion
	if err := database.DB.Order("name").Find(&champions).Error; err != nil {
		log.Error("failed to list champions", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, champions)
}

type SetActiveReq struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// SetChampionActive flips the administrative active flag. Champions are never
// deleted, so deactivation is the only way to retire one.
func SetChampionActive(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips("invalid champion id"))
		return
	}

	var req SetActiveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	var champion model.Champion
	if err := database.DB.First(&champion, "champion_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("champion not found"))
			return
		}
		log.Error("failed to load champion", "error", err, "champion_id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	champion.IsActive = *req.IsActive
	if err := database.DB.Save(&champion).Error; err != nil {
		log.Error("failed to update champion", "error", err, "champion_id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("champion active flag updated", "champion_id", id, "is_active", *req.IsActive)
	response.Success(c)
}
