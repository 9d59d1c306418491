package strategy

import (
	"ax-dashboard/internal/global/database"
	"ax-dashboard/internal/global/response"
	"ax-dashboard/internal/model"

	"github.com/gin-gonic/gin"
)

// ListStrategies returns all strategy categories ordered by name.
func ListStrategies(c *gin.Context) {
	var strategies []model.StrategyCategory
	if err := database.DB.Order("name").Find(&strategies).Error; err != nil {
		log.Error("failed to list strategies", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, strategies)
}
