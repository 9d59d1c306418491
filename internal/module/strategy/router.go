package strategy

import (
	"github.com/gin-gonic/gin"
)

func (m *ModuleStrategy) InitRouter(r *gin.RouterGroup) {
	strategyGroup := r.Group("/strategy")
	{
		// Name-sorted strategy category list for edit forms
		strategyGroup.GET("/list", ListStrategies)
	}
}
