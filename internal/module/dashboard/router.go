package dashboard

import (
	"github.com/gin-gonic/gin"
)

func (d *ModuleDashboard) InitRouter(r *gin.RouterGroup) {
	dashboardGroup := r.Group("/dashboard")
	{
		// Full dashboard payload for one snapshot and month
		dashboardGroup.GET("/overview", Overview)

		// Rankings and distribution as a downloadable workbook
		dashboardGroup.GET("/export", Export)
	}
}
