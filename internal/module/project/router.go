package project

import (
	"github.com/gin-gonic/gin"
)

func (p *ModuleProject) InitRouter(r *gin.RouterGroup) {
	projectGroup := r.Group("/project")
	{
		// List projects of a snapshot with champion/strategy names resolved
		projectGroup.GET("/list", ListProjects)

		// Partial update of one project; writes an audit record
		projectGroup.PUT("/update/:snapshot_id/:project_id", UpdateProject)
	}
}
