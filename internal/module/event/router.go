package event

import (
	"github.com/gin-gonic/gin"
)

func (e *ModuleEvent) InitRouter(r *gin.RouterGroup) {
	eventGroup := r.Group("/event")
	{
		// List monthly events of a snapshot and month
		eventGroup.GET("/list", ListEvents)

		// Partial update of one event; writes an audit record
		eventGroup.PUT("/update/:snapshot_id/:month/:project_id", UpdateEvent)
	}
}
