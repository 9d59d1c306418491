package snapshot

import (
	"github.com/gin-gonic/gin"
)

func (s *ModuleSnapshot) InitRouter(r *gin.RouterGroup) {
	snapshotGroup := r.Group("/snapshot")
	{
		// Upload a workbook and import it as a new snapshot
		snapshotGroup.POST("/upload", UploadSnapshot)

		// List imported snapshots, newest date first
		snapshotGroup.GET("/list", ListSnapshots)
	}
}
