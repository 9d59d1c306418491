package audit

import (
	"github.com/gin-gonic/gin"
)

func (m *ModuleAudit) InitRouter(r *gin.RouterGroup) {
	auditGroup := r.Group("/audit")
	{
		// Change history, newest first
		auditGroup.GET("/list", ListAuditLogs)
	}
}
