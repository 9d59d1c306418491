package module

import (
	"ax-dashboard/internal/module/audit"
	"ax-dashboard/internal/module/champion"
	"ax-dashboard/internal/module/dashboard"
	"ax-dashboard/internal/module/event"
	"ax-dashboard/internal/module/ping"
	"ax-dashboard/internal/module/project"
	"ax-dashboard/internal/module/snapshot"
	"ax-dashboard/internal/module/strategy"

	"github.com/gin-gonic/gin"
)

type Module interface {
	GetName() string
	Init()
	InitRouter(r *gin.RouterGroup)
}

var Modules []Module

func registerModule(m []Module) {
	Modules = append(Modules, m...)
}

func init() {
	// Register your module here
	registerModule([]Module{
		&ping.ModulePing{},
		&snapshot.ModuleSnapshot{},
		&dashboard.ModuleDashboard{},
		&project.ModuleProject{},
		&event.ModuleEvent{},
		&champion.ModuleChampion{},
		&strategy.ModuleStrategy{},
		&audit.ModuleAudit{},
	})
}
