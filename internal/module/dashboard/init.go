package dashboard

import (
	"log/slog"

	"ax-dashboard/internal/global/logger"
)

var log *slog.Logger

type ModuleDashboard struct{}

func (d *ModuleDashboard) GetName() string {
	return "Dashboard"
}

func (d *ModuleDashboard) Init() {
	log = logger.New("Dashboard")
}
