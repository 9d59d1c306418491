package champion

import (
	"log/slog"

	"ax-dashboard/internal/global/logger"
)

var log *slog.Logger

type ModuleChampion struct{}

func (m *ModuleChampion) GetName() string {
	return "Champion"
}

func (m *ModuleChampion) Init() {
	log = logger.New("Champion")
}
