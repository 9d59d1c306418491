package strategy

import (
	"log/slog"

	"ax-dashboard/internal/global/logger"
)

var log *slog.Logger

type ModuleStrategy struct{}

func (m *ModuleStrategy) GetName() string {
	return "Strategy"
}

func (m *ModuleStrategy) Init() {
	log = logger.New("Strategy")
}
