package snapshot

import (
	"log/slog"

	"ax-dashboard/internal/global/logger"
)

var log *slog.Logger

type ModuleSnapshot struct{}

func (s *ModuleSnapshot) GetName() string {
	return "Snapshot"
}

func (s *ModuleSnapshot) Init() {
	log = logger.New("Snapshot")
}

func selfInit() {
	s := &ModuleSnapshot{}
	s.Init()
}
