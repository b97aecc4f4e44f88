package stats

import (
	"log/slog"

	"activity-marketplace/internal/global/logger"
)

var log *slog.Logger = logger.Discard()

type ModuleStats struct{}

func (*ModuleStats) GetName() string {
	return "Stats"
}

func (*ModuleStats) Init() {
	log = logger.New("Stats")
}
