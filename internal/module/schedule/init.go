package schedule

import (
	"log/slog"

	"activity-marketplace/internal/global/logger"
)

var log *slog.Logger = logger.Discard()

type ModuleSchedule struct{}

func (p *ModuleSchedule) GetName() string {
	return "Schedule"
}

func (p *ModuleSchedule) Init() {
	log = logger.New("Schedule")
}
