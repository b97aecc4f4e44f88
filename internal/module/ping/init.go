package ping

import (
	"log/slog"

	"activity-marketplace/internal/global/logger"
)

var log *slog.Logger = logger.Discard()

type ModulePing struct{}

func (p *ModulePing) GetName() string {
	return "Ping"
}

func (p *ModulePing) Init() {
	log = logger.New("Ping")
}
