package balance

import (
	"log/slog"

	"activity-marketplace/internal/global/logger"
)

var log *slog.Logger = logger.Discard()

type ModuleBalance struct{}

func (p *ModuleBalance) GetName() string {
	return "Balance"
}

func (p *ModuleBalance) Init() {
	log = logger.New("Balance")
}
