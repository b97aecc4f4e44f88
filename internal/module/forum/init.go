package forum

import (
	"log/slog"

	"activity-marketplace/internal/global/logger"
)

var log *slog.Logger = logger.Discard()

type ModuleForum struct{}

func (p *ModuleForum) GetName() string {
	return "Forum"
}

func (p *ModuleForum) Init() {
	log = logger.New("Forum")
}
