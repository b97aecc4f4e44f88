package auth

import (
	"log/slog"

	"activity-marketplace/internal/global/logger"
)

var log *slog.Logger = logger.Discard()

type ModuleAuth struct{}

func (p *ModuleAuth) GetName() string {
	return "Auth"
}

func (p *ModuleAuth) Init() {
	log = logger.New("Auth")
}
