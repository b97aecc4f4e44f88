package profile

import (
	"log/slog"

	"activity-marketplace/internal/global/logger"
)

var log *slog.Logger = logger.Discard()

type ModuleProfile struct{}

func (p *ModuleProfile) GetName() string {
	return "Profile"
}

func (p *ModuleProfile) Init() {
	log = logger.New("Profile")
}
