package upload

import (
	"log/slog"

	"activity-marketplace/internal/global/logger"
)

var log *slog.Logger = logger.Discard()

type ModuleUpload struct{}

func (p *ModuleUpload) GetName() string {
	return "Upload"
}

func (p *ModuleUpload) Init() {
	log = logger.New("Upload")
}
