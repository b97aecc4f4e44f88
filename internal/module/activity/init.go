package activity

import (
	"log/slog"
	"time"

	"activity-marketplace/config"
	"activity-marketplace/internal/global/geocoder"
	"activity-marketplace/internal/global/httpclient"
	"activity-marketplace/internal/global/logger"
	"activity-marketplace/internal/global/redis"
)

var (
	log *slog.Logger = logger.Discard()
	geo *geocoder.Geocoder
)

type ModuleActivity struct{}

func (p *ModuleActivity) GetName() string {
	return "Activity"
}

func (p *ModuleActivity) Init() {
	log = logger.New("Activity")
	geo = geocoder.New(config.Get().Geocoder, httpclient.New(10*time.Second), redis.Client)
}
