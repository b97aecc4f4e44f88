package model

import "github.com/shopspring/decimal"

// Schedule 活动的一个场次
type Schedule struct {
	Model
	ActivityID     string           `gorm:"type:varchar(36);index;not null" json:"activity_id"`
	Date           string           `gorm:"type:varchar(10);not null" json:"date"`      // YYYY-MM-DD
	StartTime      string           `gorm:"type:varchar(5);not null" json:"start_time"` // HH:MM
	EndTime        string           `gorm:"type:varchar(5);not null" json:"end_time"`   // HH:MM
	AvailableSpots int              `gorm:"not null" json:"available_spots"`            // 总名额
	BookedSpots    int              `gorm:"not null;default:0" json:"booked_spots"`     // 已预订，写入时恒为 0
	PriceOverride  *decimal.Decimal `gorm:"type:decimal(12,2)" json:"price_override"`   // 为空时使用活动基础价格
}
