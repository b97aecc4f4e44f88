package model

import "github.com/shopspring/decimal"

const (
	ActivityStatusDraft     = "draft"
	ActivityStatusPublished = "published"
	ActivityStatusPending   = "pending"
)

type Activity struct {
	Model
	Title       string          `gorm:"type:varchar(200);not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	Location    string          `gorm:"type:varchar(255)" json:"location"`
	Category    string          `gorm:"type:varchar(64);index" json:"category"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	ImageURL    string          `gorm:"type:varchar(512)" json:"image_url"`
	AgeRange    string          `gorm:"type:varchar(64)" json:"age_range"` // 自由文本，如 "3-6"、"all"
	IsPremium   bool            `gorm:"default:false;not null" json:"is_premium"`
	Status      string          `gorm:"type:varchar(16);not null;default:draft" json:"status"`
	CreatorID   string          `gorm:"type:varchar(36);index;not null" json:"creator_id"`
	CreatorName string          `gorm:"type:varchar(200)" json:"creator_name"`
	Rating      float64         `gorm:"default:0" json:"rating"`
	ReviewCount int             `gorm:"default:0" json:"review_count"`
}
