package stats

import (
	"errors"
	"fmt"
	"time"

	"activity-marketplace/internal/global/database"
	"activity-marketplace/internal/global/jwt"
	"activity-marketplace/internal/global/response"
	"activity-marketplace/internal/model"
	"activity-marketplace/tools"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// HostBriefResp 主办方概览
type HostBriefResp struct {
	ActivityCount int64 `json:"activity_count"`
	DraftCount    int64 `json:"draft_count"`
	spotTotals
	Occupancy        float64         `json:"occupancy"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
	PendingBalance   decimal.Decimal `json:"pending_balance"`
	TotalEarnings    decimal.Decimal `json:"total_earnings"`
}

type ActivityBriefResp struct {
	ActivityID string `json:"activity_id"`
	spotTotals
	Occupancy float64 `json:"occupancy"`
}

type activityRow struct {
	Title         string    `excel:"活动"`
	Status        string    `excel:"状态"`
	ScheduleCount int64     `excel:"场次数"`
	TotalSpots    int64     `excel:"总名额"`
	BookedSpots   int64     `excel:"已预订"`
	Occupancy     float64   `excel:"预订率"`
	CreatedAt     time.Time `excel:"创建时间"`
}

func HostBrief(c *gin.Context) {
	payload, _ := jwt.GetUserPayload(c)

	counts, err := selectActivityCounts(payload.UserID)
	if err != nil {
		log.Error("统计活动数失败", "error", err, "user_id", payload.UserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	totals, err := selectHostTotals(payload.UserID)
	if err != nil {
		log.Error("统计场次失败", "error", err, "user_id", payload.UserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	var balance model.HostBalance
	err = database.DB.Where("user_id = ?", payload.UserID).Take(&balance).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error("查询余额失败", "error", err, "user_id", payload.UserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, HostBriefResp{
		ActivityCount:    counts.Total,
		DraftCount:       counts.Draft,
		spotTotals:       totals,
		Occupancy:        totals.occupancy(),
		AvailableBalance: balance.AvailableBalance,
		PendingBalance:   balance.PendingBalance,
		TotalEarnings:    balance.TotalEarnings,
	})
}

// ActivityBrief 只有创建者能看自己活动的预订情况
func ActivityBrief(c *gin.Context) {
	payload, _ := jwt.GetUserPayload(c)
	id := c.Param("id")

	var count int64
	if err := database.DB.Model(&model.Activity{}).
		Where("id = ? AND creator_id = ?", id, payload.UserID).
		Count(&count).Error; err != nil {
		log.Error("查询活动失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if count == 0 {
		response.Fail(c, response.ErrNotFound.WithTips("活动不存在"))
		return
	}

	totals, err := selectActivityTotals(id)
	if err != nil {
		log.Error("统计场次失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, ActivityBriefResp{ActivityID: id, spotTotals: totals, Occupancy: totals.occupancy()})
}

// HostExport 每个活动一行
func HostExport(c *gin.Context) {
	payload, _ := jwt.GetUserPayload(c)

	var activities []model.Activity
	if err := database.DB.Where("creator_id = ?", payload.UserID).
		Order("created_at DESC").Order("id DESC").
		Find(&activities).Error; err != nil {
		log.Error("获取活动失败", "error", err, "user_id", payload.UserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	totals, err := selectTotalsByActivity(payload.UserID)
	if err != nil {
		log.Error("统计场次失败", "error", err, "user_id", payload.UserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	rows := make([]activityRow, 0, len(activities))
	for _, a := range activities {
		t := totals[a.ID]
		rows = append(rows, activityRow{
			Title:         a.Title,
			Status:        a.Status,
			ScheduleCount: t.ScheduleCount,
			TotalSpots:    t.TotalSpots,
			BookedSpots:   t.BookedSpots,
			Occupancy:     t.occupancy(),
			CreatedAt:     a.CreatedAt,
		})
	}

	buf, err := tools.WriteWorkbook("活动统计", rows)
	if err != nil {
		log.Error("生成统计表失败", "error", err, "user_id", payload.UserID)
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
		return
	}
	tools.SendBuffer(c, buf, fmt.Sprintf("活动统计_%s.xlsx", time.Now().Format("20060102")), tools.ExcelContentType)
}
