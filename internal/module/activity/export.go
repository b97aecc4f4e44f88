package activity

import (
	"fmt"

	"activity-marketplace/internal/global/database"
	"activity-marketplace/internal/global/jwt"
	"activity-marketplace/internal/global/response"
	"activity-marketplace/internal/model"
	"activity-marketplace/tools"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type scheduleRow struct {
	Date           string          `excel:"日期"`
	StartTime      string          `excel:"开始时间"`
	EndTime        string          `excel:"结束时间"`
	AvailableSpots int             `excel:"名额"`
	BookedSpots    int             `excel:"已预订"`
	Price          decimal.Decimal `excel:"价格"`
}

// ExportSchedules 导出活动的全部场次，仅创建人可用
func ExportSchedules(c *gin.Context) {
	payload, _ := jwt.GetUserPayload(c)
	activity, ok := findActivity(c, c.Param("id"), payload.UserID)
	if !ok {
		return
	}

	var schedules []model.Schedule
	if err := database.DB.Where("activity_id = ?", activity.ID).
		Order("date ASC").Order("start_time ASC").Find(&schedules).Error; err != nil {
		log.Error("查询场次失败", "error", err, "activity_id", activity.ID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	rows := make([]scheduleRow, 0, len(schedules))
	for _, s := range schedules {
		price := activity.Price
		if s.PriceOverride != nil {
			price = *s.PriceOverride
		}
		rows = append(rows, scheduleRow{
			Date:           s.Date,
			StartTime:      s.StartTime,
			EndTime:        s.EndTime,
			AvailableSpots: s.AvailableSpots,
			BookedSpots:    s.BookedSpots,
			Price:          price,
		})
	}

	buf, err := tools.WriteWorkbook("场次", rows)
	if err != nil {
		log.Error("生成场次表格失败", "error", err, "activity_id", activity.ID)
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
		return
	}
	tools.SendBuffer(c, buf, fmt.Sprintf("%s-场次.xlsx", activity.Title), tools.ExcelContentType)
}
