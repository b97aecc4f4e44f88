package schedule

import (
	"regexp"

	"activity-marketplace/internal/global/database"
	"activity-marketplace/internal/global/jwt"
	"activity-marketplace/internal/global/response"
	"activity-marketplace/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// ScheduleCreateReq 已预订数不接受客户端传入
type ScheduleCreateReq struct {
	ActivityID     string           `json:"activity_id" binding:"required"`
	Date           string           `json:"date" binding:"required"`
	StartTime      string           `json:"start_time" binding:"required"`
	EndTime        string           `json:"end_time" binding:"required"`
	AvailableSpots *int             `json:"available_spots" binding:"required"`
	PriceOverride  *decimal.Decimal `json:"price_override"`
}

type ListSchedulesReq struct {
	ActivityID string `form:"activity_id" binding:"required"`
}

// ListSchedules 活动的全部场次，按日期与开始时间升序，不分页
func ListSchedules(c *gin.Context) {
	var req ListSchedulesReq
	if err := c.ShouldBindQuery(&req); err != nil {
		log.Error("绑定查询参数失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	schedules := make([]model.Schedule, 0)
	if err := database.DB.Where("activity_id = ?", req.ActivityID).
		Order("date ASC").Order("start_time ASC").Find(&schedules).Error; err != nil {
		log.Error("获取场次列表失败", "error", err, "activity_id", req.ActivityID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, schedules)
}

// CreateSchedule 新增场次，活动必须属于调用者，booked_spots 恒为 0
func CreateSchedule(c *gin.Context) {
	payload, _ := jwt.GetUserPayload(c)

	var req ScheduleCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定创建场次请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	if !datePattern.MatchString(req.Date) || !timePattern.MatchString(req.StartTime) || !timePattern.MatchString(req.EndTime) {
		response.Fail(c, response.ErrInvalidRequest.WithTips("日期格式为 YYYY-MM-DD，时间格式为 HH:MM"))
		return
	}

	var activity model.Activity
	err := database.DB.Select("id").
		Where("id = ? AND creator_id = ?", req.ActivityID, payload.UserID).
		Take(&activity).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Warn("活动不存在或不属于当前用户", "activity_id", req.ActivityID, "user_id", payload.UserID)
		response.Fail(c, response.ErrNotFound.WithTips("活动不存在"))
		return
	case err != nil:
		log.Error("查询活动失败", "error", err, "activity_id", req.ActivityID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	schedule := model.Schedule{
		ActivityID:     activity.ID,
		Date:           req.Date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		AvailableSpots: *req.AvailableSpots,
		BookedSpots:    0,
		PriceOverride:  req.PriceOverride,
	}
	if err := database.DB.Create(&schedule).Error; err != nil {
		log.Error("创建场次失败", "error", err, "activity_id", activity.ID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("场次创建成功", "id", schedule.ID, "activity_id", activity.ID)
	response.Success(c, schedule)
}
