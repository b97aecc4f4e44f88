package stats

import (
	"activity-marketplace/internal/global/database"
	"activity-marketplace/internal/model"

	"github.com/shopspring/decimal"
)

type spotTotals struct {
	ScheduleCount int64 `gorm:"column:schedule_count" json:"schedule_count"`
	TotalSpots    int64 `gorm:"column:total_spots" json:"total_spots"`
	BookedSpots   int64 `gorm:"column:booked_spots" json:"booked_spots"`
}

const spotColumns = `
	COUNT(schedule.id) AS schedule_count,
	COALESCE(SUM(schedule.available_spots), 0) AS total_spots,
	COALESCE(SUM(schedule.booked_spots), 0) AS booked_spots`

func (t spotTotals) occupancy() float64 {
	if t.TotalSpots == 0 {
		return 0
	}
	f, _ := decimal.NewFromInt(t.BookedSpots).
		Div(decimal.NewFromInt(t.TotalSpots)).
		Round(4).Float64()
	return f
}

func selectActivityTotals(activityID string) (spotTotals, error) {
	var t spotTotals
	err := database.DB.Model(&model.Schedule{}).
		Select(spotColumns).
		Where("activity_id = ?", activityID).
		Scan(&t).Error
	return t, err
}

func selectHostTotals(userID string) (spotTotals, error) {
	var t spotTotals
	err := database.DB.Model(&model.Schedule{}).
		Select(spotColumns).
		Joins("JOIN activity ON activity.id = schedule.activity_id").
		Where("activity.creator_id = ?", userID).
		Scan(&t).Error
	return t, err
}

type activityCounts struct {
	Total int64 `gorm:"column:total"`
	Draft int64 `gorm:"column:draft"`
}

func selectActivityCounts(userID string) (activityCounts, error) {
	var c activityCounts
	err := database.DB.Model(&model.Activity{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS draft", model.ActivityStatusDraft).
		Where("creator_id = ?", userID).
		Scan(&c).Error
	return c, err
}

type groupedTotals struct {
	ActivityID    string `gorm:"column:activity_id"`
	ScheduleCount int64  `gorm:"column:schedule_count"`
	TotalSpots    int64  `gorm:"column:total_spots"`
	BookedSpots   int64  `gorm:"column:booked_spots"`
}

// selectTotalsByActivity 按活动分组的场次汇总
func selectTotalsByActivity(userID string) (map[string]spotTotals, error) {
	var rows []groupedTotals
	if err := database.DB.Model(&model.Schedule{}).
		Select("schedule.activity_id AS activity_id,"+spotColumns).
		Joins("JOIN activity ON activity.id = schedule.activity_id").
		Where("activity.creator_id = ?", userID).
		Group("schedule.activity_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]spotTotals, len(rows))
	for _, r := range rows {
		out[r.ActivityID] = spotTotals{
			ScheduleCount: r.ScheduleCount,
			TotalSpots:    r.TotalSpots,
			BookedSpots:   r.BookedSpots,
		}
	}
	return out, nil
}
