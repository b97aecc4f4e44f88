package activity

import (
	"errors"

	"activity-marketplace/internal/global/geocoder"
	"activity-marketplace/internal/global/response"

	"github.com/gin-gonic/gin"
)

// GetLocation 活动地点的经纬度，供地图展示
func GetLocation(c *gin.Context) {
	activity, ok := findActivity(c, c.Param("id"), "")
	if !ok {
		return
	}
	if geo == nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips("地理编码未启用"))
		return
	}

	loc, err := geo.Lookup(c, activity.Location)
	switch {
	case errors.Is(err, geocoder.ErrDisabled):
		response.Fail(c, response.ErrInvalidRequest.WithTips("地理编码未启用"))
	case errors.Is(err, geocoder.ErrNotFound):
		response.Fail(c, response.ErrNotFound.WithTips("无法解析活动地点"))
	case err != nil:
		log.Error("地理编码失败", "error", err, "id", activity.ID)
		response.Fail(c, response.ErrUpstream.WithOrigin(err))
	default:
		response.Success(c, loc)
	}
}
