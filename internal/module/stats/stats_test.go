package stats

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"activity-marketplace/internal/global/database"
	"activity-marketplace/internal/global/response"
	"activity-marketplace/internal/model"
	"activity-marketplace/test"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func seedActivity(t *testing.T, creatorID, title, status string, spots ...[2]int) model.Activity {
	a := model.Activity{Title: title, Status: status, CreatorID: creatorID}
	require.NoError(t, database.DB.Create(&a).Error)
	for _, s := range spots {
		require.NoError(t, database.DB.Create(&model.Schedule{
			ActivityID:     a.ID,
			Date:           "2026-12-01",
			StartTime:      "10:00",
			EndTime:        "11:00",
			AvailableSpots: s[0],
			BookedSpots:    s[1],
		}).Error)
	}
	return a
}

func TestHostBrief(t *testing.T) {
	test.Setup(t)
	r := test.Engine(&ModuleStats{})
	me, token := test.User(t, "host@example.com", model.RoleUser)
	other, _ := test.User(t, "other@example.com", model.RoleUser)

	seedActivity(t, me.ID, "A", model.ActivityStatusDraft, [2]int{10, 4}, [2]int{10, 1})
	seedActivity(t, me.ID, "B", model.ActivityStatusPublished, [2]int{20, 0})
	seedActivity(t, other.ID, "C", model.ActivityStatusDraft, [2]int{50, 50})
	require.NoError(t, database.DB.Create(&model.HostBalance{
		UserID:           me.ID,
		AvailableBalance: decimal.NewFromInt(80),
		TotalEarnings:    decimal.NewFromInt(120),
	}).Error)

	var brief HostBriefResp
	test.NoError(t, test.Do(t, r, http.MethodGet, "/api/stats/host", token, nil, &brief))
	assert.EqualValues(t, 2, brief.ActivityCount)
	assert.EqualValues(t, 1, brief.DraftCount)
	assert.EqualValues(t, 3, brief.ScheduleCount)
	assert.EqualValues(t, 40, brief.TotalSpots)
	assert.EqualValues(t, 5, brief.BookedSpots)
	assert.InDelta(t, 0.125, brief.Occupancy, 1e-9)
	assert.True(t, decimal.NewFromInt(120).Equal(brief.TotalEarnings))
}

func TestHostBriefEmpty(t *testing.T) {
	test.Setup(t)
	r := test.Engine(&ModuleStats{})
	_, token := test.User(t, "new@example.com", model.RoleUser)

	var brief HostBriefResp
	test.NoError(t, test.Do(t, r, http.MethodGet, "/api/stats/host", token, nil, &brief))
	assert.Zero(t, brief.ActivityCount)
	assert.Zero(t, brief.Occupancy)
	assert.True(t, brief.AvailableBalance.IsZero())
}

func TestActivityBrief(t *testing.T) {
	test.Setup(t)
	r := test.Engine(&ModuleStats{})
	me, token := test.User(t, "host@example.com", model.RoleUser)
	_, otherToken := test.User(t, "other@example.com", model.RoleUser)
	a := seedActivity(t, me.ID, "A", model.ActivityStatusDraft, [2]int{8, 2})

	var brief ActivityBriefResp
	test.NoError(t, test.Do(t, r, http.MethodGet, "/api/stats/activity/"+a.ID+"/brief", token, nil, &brief))
	assert.Equal(t, a.ID, brief.ActivityID)
	assert.EqualValues(t, 1, brief.ScheduleCount)
	assert.InDelta(t, 0.25, brief.Occupancy, 1e-9)

	resp := test.Do(t, r, http.MethodGet, "/api/stats/activity/"+a.ID+"/brief", otherToken, nil, nil)
	test.ErrorEqual(t, response.ErrNotFound, resp)
}

func TestHostExport(t *testing.T) {
	test.Setup(t)
	r := test.Engine(&ModuleStats{})
	me, token := test.User(t, "host@example.com", model.RoleUser)
	seedActivity(t, me.ID, "无场次", model.ActivityStatusDraft)
	seedActivity(t, me.ID, "有场次", model.ActivityStatusPublished, [2]int{10, 5})

	req := httptest.NewRequest(http.MethodGet, "/api/stats/host/export", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	rows, err := f.GetRows("活动统计")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"活动", "状态", "场次数", "总名额", "已预订", "预订率", "创建时间"}, rows[0])

	byTitle := map[string][]string{rows[1][0]: rows[1], rows[2][0]: rows[2]}
	assert.Equal(t, "1", byTitle["有场次"][2])
	assert.Equal(t, "5", byTitle["有场次"][4])
	assert.Equal(t, "0", byTitle["无场次"][2])
}
