package activity

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"activity-marketplace/config"
	"activity-marketplace/internal/global/database"
	"activity-marketplace/internal/global/geocoder"
	"activity-marketplace/internal/global/response"
	"activity-marketplace/internal/model"
	"activity-marketplace/test"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func createReq(title string) ActivityCreateReq {
	return ActivityCreateReq{
		Title:       title,
		Description: "desc",
		Location:    "Madrid",
		Category:    "outdoor",
		AgeRange:    "3-6",
		Price:       decimal.RequireFromString("12.50"),
	}
}

func create(t *testing.T, r http.Handler, token string, req any) model.Activity {
	var a model.Activity
	test.NoError(t, test.Do(t, r, http.MethodPost, "/api/activity/create", token, req, &a))
	return a
}

func TestCreateForcesDraftAndCreator(t *testing.T) {
	test.Setup(t)
	r := test.Engine(&ModuleActivity{})
	me, token := test.User(t, "host@example.com", model.RoleUser)

	// 请求中的 status 与 creator_id 会被忽略
	body := map[string]any{
		"title": "Taller", "description": "d", "location": "Madrid", "category": "art",
		"age_range": "all", "price": "10", "status": "published", "creator_id": "someone-else",
	}
	a := create(t, r, token, body)
	assert.Equal(t, model.ActivityStatusDraft, a.Status)
	assert.Equal(t, me.ID, a.CreatorID)
	assert.Equal(t, "Test", a.CreatorName)

	var stored model.Activity
	require.NoError(t, database.DB.Where("id = ?", a.ID).Take(&stored).Error)
	assert.Equal(t, model.ActivityStatusDraft, stored.Status)
	assert.Equal(t, me.ID, stored.CreatorID)
	assert.True(t, decimal.NewFromInt(10).Equal(stored.Price))
}

func TestCreateRequiresFields(t *testing.T) {
	test.Setup(t)
	r := test.Engine(&ModuleActivity{})
	_, token := test.User(t, "host@example.com", model.RoleUser)

	req := createReq("Taller")
	req.AgeRange = ""
	resp := test.Do(t, r, http.MethodPost, "/api/activity/create", token, req, nil)
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)

	resp = test.Do(t, r, http.MethodPost, "/api/activity/create", "", createReq("Taller"), nil)
	test.ErrorEqual(t, response.ErrTokenInvalid, resp)
}

func TestListPagination(t *testing.T) {
	test.Setup(t)
	r := test.Engine(&ModuleActivity{})
	me, token := test.User(t, "host@example.com", model.RoleUser)
	_, other := test.User(t, "other@example.com", model.RoleUser)

	for i := 0; i < 10; i++ {
		create(t, r, token, createReq(fmt.Sprintf("A%d", i)))
	}
	create(t, r, other, createReq("foreign"))

	var page ListActivitiesResp
	test.NoError(t, test.Do(t, r, http.MethodGet, "/api/activity/list?page=1&page_size=10&creator_id="+me.ID, "", nil, &page))
	assert.Len(t, page.Activities, 10)
	assert.EqualValues(t, 10, page.Total)
	for _, a := range page.Activities {
		assert.Equal(t, me.ID, a.CreatorID)
	}
	for i := 1; i < len(page.Activities); i++ {
		assert.False(t, page.Activities[i].CreatedAt.After(page.Activities[i-1].CreatedAt), "按创建时间倒序")
	}

	test.NoError(t, test.Do(t, r, http.MethodGet, "/api/activity/list?page=2&page_size=10&creator_id="+me.ID, "", nil, &page))
	assert.Empty(t, page.Activities)
	assert.NotNil(t, page.Activities)
}

func TestGetMineOnlyOwned(t *testing.T) {
	test.Setup(t)
	r := test.Engine(&ModuleActivity{})
	_, token := test.User(t, "host@example.com", model.RoleUser)
	_, other := test.User(t, "other@example.com", model.RoleUser)
	a := create(t, r, token, createReq("Mine"))

	var got model.Activity
	test.NoError(t, test.Do(t, r, http.MethodGet, "/api/activity/mine/"+a.ID, token, nil, &got))
	assert.Equal(t, a.ID, got.ID)

	resp := test.Do(t, r, http.MethodGet, "/api/activity/mine/"+a.ID, other, nil, nil)
	test.ErrorEqual(t, response.ErrNotFound, resp)

	// 公开详情不限制创建人
	test.NoError(t, test.Do(t, r, http.MethodGet, "/api/activity/get/"+a.ID, "", nil, &got))
}

func TestUpdateFilteredByCreator(t *testing.T) {
	test.Setup(t)
	r := test.Engine(&ModuleActivity{})
	_, token := test.User(t, "host@example.com", model.RoleUser)
	_, other := test.User(t, "other@example.com", model.RoleUser)
	a := create(t, r, token, createReq("Before"))

	title := "After"
	resp := test.Do(t, r, http.MethodPut, "/api/activity/update/"+a.ID, other, ActivityUpdateReq{Title: &title}, nil)
	test.ErrorEqual(t, response.ErrNotFound, resp)

	var got model.Activity
	test.NoError(t, test.Do(t, r, http.MethodPut, "/api/activity/update/"+a.ID, token, ActivityUpdateReq{Title: &title}, &got))
	assert.Equal(t, "After", got.Title)
	assert.Equal(t, "Madrid", got.Location)

	bad := "archived"
	resp = test.Do(t, r, http.MethodPut, "/api/activity/update/"+a.ID, token, ActivityUpdateReq{Status: &bad}, nil)
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)
}

func TestExportSchedules(t *testing.T) {
	test.Setup(t)
	r := test.Engine(&ModuleActivity{})
	_, token := test.User(t, "host@example.com", model.RoleUser)
	a := create(t, r, token, createReq("Taller"))

	override := decimal.RequireFromString("8.00")
	require.NoError(t, database.DB.Create(&[]model.Schedule{
		{ActivityID: a.ID, Date: "2026-05-02", StartTime: "10:00", EndTime: "11:00", AvailableSpots: 5},
		{ActivityID: a.ID, Date: "2026-05-01", StartTime: "09:00", EndTime: "10:00", AvailableSpots: 8, PriceOverride: &override},
	}).Error)

	req := httptest.NewRequest(http.MethodGet, "/api/activity/"+a.ID+"/schedules/export", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	rows, err := f.GetRows("场次")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "日期", rows[0][0])
	assert.Equal(t, "2026-05-01", rows[1][0])
	assert.Equal(t, "8", rows[1][5])
	assert.Equal(t, "12.5", rows[2][5])
}

func TestGetLocation(t *testing.T) {
	test.Setup(t)
	r := test.Engine(&ModuleActivity{})
	_, token := test.User(t, "host@example.com", model.RoleUser)
	a := create(t, r, token, createReq("Taller"))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "Madrid", req.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`[{"lat":"40.4","lon":"-3.7","display_name":"Madrid"}]`))
	}))
	defer srv.Close()

	prev := geo
	geo = geocoder.New(config.Geocoder{Enable: true, BaseURL: srv.URL}, resty.New(), nil)
	defer func() { geo = prev }()

	var loc geocoder.Location
	test.NoError(t, test.Do(t, r, http.MethodGet, "/api/activity/"+a.ID+"/location", "", nil, &loc))
	assert.InDelta(t, 40.4, loc.Lat, 1e-9)

	geo = geocoder.New(config.Geocoder{}, resty.New(), nil)
	resp := test.Do(t, r, http.MethodGet, "/api/activity/"+a.ID+"/location", "", nil, nil)
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)
}
