package forum

import (
	"net/http"
	"testing"

	"activity-marketplace/internal/global/database"
	"activity-marketplace/internal/global/response"
	"activity-marketplace/internal/model"
	"activity-marketplace/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(v bool) *bool { return &v }

type fixture struct {
	r          http.Handler
	admin      string
	user       string
	categoryID string
}

func setup(t *testing.T) fixture {
	test.Setup(t)
	r := test.Engine(&ModuleForum{})
	_, admin := test.User(t, "admin@example.com", model.RoleAdmin)
	_, user := test.User(t, "user@example.com", model.RoleUser)

	var category model.ForumCategory
	test.NoError(t, test.Do(t, r, http.MethodPost, "/api/forum/admin/categories", admin, CategoryCreateReq{Name: "General"}, &category))
	return fixture{r: r, admin: admin, user: user, categoryID: category.ID}
}

func (f fixture) post(t *testing.T, title string) model.ForumPost {
	var p model.ForumPost
	test.NoError(t, test.Do(t, f.r, http.MethodPost, "/api/forum/posts", f.user, PostCreateReq{
		CategoryID: f.categoryID, Title: title, Content: "**hola**",
	}, &p))
	return p
}

func TestToggleLockChangesOnlyLockFlag(t *testing.T) {
	f := setup(t)
	p := f.post(t, "Primer post")

	var before model.ForumPost
	require.NoError(t, database.DB.Where("id = ?", p.ID).Take(&before).Error)
	require.False(t, before.IsLocked)

	var after model.ForumPost
	test.NoError(t, test.Do(t, f.r, http.MethodPut, "/api/forum/admin/posts/"+p.ID+"/lock", f.admin, LockReq{IsLocked: boolPtr(true)}, &after))
	assert.True(t, after.IsLocked)

	var stored model.ForumPost
	require.NoError(t, database.DB.Where("id = ?", p.ID).Take(&stored).Error)
	assert.True(t, stored.IsLocked)

	// 除 is_locked 外其余字段不变
	stored.IsLocked = before.IsLocked
	assert.Equal(t, before, stored)
}

func TestSetFlagToCurrentValue(t *testing.T) {
	f := setup(t)
	p := f.post(t, "post")
	path := "/api/forum/admin/posts/" + p.ID + "/lock"

	for i := 0; i < 2; i++ {
		var after model.ForumPost
		test.NoError(t, test.Do(t, f.r, http.MethodPut, path, f.admin, LockReq{IsLocked: boolPtr(true)}, &after))
		assert.True(t, after.IsLocked)
	}
	test.NoError(t, test.Do(t, f.r, http.MethodPut, "/api/forum/admin/posts/"+p.ID+"/pin", f.admin, PinReq{IsPinned: boolPtr(false)}, nil))

	resp := test.Do(t, f.r, http.MethodPut, "/api/forum/admin/posts/missing/lock", f.admin, LockReq{IsLocked: boolPtr(true)}, nil)
	test.ErrorEqual(t, response.ErrNotFound, resp)
}

func TestPin(t *testing.T) {
	f := setup(t)
	older := f.post(t, "older")
	f.post(t, "newer")

	test.NoError(t, test.Do(t, f.r, http.MethodPut, "/api/forum/admin/posts/"+older.ID+"/pin", f.admin, PinReq{IsPinned: boolPtr(true)}, nil))

	var posts []model.ForumPost
	test.NoError(t, test.Do(t, f.r, http.MethodGet, "/api/forum/posts?pinned_first=true", "", nil, &posts))
	require.Len(t, posts, 2)
	assert.Equal(t, older.ID, posts[0].ID)
}

func TestModerationRequiresAdmin(t *testing.T) {
	f := setup(t)
	p := f.post(t, "post")

	resp := test.Do(t, f.r, http.MethodPut, "/api/forum/admin/posts/"+p.ID+"/lock", f.user, LockReq{IsLocked: boolPtr(true)}, nil)
	test.ErrorEqual(t, response.ErrUnauthorized, resp)
	resp = test.Do(t, f.r, http.MethodDelete, "/api/forum/admin/posts/"+p.ID, "", nil, nil)
	test.ErrorEqual(t, response.ErrTokenInvalid, resp)

	resp = test.Do(t, f.r, http.MethodPut, "/api/forum/admin/posts/missing/lock", f.admin, LockReq{IsLocked: boolPtr(true)}, nil)
	test.ErrorEqual(t, response.ErrNotFound, resp)
}

func TestRepliesAndLock(t *testing.T) {
	f := setup(t)
	p := f.post(t, "post")

	test.NoError(t, test.Do(t, f.r, http.MethodPost, "/api/forum/posts/"+p.ID+"/replies", f.admin, ReplyCreateReq{Content: "ok"}, nil))

	var detail PostDetail
	test.NoError(t, test.Do(t, f.r, http.MethodGet, "/api/forum/posts/"+p.ID, "", nil, &detail))
	assert.Equal(t, 1, detail.ReplyCount)
	assert.Len(t, detail.Replies, 1)
	assert.Equal(t, "General", detail.CategoryName)
	assert.Contains(t, detail.ContentHTML, "<strong>hola</strong>")

	test.NoError(t, test.Do(t, f.r, http.MethodPut, "/api/forum/admin/posts/"+p.ID+"/lock", f.admin, LockReq{IsLocked: boolPtr(true)}, nil))
	resp := test.Do(t, f.r, http.MethodPost, "/api/forum/posts/"+p.ID+"/replies", f.user, ReplyCreateReq{Content: "late"}, nil)
	test.ErrorEqual(t, response.ErrConflict, resp)
}

func TestUpdatePostAuthorOnly(t *testing.T) {
	f := setup(t)
	p := f.post(t, "post")

	title := "edited"
	resp := test.Do(t, f.r, http.MethodPut, "/api/forum/posts/"+p.ID, f.admin, PostUpdateReq{Title: &title}, nil)
	test.ErrorEqual(t, response.ErrForbidden, resp)

	var got model.ForumPost
	test.NoError(t, test.Do(t, f.r, http.MethodPut, "/api/forum/posts/"+p.ID, f.user, PostUpdateReq{Title: &title}, &got))
	assert.Equal(t, "edited", got.Title)
}

func TestDeletePost(t *testing.T) {
	f := setup(t)
	p := f.post(t, "post")
	test.NoError(t, test.Do(t, f.r, http.MethodPost, "/api/forum/posts/"+p.ID+"/replies", f.user, ReplyCreateReq{Content: "x"}, nil))

	test.NoError(t, test.Do(t, f.r, http.MethodDelete, "/api/forum/admin/posts/"+p.ID, f.admin, nil, nil))

	var count int64
	require.NoError(t, database.DB.Model(&model.ForumReply{}).Where("post_id = ?", p.ID).Count(&count).Error)
	assert.Zero(t, count)
	resp := test.Do(t, f.r, http.MethodGet, "/api/forum/posts/"+p.ID, "", nil, nil)
	test.ErrorEqual(t, response.ErrNotFound, resp)

	resp = test.Do(t, f.r, http.MethodDelete, "/api/forum/admin/posts/"+p.ID, f.admin, nil, nil)
	test.ErrorEqual(t, response.ErrNotFound, resp)
}

func TestCreateCategoryDuplicate(t *testing.T) {
	f := setup(t)
	resp := test.Do(t, f.r, http.MethodPost, "/api/forum/admin/categories", f.admin, CategoryCreateReq{Name: "General"}, nil)
	test.ErrorEqual(t, response.ErrAlreadyExists, resp)

	var categories []model.ForumCategory
	test.NoError(t, test.Do(t, f.r, http.MethodGet, "/api/forum/categories", "", nil, &categories))
	assert.Len(t, categories, 1)
}

func TestCreateCategoryBlankName(t *testing.T) {
	f := setup(t)
	resp := test.Do(t, f.r, http.MethodPost, "/api/forum/admin/categories", f.admin, CategoryCreateReq{Name: "   "}, nil)
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)

	var count int64
	require.NoError(t, database.DB.Model(&model.ForumCategory{}).Where("name = ?", "").Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreatePostUnknownCategory(t *testing.T) {
	f := setup(t)
	resp := test.Do(t, f.r, http.MethodPost, "/api/forum/posts", f.user, PostCreateReq{
		CategoryID: "missing", Title: "t", Content: "c",
	}, nil)
	test.ErrorEqual(t, response.ErrNotFound, resp)
}
