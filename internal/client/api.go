package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"activity-marketplace/internal/global/httpclient"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// envelope 服务端统一响应格式
type envelope struct {
	Code   int32           `json:"code"`
	Msg    string          `json:"msg"`
	Origin string          `json:"origin"`
	Data   json.RawMessage `json:"data"`
}

var (
	_ ActivityStore = (*API)(nil)
	_ EditorStore   = (*API)(nil)
	_ ScheduleStore = (*API)(nil)
	_ ForumStore    = (*API)(nil)
	_ BalanceStore  = (*API)(nil)
	_ ProfileStore  = (*API)(nil)
	_ RoleStore     = (*API)(nil)
)

// API 市场后端的 HTTP 客户端，持有当前会话 token
type API struct {
	http *resty.Client

	mu       sync.RWMutex
	token    string
	onReject func()
}

// NewAPI baseURL 需包含路由前缀，例如 http://localhost:8080/api
func NewAPI(baseURL string, timeout time.Duration) *API {
	c := httpclient.New(timeout).
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json")
	return &API{http: c}
}

func (a *API) SetToken(token string) {
	a.mu.Lock()
	a.token = token
	a.mu.Unlock()
}

func (a *API) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

// OnTokenRejected 服务端判定 token 无效时回调
func (a *API) OnTokenRejected(fn func()) {
	a.mu.Lock()
	a.onReject = fn
	a.mu.Unlock()
}

func (a *API) request(ctx context.Context) *resty.Request {
	req := a.http.R().SetContext(ctx)
	if token := a.Token(); token != "" {
		req.SetAuthToken(token)
	}
	return req
}

func (a *API) execute(req *resty.Request, method, path string, out any) error {
	sentToken := a.Token()
	resp, err := req.Execute(method, path)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode())
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return errors.Wrapf(err, "decode %s %s", method, path)
	}
	if env.Code != CodeSuccess {
		if env.Code == CodeTokenInvalid && sentToken != "" {
			a.mu.RLock()
			fn := a.onReject
			a.mu.RUnlock()
			if fn != nil {
				fn()
			}
		}
		return &APIError{Code: env.Code, Msg: env.Msg}
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	return errors.Wrapf(json.Unmarshal(env.Data, out), "decode %s %s data", method, path)
}

func (a *API) do(ctx context.Context, method, path string, body, out any) error {
	req := a.request(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	return a.execute(req, method, path, out)
}

func (a *API) get(ctx context.Context, path string, query map[string]string, out any) error {
	return a.execute(a.request(ctx).SetQueryParams(query), http.MethodGet, path, out)
}

// ---- auth ----

func (a *API) SignUp(ctx context.Context, in SignUpInput) (*Session, error) {
	var s Session
	if err := a.do(ctx, http.MethodPost, "/auth/sign-up", in, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (a *API) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	body := map[string]string{"email": email, "password": password}
	if err := a.do(ctx, http.MethodPost, "/auth/sign-in", body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (a *API) CurrentIdentity(ctx context.Context) (*Identity, error) {
	var id Identity
	if err := a.get(ctx, "/auth/session", nil, &id); err != nil {
		return nil, err
	}
	return &id, nil
}

func (a *API) SignOut(ctx context.Context) error {
	return a.do(ctx, http.MethodPost, "/auth/sign-out", nil, nil)
}

func (a *API) UpdatePassword(ctx context.Context, password string) error {
	return a.do(ctx, http.MethodPut, "/auth/credentials", map[string]string{"password": password}, nil)
}

// ---- profile ----

func (a *API) GetProfile(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := a.get(ctx, "/profile/me", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (a *API) UpdateProfile(ctx context.Context, patch ProfilePatch) (*Profile, error) {
	var p Profile
	if err := a.do(ctx, http.MethodPut, "/profile/me", patch, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (a *API) UpdateBankAccount(ctx context.Context, account string) (*Profile, error) {
	var p Profile
	body := map[string]string{"bank_account": account}
	if err := a.do(ctx, http.MethodPut, "/profile/me/bank-account", body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (a *API) UploadAvatar(ctx context.Context, filename string, r io.Reader) (*Profile, error) {
	var p Profile
	req := a.request(ctx).SetFileReader("file", filename, r)
	if err := a.execute(req, http.MethodPost, "/profile/me/avatar", &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (a *API) GetRoles(ctx context.Context, userID string) (*Roles, error) {
	var r Roles
	if err := a.get(ctx, "/profile/roles/"+userID, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (a *API) LookupProfile(ctx context.Context, email string) (*ProfileRef, error) {
	var ref ProfileRef
	if err := a.get(ctx, "/profile/lookup", map[string]string{"email": email}, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

func (a *API) SetAdmin(ctx context.Context, userID string, admin bool) error {
	return a.do(ctx, http.MethodPut, "/profile/"+userID+"/admin", map[string]bool{"is_admin": admin}, nil)
}

// ---- activity ----

func (a *API) ListActivities(ctx context.Context, q ActivityQuery) (*ActivityPage, error) {
	params := map[string]string{}
	if q.CreatorID != "" {
		params["creator_id"] = q.CreatorID
	}
	if q.Category != "" {
		params["category"] = q.Category
	}
	if q.Page > 0 {
		params["page"] = strconv.Itoa(q.Page)
	}
	if q.PageSize > 0 {
		params["page_size"] = strconv.Itoa(q.PageSize)
	}
	var page ActivityPage
	if err := a.get(ctx, "/activity/list", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (a *API) GetActivity(ctx context.Context, id string) (*Activity, error) {
	var act Activity
	if err := a.get(ctx, "/activity/get/"+id, nil, &act); err != nil {
		return nil, err
	}
	return &act, nil
}

// GetMyActivity 只能取到自己创建的活动，别人的返回 404
func (a *API) GetMyActivity(ctx context.Context, id string) (*Activity, error) {
	var act Activity
	if err := a.get(ctx, "/activity/mine/"+id, nil, &act); err != nil {
		return nil, err
	}
	return &act, nil
}

func (a *API) CreateActivity(ctx context.Context, in ActivityInput) (*Activity, error) {
	var act Activity
	if err := a.do(ctx, http.MethodPost, "/activity/create", in, &act); err != nil {
		return nil, err
	}
	return &act, nil
}

func (a *API) UpdateActivity(ctx context.Context, id string, in ActivityInput) (*Activity, error) {
	var act Activity
	if err := a.do(ctx, http.MethodPut, "/activity/update/"+id, in, &act); err != nil {
		return nil, err
	}
	return &act, nil
}

// UploadImage 返回图片的公开地址
func (a *API) UploadImage(ctx context.Context, kind, filename string, r io.Reader) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	req := a.request(ctx).
		SetFileReader("file", filename, r).
		SetFormData(map[string]string{"kind": kind})
	if err := a.execute(req, http.MethodPost, "/upload/image", &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

// ---- schedule ----

func (a *API) ListSchedules(ctx context.Context, activityID string) ([]Schedule, error) {
	var list []Schedule
	if err := a.get(ctx, "/schedule/list", map[string]string{"activity_id": activityID}, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (a *API) CreateSchedule(ctx context.Context, in ScheduleInput) (*Schedule, error) {
	var s Schedule
	if err := a.do(ctx, http.MethodPost, "/schedule/create", in, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ---- forum ----

func (a *API) ListPosts(ctx context.Context) ([]ForumPost, error) {
	var posts []ForumPost
	if err := a.get(ctx, "/forum/posts", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (a *API) ListCategories(ctx context.Context) ([]ForumCategory, error) {
	var list []ForumCategory
	if err := a.get(ctx, "/forum/categories", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (a *API) CreatePost(ctx context.Context, categoryID, title, content string) (*ForumPost, error) {
	var post ForumPost
	body := map[string]string{"category_id": categoryID, "title": title, "content": content}
	if err := a.do(ctx, http.MethodPost, "/forum/posts", body, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (a *API) SetPostLocked(ctx context.Context, id string, locked bool) (*ForumPost, error) {
	var post ForumPost
	if err := a.do(ctx, http.MethodPut, "/forum/admin/posts/"+id+"/lock", map[string]bool{"is_locked": locked}, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (a *API) SetPostPinned(ctx context.Context, id string, pinned bool) (*ForumPost, error) {
	var post ForumPost
	if err := a.do(ctx, http.MethodPut, "/forum/admin/posts/"+id+"/pin", map[string]bool{"is_pinned": pinned}, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (a *API) DeletePost(ctx context.Context, id string) error {
	return a.do(ctx, http.MethodDelete, "/forum/admin/posts/"+id, nil, nil)
}

func (a *API) CreateCategory(ctx context.Context, name string) (*ForumCategory, error) {
	var cat ForumCategory
	if err := a.do(ctx, http.MethodPost, "/forum/admin/categories", map[string]string{"name": name}, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// ---- balance ----

func (a *API) GetBalance(ctx context.Context) (*Balance, error) {
	var b Balance
	if err := a.get(ctx, "/balance", nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (a *API) CreateWithdrawal(ctx context.Context, amount decimal.Decimal) (*Withdrawal, error) {
	var w Withdrawal
	if err := a.do(ctx, http.MethodPost, "/balance/withdraw", map[string]string{"amount": amount.String()}, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (a *API) ListWithdrawals(ctx context.Context) ([]Withdrawal, error) {
	var list []Withdrawal
	if err := a.get(ctx, "/balance/withdrawals", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}
