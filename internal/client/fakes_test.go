package client

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/shopspring/decimal"
)

// fakeMarket 内存版后端，行为与服务端一致：创建人取自会话、状态强制草稿
type fakeMarket struct {
	mu     sync.Mutex
	caller string
	seq    int

	activities  []Activity // 新的在前
	schedules   []Schedule
	posts       []ForumPost
	categories  []ForumCategory
	balance     Balance
	withdrawals []Withdrawal
	profile     Profile
	uploads     []string

	calls map[string]int
	fail  map[string]error
}

func newFakeMarket(caller string) *fakeMarket {
	return &fakeMarket{
		caller:  caller,
		calls:   make(map[string]int),
		fail:    make(map[string]error),
		balance: Balance{UserID: caller},
		profile: Profile{ID: caller, Email: caller + "@example.com"},
	}
}

func (m *fakeMarket) enter(op string) error {
	m.calls[op]++
	return m.fail[op]
}

func (m *fakeMarket) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *fakeMarket) count(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *fakeMarket) setFail(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[op] = err
}

func (m *fakeMarket) seedActivities(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i < n; i++ {
		a := Activity{ID: m.nextID("act"), Title: fmt.Sprintf("活动 %d", i), CreatorID: m.caller, Status: StatusDraft}
		m.activities = append([]Activity{a}, m.activities...)
	}
}

func (m *fakeMarket) ListActivities(_ context.Context, q ActivityQuery) (*ActivityPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("ListActivities"); err != nil {
		return nil, err
	}
	var rows []Activity
	for _, a := range m.activities {
		if q.CreatorID == "" || a.CreatorID == q.CreatorID {
			rows = append(rows, a)
		}
	}
	start := (q.Page - 1) * q.PageSize
	if start > len(rows) {
		start = len(rows)
	}
	end := min(start+q.PageSize, len(rows))
	return &ActivityPage{
		Activities: append([]Activity{}, rows[start:end]...),
		Total:      int64(len(rows)),
		Page:       q.Page,
		PageSize:   q.PageSize,
	}, nil
}

func (m *fakeMarket) CreateActivity(_ context.Context, in ActivityInput) (*Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("CreateActivity"); err != nil {
		return nil, err
	}
	a := Activity{
		ID:          m.nextID("act"),
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Category:    in.Category,
		AgeRange:    in.AgeRange,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		IsPremium:   in.IsPremium,
		Status:      StatusDraft,
		CreatorID:   m.caller,
	}
	m.activities = append([]Activity{a}, m.activities...)
	return &a, nil
}

func (m *fakeMarket) GetMyActivity(_ context.Context, id string) (*Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("GetMyActivity"); err != nil {
		return nil, err
	}
	for _, a := range m.activities {
		if a.ID == id && a.CreatorID == m.caller {
			return &a, nil
		}
	}
	return nil, &APIError{Code: CodeNotFound, Msg: "资源不存在"}
}

func (m *fakeMarket) UpdateActivity(_ context.Context, id string, in ActivityInput) (*Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("UpdateActivity"); err != nil {
		return nil, err
	}
	for i, a := range m.activities {
		if a.ID == id && a.CreatorID == m.caller {
			a.Title, a.Description, a.Location = in.Title, in.Description, in.Location
			a.Category, a.AgeRange, a.Price = in.Category, in.AgeRange, in.Price
			a.ImageURL, a.IsPremium = in.ImageURL, in.IsPremium
			if in.Status != "" {
				a.Status = in.Status
			}
			m.activities[i] = a
			return &a, nil
		}
	}
	return nil, &APIError{Code: CodeNotFound, Msg: "资源不存在"}
}

func (m *fakeMarket) UploadImage(_ context.Context, kind, filename string, r io.Reader) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("UploadImage"); err != nil {
		return "", err
	}
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	url := "https://cdn.example.com/" + kind + "/" + filename
	m.uploads = append(m.uploads, url)
	return url, nil
}

func (m *fakeMarket) ListSchedules(_ context.Context, activityID string) ([]Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("ListSchedules"); err != nil {
		return nil, err
	}
	var out []Schedule
	for _, s := range m.schedules {
		if s.ActivityID == activityID {
			out = append(out, s)
		}
	}
	return out, nil
}

// CreateSchedule 原样保存客户端传来的 booked_spots，便于断言客户端行为
func (m *fakeMarket) CreateSchedule(_ context.Context, in ScheduleInput) (*Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("CreateSchedule"); err != nil {
		return nil, err
	}
	s := Schedule{
		ID:             m.nextID("sch"),
		ActivityID:     in.ActivityID,
		Date:           in.Date,
		StartTime:      in.StartTime,
		EndTime:        in.EndTime,
		AvailableSpots: in.AvailableSpots,
		BookedSpots:    in.BookedSpots,
		PriceOverride:  in.PriceOverride,
	}
	m.schedules = append(m.schedules, s)
	return &s, nil
}

func (m *fakeMarket) ListPosts(context.Context) ([]ForumPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("ListPosts"); err != nil {
		return nil, err
	}
	return append([]ForumPost{}, m.posts...), nil
}

func (m *fakeMarket) ListCategories(context.Context) ([]ForumCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("ListCategories"); err != nil {
		return nil, err
	}
	return append([]ForumCategory{}, m.categories...), nil
}

func (m *fakeMarket) updatePost(op, id string, fn func(*ForumPost)) (*ForumPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(op); err != nil {
		return nil, err
	}
	for i := range m.posts {
		if m.posts[i].ID == id {
			fn(&m.posts[i])
			p := m.posts[i]
			return &p, nil
		}
	}
	return nil, &APIError{Code: CodeNotFound, Msg: "帖子不存在"}
}

func (m *fakeMarket) SetPostLocked(_ context.Context, id string, locked bool) (*ForumPost, error) {
	return m.updatePost("SetPostLocked", id, func(p *ForumPost) { p.IsLocked = locked })
}

func (m *fakeMarket) SetPostPinned(_ context.Context, id string, pinned bool) (*ForumPost, error) {
	return m.updatePost("SetPostPinned", id, func(p *ForumPost) { p.IsPinned = pinned })
}

func (m *fakeMarket) DeletePost(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("DeletePost"); err != nil {
		return err
	}
	for i := range m.posts {
		if m.posts[i].ID == id {
			m.posts = append(m.posts[:i], m.posts[i+1:]...)
			return nil
		}
	}
	return &APIError{Code: CodeNotFound, Msg: "帖子不存在"}
}

func (m *fakeMarket) CreateCategory(_ context.Context, name string) (*ForumCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("CreateCategory"); err != nil {
		return nil, err
	}
	for _, c := range m.categories {
		if c.Name == name {
			return nil, &APIError{Code: CodeAlreadyExists, Msg: "资源已存在"}
		}
	}
	c := ForumCategory{ID: m.nextID("cat"), Name: name}
	m.categories = append(m.categories, c)
	return &c, nil
}

func (m *fakeMarket) GetBalance(context.Context) (*Balance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("GetBalance"); err != nil {
		return nil, err
	}
	b := m.balance
	return &b, nil
}

func (m *fakeMarket) CreateWithdrawal(_ context.Context, amount decimal.Decimal) (*Withdrawal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("CreateWithdrawal"); err != nil {
		return nil, err
	}
	if amount.GreaterThan(m.balance.AvailableBalance) {
		return nil, &APIError{Code: CodeInsufficientBalance, Msg: "可用余额不足"}
	}
	m.balance.AvailableBalance = m.balance.AvailableBalance.Sub(amount)
	m.balance.PendingBalance = m.balance.PendingBalance.Add(amount)
	w := Withdrawal{ID: m.nextID("wd"), UserID: m.caller, Amount: amount, Status: "pending", BankAccount: m.profile.BankAccount}
	m.withdrawals = append(m.withdrawals, w)
	return &w, nil
}

func (m *fakeMarket) UpdateBankAccount(_ context.Context, account string) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("UpdateBankAccount"); err != nil {
		return nil, err
	}
	m.profile.BankAccount = account
	p := m.profile
	return &p, nil
}

func (m *fakeMarket) GetProfile(context.Context) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("GetProfile"); err != nil {
		return nil, err
	}
	p := m.profile
	return &p, nil
}

func (m *fakeMarket) UpdateProfile(_ context.Context, patch ProfilePatch) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("UpdateProfile"); err != nil {
		return nil, err
	}
	if patch.FirstName != nil {
		m.profile.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		m.profile.LastName = *patch.LastName
	}
	if patch.Phone != nil {
		m.profile.Phone = *patch.Phone
	}
	if patch.AvatarURL != nil {
		m.profile.AvatarURL = *patch.AvatarURL
	}
	p := m.profile
	return &p, nil
}

func (m *fakeMarket) UploadAvatar(_ context.Context, filename string, r io.Reader) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("UploadAvatar"); err != nil {
		return nil, err
	}
	if _, err := io.ReadAll(r); err != nil {
		return nil, err
	}
	m.profile.AvatarURL = "https://cdn.example.com/avatars/" + filename
	p := m.profile
	return &p, nil
}

func (m *fakeMarket) UpdatePassword(context.Context, string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enter("UpdatePassword")
}

// recorder 收集通知
type recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *recorder) Notify(n Notification) {
	r.mu.Lock()
	r.items = append(r.items, n)
	r.mu.Unlock()
}

func (r *recorder) last() Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}
	}
	return r.items[len(r.items)-1]
}

func (r *recorder) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// fixedSession 固定的会话快照
type fixedSession State

func (s fixedSession) Snapshot() State {
	return State(s)
}

func signedIn(id string, admin bool) fixedSession {
	return fixedSession{Identity: &Identity{ID: id, Email: id + "@example.com"}, IsAdmin: admin}
}
