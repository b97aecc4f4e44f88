package client

import (
	"context"
	"strings"
	"sync"
)

type ForumStore interface {
	ListPosts(ctx context.Context) ([]ForumPost, error)
	ListCategories(ctx context.Context) ([]ForumCategory, error)
	SetPostLocked(ctx context.Context, id string, locked bool) (*ForumPost, error)
	SetPostPinned(ctx context.Context, id string, pinned bool) (*ForumPost, error)
	DeletePost(ctx context.Context, id string) error
	CreateCategory(ctx context.Context, name string) (*ForumCategory, error)
}

// Confirmer 删除等不可逆操作前的二次确认
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

type ModerationState struct {
	Posts      []ForumPost
	Categories []string
	Loaded     bool
	Loading    bool
	Err        error
}

// ForumModeration 论坛管理页
type ForumModeration struct {
	session   SessionView
	store     ForumStore
	confirmer Confirmer
	notifier  Notifier

	mu    sync.Mutex
	state ModerationState
	gen   uint64
}

func NewForumModeration(session SessionView, store ForumStore, confirmer Confirmer, notifier Notifier) *ForumModeration {
	return &ForumModeration{
		session:   session,
		store:     store,
		confirmer: confirmer,
		notifier:  orDiscard(notifier),
	}
}

func (m *ForumModeration) Guard() Route {
	return GuardAdmin(m.session.Snapshot())
}

func (m *ForumModeration) authorize() error {
	switch m.Guard() {
	case RouteAllowed:
		return nil
	case RouteHome:
		return ErrNotAdmin
	default:
		return ErrNotSignedIn
	}
}

// Load 每次进入页面只加载一次
func (m *ForumModeration) Load(ctx context.Context) error {
	if err := m.authorize(); err != nil {
		return err
	}
	m.mu.Lock()
	if m.state.Loaded || m.state.Loading {
		m.mu.Unlock()
		return nil
	}
	m.gen++
	gen := m.gen
	m.state.Loading = true
	m.mu.Unlock()

	posts, err := m.store.ListPosts(ctx)
	var cats []ForumCategory
	if err == nil {
		cats, err = m.store.ListCategories(ctx)
	}

	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return nil
	}
	m.state.Loading = false
	if err != nil {
		m.state.Err = err
		m.mu.Unlock()
		m.notifier.Notify(failure("加载论坛数据失败", err))
		return err
	}
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, c.Name)
	}
	m.state = ModerationState{
		Posts:      append([]ForumPost(nil), posts...),
		Categories: names,
		Loaded:     true,
	}
	m.mu.Unlock()
	return nil
}

// Close 离开页面，下次进入重新加载
func (m *ForumModeration) Close() {
	m.mu.Lock()
	m.gen++
	m.state = ModerationState{}
	m.mu.Unlock()
}

func (m *ForumModeration) find(id string) (ForumPost, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.state.Posts {
		if p.ID == id {
			return p, true
		}
	}
	return ForumPost{}, false
}

func (m *ForumModeration) replace(updated *ForumPost) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.state.Posts {
		if m.state.Posts[i].ID == updated.ID {
			m.state.Posts[i] = *updated
			return
		}
	}
}

// ToggleLock 发送取反后的锁定状态，确认后用返回的行替换本地条目
func (m *ForumModeration) ToggleLock(ctx context.Context, id string) error {
	return m.toggle(ctx, id, "锁定状态已更新", func(p ForumPost) (*ForumPost, error) {
		return m.store.SetPostLocked(ctx, id, !p.IsLocked)
	})
}

func (m *ForumModeration) TogglePin(ctx context.Context, id string) error {
	return m.toggle(ctx, id, "置顶状态已更新", func(p ForumPost) (*ForumPost, error) {
		return m.store.SetPostPinned(ctx, id, !p.IsPinned)
	})
}

func (m *ForumModeration) toggle(ctx context.Context, id, done string, send func(ForumPost) (*ForumPost, error)) error {
	if err := m.authorize(); err != nil {
		return err
	}
	post, ok := m.find(id)
	if !ok {
		return ErrUnknownPost
	}
	updated, err := send(post)
	if err != nil {
		m.notifier.Notify(failure("操作失败", err))
		return err
	}
	m.replace(updated)
	m.notifier.Notify(success(done))
	return nil
}

// Delete 需要确认，远端删除成功后再从列表移除
func (m *ForumModeration) Delete(ctx context.Context, id string) error {
	if err := m.authorize(); err != nil {
		return err
	}
	if m.confirmer == nil || !m.confirmer.Confirm(ctx, "确定删除该帖子及其全部回复？") {
		return ErrNotConfirmed
	}
	if err := m.store.DeletePost(ctx, id); err != nil {
		m.notifier.Notify(failure("删除帖子失败", err))
		return err
	}

	m.mu.Lock()
	kept := m.state.Posts[:0:0]
	for _, p := range m.state.Posts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	m.state.Posts = kept
	m.mu.Unlock()
	m.notifier.Notify(success("帖子已删除"))
	return nil
}

// CreateCategory 重名由服务端唯一索引拒绝
func (m *ForumModeration) CreateCategory(ctx context.Context, name string) error {
	if err := m.authorize(); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		err := &MissingFieldsError{Fields: []string{"name"}}
		m.notifier.Notify(invalid("分类名称不能为空", ReasonMissingFields, err))
		return err
	}
	cat, err := m.store.CreateCategory(ctx, name)
	if err != nil {
		m.notifier.Notify(failure("创建分类失败", err))
		return err
	}

	m.mu.Lock()
	m.state.Categories = append(m.state.Categories, cat.Name)
	m.mu.Unlock()
	m.notifier.Notify(success("分类已创建"))
	return nil
}

func (m *ForumModeration) Snapshot() ModerationState {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.state
	s.Posts = append([]ForumPost(nil), m.state.Posts...)
	s.Categories = append([]string(nil), m.state.Categories...)
	return s
}
