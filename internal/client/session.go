package client

import (
	"context"
	"log/slog"
	"sync"

	"activity-marketplace/internal/global/logger"
)

// IdentitySource 身份来源，AuthClient 实现
type IdentitySource interface {
	Current(ctx context.Context) (*Identity, error)
	Subscribe(fn func(*Identity)) func()
	SignOut(ctx context.Context) error
}

// RoleStore 角色查询与授权
type RoleStore interface {
	GetRoles(ctx context.Context, userID string) (*Roles, error)
	LookupProfile(ctx context.Context, email string) (*ProfileRef, error)
	SetAdmin(ctx context.Context, userID string, admin bool) error
}

// State 会话快照
type State struct {
	Identity     *Identity
	IsAdmin      bool
	IsSuperAdmin bool
	// Loading 首次读取身份未完成
	Loading bool
	// RolesPending 身份已知，角色标志尚未返回
	RolesPending bool
}

func (s State) clone() State {
	if s.Identity != nil {
		id := *s.Identity
		s.Identity = &id
	}
	return s
}

// Provider 维护当前身份与管理员标志。
// 每次身份变化递增代数，过期的角色查询结果直接丢弃。
type Provider struct {
	auth  IdentitySource
	roles RoleStore
	log   *slog.Logger

	mu          sync.Mutex
	state       State
	gen         uint64
	changed     chan struct{}
	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()
	closed      bool
}

func NewProvider(auth IdentitySource, roles RoleStore, log *slog.Logger) *Provider {
	if log == nil {
		log = logger.Discard()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Provider{
		auth:    auth,
		roles:   roles,
		log:     log,
		state:   State{Loading: true},
		changed: make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start 订阅身份变化并读取当前身份
func (p *Provider) Start(ctx context.Context) {
	p.mu.Lock()
	p.unsubscribe = p.auth.Subscribe(p.setIdentity)
	p.mu.Unlock()

	id, err := p.auth.Current(ctx)
	if err != nil {
		p.log.Warn("读取会话失败", "error", err)
		id = nil
	}
	p.setIdentity(id)
}

// Close 停止订阅，之后到达的结果不再生效
func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.gen++
	p.cancel()
	if p.unsubscribe != nil {
		p.unsubscribe()
	}
	p.broadcastLocked()
}

func (p *Provider) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.clone()
}

// WaitFor 阻塞直到 cond 成立或 ctx 结束
func (p *Provider) WaitFor(ctx context.Context, cond func(State) bool) (State, error) {
	for {
		p.mu.Lock()
		s := p.state.clone()
		ch := p.changed
		p.mu.Unlock()
		if cond(s) {
			return s, nil
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return s, ctx.Err()
		}
	}
}

func (p *Provider) setIdentity(id *Identity) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	// 同一用户重复通知时保留已有的角色结果
	if !p.state.Loading && sameIdentity(p.state.Identity, id) {
		p.mu.Unlock()
		return
	}
	p.gen++
	gen := p.gen
	p.state = State{Identity: id, RolesPending: id != nil}
	p.broadcastLocked()
	p.mu.Unlock()

	if id != nil {
		go p.loadRoles(gen, id.ID)
	}
}

func (p *Provider) loadRoles(gen uint64, userID string) {
	roles, err := p.roles.GetRoles(p.ctx, userID)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return
	}
	p.state.RolesPending = false
	switch {
	case IsNotFound(err):
		p.state.IsAdmin, p.state.IsSuperAdmin = false, false
	case err != nil:
		p.log.Warn("查询角色失败", "error", err, "user_id", userID)
		p.state.IsAdmin, p.state.IsSuperAdmin = false, false
	default:
		p.state.IsAdmin, p.state.IsSuperAdmin = roles.IsAdmin, roles.IsSuperAdmin
	}
	p.broadcastLocked()
}

// refreshRoles 当前用户角色被修改后重新查询
func (p *Provider) refreshRoles() {
	p.mu.Lock()
	if p.closed || p.state.Identity == nil {
		p.mu.Unlock()
		return
	}
	p.gen++
	gen := p.gen
	userID := p.state.Identity.ID
	p.state.RolesPending = true
	p.broadcastLocked()
	p.mu.Unlock()
	go p.loadRoles(gen, userID)
}

// SignOut 注销成功后立即清空身份与标志
func (p *Provider) SignOut(ctx context.Context) error {
	if err := p.auth.SignOut(ctx); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.gen++
	p.state = State{}
	p.broadcastLocked()
	return nil
}

// GrantAdmin 按邮箱查找用户并授予管理员
func (p *Provider) GrantAdmin(ctx context.Context, email string) error {
	ref, err := p.roles.LookupProfile(ctx, email)
	if err != nil {
		return err
	}
	if err := p.roles.SetAdmin(ctx, ref.ID, true); err != nil {
		return err
	}
	if s := p.Snapshot(); s.Identity != nil && s.Identity.ID == ref.ID {
		p.refreshRoles()
	}
	return nil
}

func (p *Provider) broadcastLocked() {
	close(p.changed)
	p.changed = make(chan struct{})
}

func sameIdentity(a, b *Identity) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID
}
