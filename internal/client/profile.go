package client

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"
)

// ProfileTimeout 资料加载超时
const ProfileTimeout = 10 * time.Second

type ProfileStore interface {
	GetProfile(ctx context.Context) (*Profile, error)
	UpdateProfile(ctx context.Context, patch ProfilePatch) (*Profile, error)
	UploadAvatar(ctx context.Context, filename string, r io.Reader) (*Profile, error)
}

type PasswordChanger interface {
	UpdatePassword(ctx context.Context, password string) error
}

type ProfileState struct {
	Profile *Profile
	Loading bool
	Err     error
}

// ProfileLoader 个人资料页
type ProfileLoader struct {
	store     ProfileStore
	passwords PasswordChanger
	notifier  Notifier
	// Timeout 为 0 时使用 ProfileTimeout
	Timeout time.Duration

	mu     sync.Mutex
	state  ProfileState
	gen    uint64
	closed bool
}

func NewProfileLoader(store ProfileStore, passwords PasswordChanger, notifier Notifier) *ProfileLoader {
	return &ProfileLoader{store: store, passwords: passwords, notifier: orDiscard(notifier)}
}

func (l *ProfileLoader) timeout() time.Duration {
	if l.Timeout > 0 {
		return l.Timeout
	}
	return ProfileTimeout
}

// Load 超时或页面已关闭时结果不生效
func (l *ProfileLoader) Load(ctx context.Context) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	l.gen++
	gen := l.gen
	l.state.Loading = true
	l.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, l.timeout())
	defer cancel()
	p, err := l.store.GetProfile(ctx)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}

	l.mu.Lock()
	if l.closed || gen != l.gen {
		l.mu.Unlock()
		return nil
	}
	l.state.Loading = false
	if err != nil {
		l.state.Err = err
		l.mu.Unlock()
		n := failure("加载个人资料失败", err)
		if errors.Is(err, context.DeadlineExceeded) {
			n.Reason = ReasonTimeout
		}
		l.notifier.Notify(n)
		return err
	}
	l.state = ProfileState{Profile: p}
	l.mu.Unlock()
	return nil
}

// Update 姓名去掉空白后允许为空
func (l *ProfileLoader) Update(ctx context.Context, first, last, phone, avatarURL string) error {
	first, last = strings.TrimSpace(first), strings.TrimSpace(last)
	phone = strings.TrimSpace(phone)
	patch := ProfilePatch{FirstName: &first, LastName: &last, Phone: &phone}
	if avatarURL != "" {
		patch.AvatarURL = &avatarURL
	}
	p, err := l.store.UpdateProfile(ctx, patch)
	if err != nil {
		l.notifier.Notify(failure("更新个人资料失败", err))
		return err
	}
	l.apply(p)
	l.notifier.Notify(success("个人资料已更新"))
	return nil
}

// ChangePassword 两次输入不一致时不发请求
func (l *ProfileLoader) ChangePassword(ctx context.Context, password, confirm string) error {
	if password == "" {
		err := &MissingFieldsError{Fields: []string{"password"}}
		l.notifier.Notify(invalid("请输入新密码", ReasonMissingFields, err))
		return err
	}
	if password != confirm {
		l.notifier.Notify(invalid("两次输入的密码不一致", ReasonPasswordMismatch, ErrPasswordMismatch))
		return ErrPasswordMismatch
	}
	if err := l.passwords.UpdatePassword(ctx, password); err != nil {
		l.notifier.Notify(failure("修改密码失败", err))
		return err
	}
	l.notifier.Notify(success("密码已修改"))
	return nil
}

func (l *ProfileLoader) UploadAvatar(ctx context.Context, filename string, r io.Reader) error {
	p, err := l.store.UploadAvatar(ctx, filename, r)
	if err != nil {
		l.notifier.Notify(failure("头像上传失败", err))
		return err
	}
	l.apply(p)
	l.notifier.Notify(success("头像已更新"))
	return nil
}

func (l *ProfileLoader) apply(p *Profile) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.closed {
		l.state.Profile = p
	}
}

// Close 页面卸载，之后到达的响应被丢弃
func (l *ProfileLoader) Close() {
	l.mu.Lock()
	l.closed = true
	l.gen++
	l.mu.Unlock()
}

func (l *ProfileLoader) Snapshot() ProfileState {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.state
	if s.Profile != nil {
		p := *s.Profile
		s.Profile = &p
	}
	return s
}
