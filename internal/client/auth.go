package client

import (
	"context"
	"sync"
)

// AuthClient 身份服务：登录状态保存在 API 的 token 上，身份变化通知订阅者
type AuthClient struct {
	api *API

	mu      sync.Mutex
	current *Identity
	subs    map[int]func(*Identity)
	nextSub int
}

func NewAuthClient(api *API) *AuthClient {
	a := &AuthClient{api: api, subs: make(map[int]func(*Identity))}
	api.OnTokenRejected(a.drop)
	return a
}

func (a *AuthClient) SignUp(ctx context.Context, in SignUpInput) (*Session, error) {
	s, err := a.api.SignUp(ctx, in)
	if err != nil {
		return nil, err
	}
	a.establish(s)
	return s, nil
}

func (a *AuthClient) SignIn(ctx context.Context, email, password string) (*Session, error) {
	s, err := a.api.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	a.establish(s)
	return s, nil
}

// Current 返回当前身份，未登录或 token 失效时为 nil
func (a *AuthClient) Current(ctx context.Context) (*Identity, error) {
	if a.api.Token() == "" {
		return nil, nil
	}
	id, err := a.api.CurrentIdentity(ctx)
	if IsCode(err, CodeTokenInvalid) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	a.current = id
	a.mu.Unlock()
	return id, nil
}

// SignOut 服务端已注销或 token 本就失效都视为成功
func (a *AuthClient) SignOut(ctx context.Context) error {
	if a.api.Token() == "" {
		return nil
	}
	if err := a.api.SignOut(ctx); err != nil && !IsCode(err, CodeTokenInvalid) {
		return err
	}
	a.drop()
	return nil
}

func (a *AuthClient) UpdatePassword(ctx context.Context, password string) error {
	return a.api.UpdatePassword(ctx, password)
}

// Subscribe 注册身份变化回调，返回取消函数
func (a *AuthClient) Subscribe(fn func(*Identity)) func() {
	a.mu.Lock()
	id := a.nextSub
	a.nextSub++
	a.subs[id] = fn
	a.mu.Unlock()
	return func() {
		a.mu.Lock()
		delete(a.subs, id)
		a.mu.Unlock()
	}
}

func (a *AuthClient) establish(s *Session) {
	a.api.SetToken(s.Token)
	user := s.User
	a.mu.Lock()
	a.current = &user
	a.mu.Unlock()
	a.publish(&user)
}

func (a *AuthClient) drop() {
	a.api.SetToken("")
	a.mu.Lock()
	had := a.current != nil
	a.current = nil
	a.mu.Unlock()
	if had {
		a.publish(nil)
	}
}

func (a *AuthClient) publish(id *Identity) {
	a.mu.Lock()
	fns := make([]func(*Identity), 0, len(a.subs))
	for _, fn := range a.subs {
		fns = append(fns, fn)
	}
	a.mu.Unlock()
	for _, fn := range fns {
		var cp *Identity
		if id != nil {
			v := *id
			cp = &v
		}
		fn(cp)
	}
}

var (
	_ IdentitySource  = (*AuthClient)(nil)
	_ PasswordChanger = (*AuthClient)(nil)
)
