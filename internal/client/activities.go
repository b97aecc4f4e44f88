package client

import (
	"context"
	"sync"
)

// PageSize 活动列表每页条数
const PageSize = 10

type ActivityStore interface {
	ListActivities(ctx context.Context, q ActivityQuery) (*ActivityPage, error)
	CreateActivity(ctx context.Context, in ActivityInput) (*Activity, error)
}

type FeedState struct {
	Items   []Activity
	Page    int
	Loading bool
	HasMore bool
	Err     error
}

// ActivityFeed 主办方自己的活动列表，分页追加
type ActivityFeed struct {
	store     ActivityStore
	notifier  Notifier
	creatorID string

	mu     sync.Mutex
	state  FeedState
	gen    uint64
	closed bool
}

// NewActivityFeed creatorID 通常是当前登录用户：新建活动的创建人由服务端取调用者
func NewActivityFeed(store ActivityStore, creatorID string, notifier Notifier) *ActivityFeed {
	return &ActivityFeed{store: store, creatorID: creatorID, notifier: orDiscard(notifier)}
}

// Load 第 1 页替换列表，之后的页按 id 去重追加
func (f *ActivityFeed) Load(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	f.mu.Lock()
	gen, ok := f.beginLocked()
	f.mu.Unlock()
	if !ok {
		return ErrClosed
	}
	return f.fetch(ctx, gen, page)
}

// LoadMore 没有更多或正在加载时什么也不做
func (f *ActivityFeed) LoadMore(ctx context.Context) error {
	f.mu.Lock()
	if !f.state.HasMore || f.state.Loading {
		f.mu.Unlock()
		return nil
	}
	next := f.state.Page + 1
	gen, ok := f.beginLocked()
	f.mu.Unlock()
	if !ok {
		return ErrClosed
	}
	return f.fetch(ctx, gen, next)
}

func (f *ActivityFeed) beginLocked() (uint64, bool) {
	if f.closed {
		return 0, false
	}
	f.gen++
	f.state.Loading = true
	return f.gen, true
}

func (f *ActivityFeed) fetch(ctx context.Context, gen uint64, page int) error {
	res, err := f.store.ListActivities(ctx, ActivityQuery{
		CreatorID: f.creatorID,
		Page:      page,
		PageSize:  PageSize,
	})

	f.mu.Lock()
	if f.closed || gen != f.gen {
		f.mu.Unlock()
		return nil
	}
	f.state.Loading = false
	if err != nil {
		f.state.Err = err
		f.mu.Unlock()
		f.notifier.Notify(failure("加载活动失败", err))
		return err
	}

	f.state.Err = nil
	if page == 1 {
		f.state.Items = append([]Activity(nil), res.Activities...)
	} else {
		seen := make(map[string]struct{}, len(f.state.Items))
		for _, a := range f.state.Items {
			seen[a.ID] = struct{}{}
		}
		for _, a := range res.Activities {
			if _, ok := seen[a.ID]; !ok {
				f.state.Items = append(f.state.Items, a)
			}
		}
	}
	f.state.Page = page
	// 恰好满页时认为还有下一页，下一页可能为空
	f.state.HasMore = len(res.Activities) == PageSize
	f.mu.Unlock()
	return nil
}

// Create 创建成功后重新加载第 1 页，失败时列表不变
func (f *ActivityFeed) Create(ctx context.Context, in ActivityInput) (*Activity, error) {
	f.mu.Lock()
	closed := f.closed
	f.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	created, err := f.store.CreateActivity(ctx, in)
	if err != nil {
		f.notifier.Notify(failure("创建活动失败", err))
		return nil, err
	}
	f.notifier.Notify(success("活动已创建"))
	if err := f.Load(ctx, 1); err != nil && err != ErrClosed {
		return created, err
	}
	return created, nil
}

func (f *ActivityFeed) Snapshot() FeedState {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.state
	s.Items = append([]Activity(nil), f.state.Items...)
	return s
}

func (f *ActivityFeed) Close() {
	f.mu.Lock()
	f.closed = true
	f.gen++
	f.mu.Unlock()
}
