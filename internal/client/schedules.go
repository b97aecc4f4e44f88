package client

import (
	"context"
	"sync"
)

type ScheduleStore interface {
	ListSchedules(ctx context.Context, activityID string) ([]Schedule, error)
	CreateSchedule(ctx context.Context, in ScheduleInput) (*Schedule, error)
}

type ScheduleState struct {
	ActivityID string
	Items      []Schedule
	Loading    bool
	Err        error
}

// ScheduleBook 选中活动的场次列表
type ScheduleBook struct {
	store    ScheduleStore
	notifier Notifier

	mu    sync.Mutex
	state ScheduleState
	gen   uint64
}

func NewScheduleBook(store ScheduleStore, notifier Notifier) *ScheduleBook {
	return &ScheduleBook{store: store, notifier: orDiscard(notifier)}
}

// Select 切换活动，清空旧列表，进行中的请求作废
func (b *ScheduleBook) Select(activityID string) {
	b.mu.Lock()
	b.gen++
	b.state = ScheduleState{ActivityID: activityID}
	b.mu.Unlock()
}

// Load 未选中活动时不发请求
func (b *ScheduleBook) Load(ctx context.Context) error {
	b.mu.Lock()
	activityID := b.state.ActivityID
	if activityID == "" {
		b.mu.Unlock()
		return nil
	}
	b.gen++
	gen := b.gen
	b.state.Loading = true
	b.mu.Unlock()

	items, err := b.store.ListSchedules(ctx, activityID)

	b.mu.Lock()
	if gen != b.gen {
		b.mu.Unlock()
		return nil
	}
	b.state.Loading = false
	if err != nil {
		b.state.Err = err
		b.mu.Unlock()
		b.notifier.Notify(failure("加载场次失败", err))
		return err
	}
	b.state.Err = nil
	b.state.Items = append([]Schedule(nil), items...)
	b.mu.Unlock()
	return nil
}

// AddSchedule 场次归属当前选中的活动，已预订数恒为 0
func (b *ScheduleBook) AddSchedule(ctx context.Context, in ScheduleInput) (*Schedule, error) {
	b.mu.Lock()
	activityID := b.state.ActivityID
	b.mu.Unlock()
	if activityID == "" {
		return nil, &MissingFieldsError{Fields: []string{"activity_id"}}
	}
	in.ActivityID = activityID
	in.BookedSpots = 0

	created, err := b.store.CreateSchedule(ctx, in)
	if err != nil {
		b.notifier.Notify(failure("添加场次失败", err))
		return nil, err
	}
	b.notifier.Notify(success("场次已添加"))
	return created, b.Load(ctx)
}

func (b *ScheduleBook) Snapshot() ScheduleState {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.state
	s.Items = append([]Schedule(nil), b.state.Items...)
	return s
}
