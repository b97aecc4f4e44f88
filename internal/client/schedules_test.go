package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleBook_AddForcesZeroBooked(t *testing.T) {
	ctx := context.Background()
	market := newFakeMarket("host")
	book := NewScheduleBook(market, nil)
	book.Select("act-1")

	created, err := book.AddSchedule(ctx, ScheduleInput{
		ActivityID:     "act-other",
		Date:           "2026-11-01",
		StartTime:      "10:00",
		EndTime:        "12:00",
		AvailableSpots: 20,
		BookedSpots:    7,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, created.BookedSpots)
	assert.Equal(t, "act-1", created.ActivityID)

	// 添加后整体重新加载
	s := book.Snapshot()
	require.Len(t, s.Items, 1)
	assert.Equal(t, 0, s.Items[0].BookedSpots)
	assert.Equal(t, 1, market.count("ListSchedules"))
}

func TestScheduleBook_NoActivitySelected(t *testing.T) {
	ctx := context.Background()
	market := newFakeMarket("host")
	book := NewScheduleBook(market, nil)

	require.NoError(t, book.Load(ctx))
	assert.Equal(t, 0, market.count("ListSchedules"))

	_, err := book.AddSchedule(ctx, ScheduleInput{Date: "2026-11-01"})
	assert.ErrorIs(t, err, ErrMissingFields)
	assert.Equal(t, 0, market.count("CreateSchedule"))
}

func TestScheduleBook_SelectClears(t *testing.T) {
	ctx := context.Background()
	market := newFakeMarket("host")
	market.schedules = []Schedule{{ID: "s1", ActivityID: "a"}, {ID: "s2", ActivityID: "b"}}
	book := NewScheduleBook(market, nil)

	book.Select("a")
	require.NoError(t, book.Load(ctx))
	assert.Len(t, book.Snapshot().Items, 1)

	book.Select("b")
	assert.Empty(t, book.Snapshot().Items)
	require.NoError(t, book.Load(ctx))
	s := book.Snapshot()
	require.Len(t, s.Items, 1)
	assert.Equal(t, "s2", s.Items[0].ID)
}
