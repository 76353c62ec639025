package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-task-manager/internal/model"
)

func fixedNow() time.Time {
	// A Wednesday.
	return time.Date(2025, time.June, 18, 14, 30, 0, 0, time.UTC)
}

func TestKPIService_StateDistribution(t *testing.T) {
	store := new(MockKPIStore)
	svc := NewKPIService(store)

	store.On("CountByState", mock.Anything, "user-1").Return([]model.StateCount{
		{State: model.TaskStatePending, Count: 3},
		{State: model.TaskStateInProgress, Count: 1},
		{State: model.TaskStateCompleted, Count: 6},
	}, nil)

	got, err := svc.StateDistribution(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, 10, got.Total)
	assert.Len(t, got.Distribution, 3)
}

func TestKPIService_CompletedThisMonth(t *testing.T) {
	store := new(MockKPIStore)
	svc := NewKPIService(store)
	svc.now = fixedNow

	monthStart := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	store.On("CountCompletedBetween", mock.Anything, "user-1",
		monthStart, mock.MatchedBy(func(to time.Time) bool {
			return to.Month() == time.June && to.Day() == 30
		})).Return(12, nil)

	got, err := svc.CompletedThisMonth(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, "June 2025", got.Month)
	assert.Equal(t, 12, got.CompletedTasks)
}

func TestKPIService_CompletedPerDay(t *testing.T) {
	t.Run("fills gaps with zero-count days", func(t *testing.T) {
		store := new(MockKPIStore)
		svc := NewKPIService(store)
		svc.now = fixedNow

		store.On("CompletedCountPerDay", mock.Anything, "user-1", mock.Anything, mock.Anything).Return(map[string]int{
			"2025-06-16": 2,
			"2025-06-18": 1,
		}, nil)

		got, err := svc.CompletedPerDay(context.Background(), "user-1", 7)

		require.NoError(t, err)
		assert.Equal(t, 7, got.Days)
		assert.Equal(t, 3, got.TotalTasks)
		require.Len(t, got.TasksByDay, 7)

		assert.Equal(t, "2025-06-12", got.DateRange.Start)
		assert.Equal(t, "2025-06-18", got.DateRange.End)

		// Day without completions still appears.
		assert.Equal(t, "2025-06-17", got.TasksByDay[5].Date)
		assert.Equal(t, 0, got.TasksByDay[5].Count)

		assert.Equal(t, "2025-06-18", got.TasksByDay[6].Date)
		assert.Equal(t, "Wed", got.TasksByDay[6].DayName)
		assert.Equal(t, 1, got.TasksByDay[6].Count)
	})

	t.Run("defaults to a week and caps at a year", func(t *testing.T) {
		store := new(MockKPIStore)
		svc := NewKPIService(store)
		svc.now = fixedNow

		store.On("CompletedCountPerDay", mock.Anything, "user-1", mock.Anything, mock.Anything).Return(map[string]int{}, nil)

		got, err := svc.CompletedPerDay(context.Background(), "user-1", 0)
		require.NoError(t, err)
		assert.Equal(t, 7, got.Days)

		_, err = svc.CompletedPerDay(context.Background(), "user-1", 400)
		assert.Error(t, err)
	})
}

func TestKPIService_AvgCompletionByPriority(t *testing.T) {
	store := new(MockKPIStore)
	svc := NewKPIService(store)

	store.On("AvgCompletionMinutesByPriority", mock.Anything, "user-1").Return([]model.PriorityCompletionAvg{
		{Priority: model.TaskPriorityHigh, AvgCompletionTimeMinutes: 95.4567, TotalTasks: 4},
		{Priority: model.TaskPriorityLow, AvgCompletionTimeMinutes: 3000, TotalTasks: 2},
	}, nil)

	got, err := svc.AvgCompletionByPriority(context.Background(), "user-1")

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 95.46, got[0].AvgCompletionTimeMinutes)
	assert.Equal(t, "00:01:35", got[0].AvgCompletionTimeFormatted)
	assert.Equal(t, "02:02:00", got[1].AvgCompletionTimeFormatted)
}

func TestFormatMinutes(t *testing.T) {
	cases := []struct {
		minutes float64
		want    string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{60, "00:01:00"},
		{1440, "01:00:00"},
		{1501.7, "01:01:01"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, formatMinutes(tc.minutes), "minutes=%v", tc.minutes)
	}
}
