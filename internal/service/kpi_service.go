package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"go-task-manager/internal/model"
	"go-task-manager/pkg/apierror"
)

// KPIStore is the aggregation surface the KPI service reads from.
type KPIStore interface {
	CountByState(ctx context.Context, userID string) ([]model.StateCount, error)
	CountPendingByPriority(ctx context.Context, userID string) ([]model.PriorityCount, error)
	CountCompletedBetween(ctx context.Context, userID string, from time.Time, to time.Time) (int, error)
	CompletedCountPerDay(ctx context.Context, userID string, from time.Time, to time.Time) (map[string]int, error)
	AvgCompletionMinutesByPriority(ctx context.Context, userID string) ([]model.PriorityCompletionAvg, error)
}

type KPIService struct {
	store KPIStore
	now   func() time.Time
}

func NewKPIService(store KPIStore) *KPIService {
	return &KPIService{store: store, now: time.Now}
}

func (s *KPIService) StateDistribution(ctx context.Context, userID string) (model.StateDistribution, error) {
	counts, err := s.store.CountByState(ctx, userID)
	if err != nil {
		return model.StateDistribution{}, err
	}

	total := 0
	for _, c := range counts {
		total += c.Count
	}

	return model.StateDistribution{
		UserID:       userID,
		Distribution: counts,
		Total:        total,
	}, nil
}

func (s *KPIService) PendingByPriority(ctx context.Context, userID string) ([]model.PriorityCount, error) {
	return s.store.CountPendingByPriority(ctx, userID)
}

func (s *KPIService) CompletedThisMonth(ctx context.Context, userID string) (model.MonthlyCompleted, error) {
	now := s.now().UTC()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	endOfMonth := startOfMonth.AddDate(0, 1, 0).Add(-time.Nanosecond)

	count, err := s.store.CountCompletedBetween(ctx, userID, startOfMonth, endOfMonth)
	if err != nil {
		return model.MonthlyCompleted{}, err
	}

	return model.MonthlyCompleted{
		UserID:         userID,
		Month:          now.Format("January 2006"),
		CompletedTasks: count,
	}, nil
}

// CompletedPerDay reports completions for each of the last `days` calendar
// days, including days with zero completions.
func (s *KPIService) CompletedPerDay(ctx context.Context, userID string, days int) (model.CompletedPerDay, error) {
	if days <= 0 {
		days = 7
	}
	if days > 366 {
		return model.CompletedPerDay{}, apierror.BadRequest("days must be at most 366", "")
	}

	now := s.now().UTC()
	endOfToday := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
	startDay := endOfToday.AddDate(0, 0, -(days - 1))
	startOfRange := time.Date(startDay.Year(), startDay.Month(), startDay.Day(), 0, 0, 0, 0, time.UTC)

	counts, err := s.store.CompletedCountPerDay(ctx, userID, startOfRange, endOfToday)
	if err != nil {
		return model.CompletedPerDay{}, err
	}

	total := 0
	byDay := make([]model.DailyCount, 0, days)
	for day := startOfRange; !day.After(endOfToday); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		count := counts[key]
		total += count
		byDay = append(byDay, model.DailyCount{
			Date:    key,
			DayName: day.Weekday().String()[:3],
			Count:   count,
		})
	}

	return model.CompletedPerDay{
		UserID:     userID,
		Days:       days,
		TotalTasks: total,
		DateRange: model.DateRange{
			Start: startOfRange.Format("2006-01-02"),
			End:   endOfToday.Format("2006-01-02"),
		},
		TasksByDay: byDay,
	}, nil
}

func (s *KPIService) AvgCompletionByPriority(ctx context.Context, userID string) ([]model.PriorityCompletionAvg, error) {
	rows, err := s.store.AvgCompletionMinutesByPriority(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].AvgCompletionTimeMinutes = math.Round(rows[i].AvgCompletionTimeMinutes*100) / 100
		rows[i].AvgCompletionTimeFormatted = formatMinutes(rows[i].AvgCompletionTimeMinutes)
	}
	return rows, nil
}

// formatMinutes renders a minute count as DD:HH:MM.
func formatMinutes(minutes float64) string {
	total := int(minutes)
	days := total / (24 * 60)
	hours := (total % (24 * 60)) / 60
	mins := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", days, hours, mins)
}
