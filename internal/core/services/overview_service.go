package services

import (
	"context"
	"time"

	"github.com/lorrc/task-analytics/internal/core/domain"
	"github.com/lorrc/task-analytics/internal/core/ports"
)

// DefaultEventsWindowDays is the task events window used when the request
// names neither bound.
const DefaultEventsWindowDays = 30

// OverviewService implements the overview report.
type OverviewService struct {
	taskRepo ports.TaskRepository
	now      func() time.Time
}

var _ ports.OverviewService = (*OverviewService)(nil)

// NewOverviewService creates a new overview service.
func NewOverviewService(taskRepo ports.TaskRepository) ports.OverviewService {
	return &OverviewService{taskRepo: taskRepo, now: time.Now}
}

// NewOverviewServiceWithClock creates an overview service with a fixed clock.
func NewOverviewServiceWithClock(taskRepo ports.TaskRepository, now func() time.Time) ports.OverviewService {
	return &OverviewService{taskRepo: taskRepo, now: now}
}

// ServiceOverview folds outstanding work per service.
func (s *OverviewService) ServiceOverview(ctx context.Context, filters domain.AnalyticsFilters) (domain.ServiceOverview, error) {
	tasks, err := s.taskRepo.ListOutstandingTasks(ctx, filters)
	if err != nil {
		return domain.ServiceOverview{}, err
	}
	return BuildServiceOverview(tasks), nil
}

// TaskEvents counts created, assigned and completed events per service
// inside the events window.
func (s *OverviewService) TaskEvents(ctx context.Context, filters domain.AnalyticsFilters) (domain.TaskEvents, error) {
	window := EventsWindow(filters, s.now())
	tasks, err := s.taskRepo.ListTaskEvents(ctx, filters, window)
	if err != nil {
		return domain.TaskEvents{}, err
	}
	return BuildTaskEvents(tasks, window), nil
}

// EventsWindow returns the events range of filters, defaulting to the last
// DefaultEventsWindowDays days up to now when both bounds are open.
func EventsWindow(filters domain.AnalyticsFilters, now time.Time) domain.DateRange {
	window := filters.EventsRange()
	if window.From != nil || window.To != nil {
		return window
	}
	to := domain.DayKey(now)
	from := to.AddDate(0, 0, -(DefaultEventsWindowDays - 1))
	return domain.DateRange{From: &from, To: &to}
}

// BuildServiceOverview folds outstanding tasks into per-service rows plus totals.
func BuildServiceOverview(tasks []domain.Task) domain.ServiceOverview {
	services := newBuckets(func(service string) domain.ServiceOverviewRow {
		return domain.ServiceOverviewRow{Service: service}
	})
	var totals domain.ServiceOverviewRow

	for _, task := range tasks {
		if task.Status == domain.StatusCompleted {
			continue
		}
		row := services.get(labelOr(task.Service, domain.UnknownLabel))
		for _, r := range []*domain.ServiceOverviewRow{row, &totals} {
			r.Open++
			if task.IsAssigned() {
				r.Assigned++
			} else {
				r.Unassigned++
			}
			r.Priorities.Add(task.Priority)
		}
	}

	rows := services.sorted(func(a, b domain.ServiceOverviewRow) int {
		return byLabel(a.Service, b.Service)
	})
	for i := range rows {
		rows[i].AssignedPct = percent(rows[i].Assigned, rows[i].Open)
	}
	totals.AssignedPct = percent(totals.Assigned, totals.Open)

	return domain.ServiceOverview{Rows: rows, Totals: totals}
}

// BuildTaskEvents counts lifecycle events per service that fall inside window.
// Services with no event in the window are omitted.
func BuildTaskEvents(tasks []domain.Task, window domain.DateRange) domain.TaskEvents {
	services := newBuckets(func(service string) domain.TaskEventsRow {
		return domain.TaskEventsRow{Service: service}
	})
	var totals domain.TaskEventsRow

	for _, task := range tasks {
		created := window.Contains(task.CreatedDate)
		assigned := task.AssignedDate != nil && window.Contains(*task.AssignedDate)
		completed := task.CompletedDate != nil && window.Contains(*task.CompletedDate)
		if !created && !assigned && !completed {
			continue
		}

		row := services.get(labelOr(task.Service, domain.UnknownLabel))
		for _, r := range []*domain.TaskEventsRow{row, &totals} {
			if created {
				r.Created++
			}
			if assigned {
				r.Assigned++
			}
			if completed {
				r.Completed++
			}
		}
	}

	return domain.TaskEvents{
		Rows: services.sorted(func(a, b domain.TaskEventsRow) int {
			return byLabel(a.Service, b.Service)
		}),
		Totals: totals,
	}
}
