package ports

import (
	"context"

	"github.com/lorrc/task-analytics/internal/core/domain"
)

// OverviewService defines the port for the overview report.
type OverviewService interface {
	ServiceOverview(ctx context.Context, filters domain.AnalyticsFilters) (domain.ServiceOverview, error)
	TaskEvents(ctx context.Context, filters domain.AnalyticsFilters) (domain.TaskEvents, error)
}

// OutstandingService defines the port for the outstanding tasks report.
type OutstandingService interface {
	Outstanding(ctx context.Context, filters domain.AnalyticsFilters) (domain.Outstanding, error)
	CriticalTasks(ctx context.Context, filters domain.AnalyticsFilters, sort domain.SortState) ([]domain.Task, error)
}

// CompletedService defines the port for the completed tasks report.
type CompletedService interface {
	Completed(ctx context.Context, filters domain.AnalyticsFilters) (domain.Completed, error)
}

// UserOverviewService defines the port for the user overview report.
type UserOverviewService interface {
	AssignedTasks(ctx context.Context, query UserTaskQuery) (domain.TaskPage, error)
	CompletedTasks(ctx context.Context, query UserTaskQuery) (domain.TaskPage, error)
	Summary(ctx context.Context, filters domain.AnalyticsFilters) (domain.UserOverviewSummary, error)
}
