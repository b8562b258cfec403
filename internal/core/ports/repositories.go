package ports

import (
	"context"

	"github.com/lorrc/task-analytics/internal/core/domain"
)

// UserTaskQuery selects one page of a case worker's tasks.
type UserTaskQuery struct {
	Filters  domain.AnalyticsFilters
	Status   domain.TaskStatus
	Sort     domain.SortState
	Page     int
	PageSize int
}

// Offset returns the row offset of the requested page.
func (q UserTaskQuery) Offset() int {
	if q.Page < 1 || q.PageSize < 1 {
		return 0
	}
	return (q.Page - 1) * q.PageSize
}

// TaskRepository defines the port for reading task records.
type TaskRepository interface {
	// ListOutstandingTasks returns open and assigned tasks.
	ListOutstandingTasks(ctx context.Context, filters domain.AnalyticsFilters) ([]domain.Task, error)
	// ListCriticalTasks returns outstanding urgent and high priority tasks.
	ListCriticalTasks(ctx context.Context, filters domain.AnalyticsFilters) ([]domain.Task, error)
	// ListAssignedTasks returns tasks currently assigned to a case worker.
	ListAssignedTasks(ctx context.Context, filters domain.AnalyticsFilters) ([]domain.Task, error)
	// ListCompletedTasks returns tasks completed within the completed range.
	ListCompletedTasks(ctx context.Context, filters domain.AnalyticsFilters) ([]domain.Task, error)
	// ListTaskEvents returns tasks created, assigned or completed within the range.
	ListTaskEvents(ctx context.Context, filters domain.AnalyticsFilters, window domain.DateRange) ([]domain.Task, error)
	// ListUserTasks returns one sorted page of tasks plus the total match count.
	ListUserTasks(ctx context.Context, query UserTaskQuery) (domain.TaskPage, error)
}

// ReferenceDataRepository resolves codes into display descriptions. Codes
// with no description are left out of the returned maps.
type ReferenceDataRepository interface {
	RegionDescriptions(ctx context.Context, codes []string) (map[string]string, error)
	LocationDescriptions(ctx context.Context, codes []string) (map[string]string, error)
	CaseWorkerNames(ctx context.Context, ids []string) (map[string]string, error)
}

// FilterOptionsRepository lists the selectable filter values.
type FilterOptionsRepository interface {
	GetFilterOptions(ctx context.Context) (domain.FilterOptions, error)
}

// HealthChecker reports whether a backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
