package services

import (
	"context"

	"github.com/lorrc/task-analytics/internal/core/domain"
	"github.com/lorrc/task-analytics/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

// UserOverviewService implements the user overview report.
type UserOverviewService struct {
	taskRepo ports.TaskRepository
}

var _ ports.UserOverviewService = (*UserOverviewService)(nil)

// NewUserOverviewService creates a new user overview service.
func NewUserOverviewService(taskRepo ports.TaskRepository) ports.UserOverviewService {
	return &UserOverviewService{taskRepo: taskRepo}
}

// AssignedTasks returns one page of currently assigned tasks.
func (s *UserOverviewService) AssignedTasks(ctx context.Context, query ports.UserTaskQuery) (domain.TaskPage, error) {
	query.Status = domain.StatusAssigned
	query.Sort = normaliseSort(query.Sort, domain.AssignedTasksScope)
	return s.listPage(ctx, query)
}

// CompletedTasks returns one page of completed tasks.
func (s *UserOverviewService) CompletedTasks(ctx context.Context, query ports.UserTaskQuery) (domain.TaskPage, error) {
	query.Status = domain.StatusCompleted
	query.Sort = normaliseSort(query.Sort, domain.CompletedTasksScope)
	return s.listPage(ctx, query)
}

func (s *UserOverviewService) listPage(ctx context.Context, query ports.UserTaskQuery) (domain.TaskPage, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PageSize < 1 {
		query.PageSize = 1
	}
	return s.taskRepo.ListUserTasks(ctx, query)
}

// Summary folds the assigned and completed work of the filtered users. The
// two reads run concurrently; either failing fails the summary.
func (s *UserOverviewService) Summary(ctx context.Context, filters domain.AnalyticsFilters) (domain.UserOverviewSummary, error) {
	var assigned, completed []domain.Task

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		assigned, err = s.taskRepo.ListAssignedTasks(gctx, filters)
		return err
	})
	g.Go(func() error {
		var err error
		completed, err = s.taskRepo.ListCompletedTasks(gctx, filters)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.UserOverviewSummary{}, err
	}

	return BuildUserOverview(assigned, completed), nil
}

// BuildUserOverview folds a user's assigned and completed tasks.
func BuildUserOverview(assigned, completed []domain.Task) domain.UserOverviewSummary {
	summary := domain.UserOverviewSummary{
		Completed:       summarizeCompleted(completed),
		CompletedByDate: completedByDate(completed),
	}
	for _, task := range assigned {
		summary.Assigned++
		summary.AssignedPriorities.Add(task.Priority)
	}

	byName := newBuckets(func(name string) completedBucket {
		return completedBucket{row: domain.CompletedBreakdownRow{Label: name}}
	})
	for _, task := range completed {
		byName.get(labelOr(task.TaskName, domain.UnknownTaskLabel)).add(task)
	}
	summary.CompletedByTaskName = finishBreakdown(byName, byLabelRow)

	return summary
}

func normaliseSort(state domain.SortState, scope domain.SortScope) domain.SortState {
	if !scope.Allows(state.By) || !state.Dir.IsValid() {
		return scope.Default
	}
	return state
}
