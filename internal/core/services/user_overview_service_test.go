package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/lorrc/task-analytics/internal/core/domain"
	"github.com/lorrc/task-analytics/internal/core/mocks"
	"github.com/lorrc/task-analytics/internal/core/ports"
	"github.com/lorrc/task-analytics/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBuildUserOverview(t *testing.T) {
	assigned := []domain.Task{
		assignedTask("c1", domain.PriorityUrgent, day(2024, 3, 1), day(2024, 3, 2)),
		assignedTask("c2", domain.TaskPriority("unknown"), day(2024, 3, 1), day(2024, 3, 2)),
	}
	done := completedTask("c3", day(2024, 3, 10), day(2024, 3, 9))
	done.TaskName = ""

	summary := services.BuildUserOverview(assigned, []domain.Task{done})

	assert.Equal(t, int64(2), summary.Assigned)
	assert.Equal(t, domain.PriorityCounts{Urgent: 1}, summary.AssignedPriorities)
	assert.Equal(t, int64(1), summary.Completed.WithinDue)
	require.Len(t, summary.CompletedByDate, 1)
	assert.Equal(t, "2024-03-09", summary.CompletedByDate[0].Date)
	require.Len(t, summary.CompletedByTaskName, 1)
	assert.Equal(t, domain.UnknownTaskLabel, summary.CompletedByTaskName[0].Label)
}

func TestUserOverviewService_AssignedTasks(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewMockTaskRepository()
	svc := services.NewUserOverviewService(repo)

	filters := domain.AnalyticsFilters{User: []string{"cw-1"}}
	expected := ports.UserTaskQuery{
		Filters:  filters,
		Status:   domain.StatusAssigned,
		Sort:     domain.AssignedTasksScope.Default,
		Page:     1,
		PageSize: 50,
	}
	repo.On("ListUserTasks", ctx, expected).Return(domain.TaskPage{TotalCount: 3}, nil)

	page, err := svc.AssignedTasks(ctx, ports.UserTaskQuery{
		Filters:  filters,
		Sort:     domain.SortState{By: domain.SortKeyHandlingTime, Dir: domain.SortAsc},
		Page:     0,
		PageSize: 50,
	})

	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalCount)
	repo.AssertExpectations(t)
}

func TestUserOverviewService_CompletedTasksKeepsValidSort(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewMockTaskRepository()
	svc := services.NewUserOverviewService(repo)

	sort := domain.SortState{By: domain.SortKeyWithinDue, Dir: domain.SortAsc}
	repo.On("ListUserTasks", ctx, mock.MatchedBy(func(q ports.UserTaskQuery) bool {
		return q.Status == domain.StatusCompleted && q.Sort == sort && q.Page == 2
	})).Return(domain.TaskPage{}, nil)

	_, err := svc.CompletedTasks(ctx, ports.UserTaskQuery{Sort: sort, Page: 2, PageSize: 10})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUserOverviewService_Summary(t *testing.T) {
	ctx := context.Background()
	filters := domain.AnalyticsFilters{User: []string{"cw-1"}}

	t.Run("success", func(t *testing.T) {
		repo := mocks.NewMockTaskRepository()
		svc := services.NewUserOverviewService(repo)

		repo.On("ListAssignedTasks", mock.Anything, filters).
			Return([]domain.Task{assignedTask("c1", domain.PriorityHigh, day(2024, 3, 1), day(2024, 3, 2))}, nil)
		repo.On("ListCompletedTasks", mock.Anything, filters).Return([]domain.Task{}, nil)

		summary, err := svc.Summary(ctx, filters)

		require.NoError(t, err)
		assert.Equal(t, int64(1), summary.Assigned)
		repo.AssertExpectations(t)
	})

	t.Run("either read failing fails the summary", func(t *testing.T) {
		repo := mocks.NewMockTaskRepository()
		svc := services.NewUserOverviewService(repo)
		repoErr := errors.New("boom")

		repo.On("ListAssignedTasks", mock.Anything, filters).Return([]domain.Task{}, nil)
		repo.On("ListCompletedTasks", mock.Anything, filters).Return(nil, repoErr)

		_, err := svc.Summary(ctx, filters)

		assert.ErrorIs(t, err, repoErr)
	})
}
