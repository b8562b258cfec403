package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/lorrc/task-analytics/internal/core/domain"
	"github.com/lorrc/task-analytics/internal/core/mocks"
	"github.com/lorrc/task-analytics/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCompleted_Summary(t *testing.T) {
	within := completedTask("c1", day(2024, 3, 10), day(2024, 3, 10))
	beyond := completedTask("c2", day(2024, 3, 10), day(2024, 3, 12))
	slaOverride := completedTask("c3", day(2024, 3, 10), day(2024, 3, 12))
	slaOverride.WithinSLA = flag(true)
	unknown := completedTask("c4", day(2024, 3, 10), day(2024, 3, 12))
	unknown.DueDate = nil

	result := services.BuildCompleted([]domain.Task{within, beyond, slaOverride, unknown})

	assert.Equal(t, int64(4), result.Summary.Completed)
	assert.Equal(t, int64(2), result.Summary.WithinDue)
	assert.Equal(t, int64(1), result.Summary.BeyondDue)
	assert.Equal(t, int64(1), result.Summary.UnknownDue)
	assert.InDelta(t, 50.0, result.Summary.WithinDuePct, 1e-9)
	assert.InDelta(t, 25.0, result.Summary.BeyondDuePct, 1e-9)
}

func TestBuildCompleted_Empty(t *testing.T) {
	result := services.BuildCompleted(nil)

	assert.Equal(t, domain.CompletedSummary{}, result.Summary)
	assert.Empty(t, result.Timeline)
	assert.Empty(t, result.ByName)
	assert.Empty(t, result.ProcessingTime)
}

func TestBuildCompleted_Series(t *testing.T) {
	first := completedTask("c1", day(2024, 3, 10), day(2024, 3, 12))
	first.HandlingTimeDays = num(2)
	first.ProcessingTimeDays = num(4)
	second := completedTask("c2", day(2024, 3, 10), day(2024, 3, 12))
	second.HandlingTimeDays = num(3)
	earlier := completedTask("c3", day(2024, 3, 10), day(2024, 3, 1))

	result := services.BuildCompleted([]domain.Task{first, earlier, second})

	require.Len(t, result.Timeline, 2)
	assert.Equal(t, domain.CompletedByDatePoint{Date: "2024-03-01", Completed: 1, WithinDue: 1}, result.Timeline[0])
	assert.Equal(t, domain.CompletedByDatePoint{Date: "2024-03-12", Completed: 2, BeyondDue: 2}, result.Timeline[1])

	require.Len(t, result.ProcessingTime, 2)
	assert.Nil(t, result.ProcessingTime[0].AverageHandlingDays)
	require.NotNil(t, result.ProcessingTime[1].AverageHandlingDays)
	assert.InDelta(t, 2.5, *result.ProcessingTime[1].AverageHandlingDays, 1e-9)
	require.NotNil(t, result.ProcessingTime[1].AverageProcessingDays)
	assert.InDelta(t, 4.0, *result.ProcessingTime[1].AverageProcessingDays, 1e-9)
}

func TestBuildCompleted_Breakdowns(t *testing.T) {
	beta := completedTask("c1", day(2024, 3, 10), day(2024, 3, 10))
	beta.TaskName = "Beta"
	beta.HandlingTimeDays = num(1)
	alpha := completedTask("c2", day(2024, 3, 10), day(2024, 3, 11))
	alpha.TaskName = "Alpha"
	alpha.Region = "2"

	result := services.BuildCompleted([]domain.Task{beta, alpha})

	require.Len(t, result.ByName, 2)
	assert.Equal(t, "Alpha", result.ByName[0].Label)
	assert.Nil(t, result.ByName[0].AverageHandlingDays)
	assert.Equal(t, "Beta", result.ByName[1].Label)
	assert.InDelta(t, 100.0, result.ByName[1].WithinDuePct, 1e-9)
	require.NotNil(t, result.ByName[1].AverageHandlingDays)
	assert.InDelta(t, 1.0, *result.ByName[1].AverageHandlingDays, 1e-9)

	require.Len(t, result.ByLocation, 2)
	assert.Equal(t, "1", result.ByLocation[0].Region)
	assert.Equal(t, "2", result.ByLocation[1].Region)

	require.Len(t, result.ByRegion, 2)
	assert.Equal(t, "1", result.ByRegion[0].Label)
}

func TestCompletedService_Error(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewMockTaskRepository()
	svc := services.NewCompletedService(repo)
	repoErr := errors.New("timeout")

	repo.On("ListCompletedTasks", ctx, domain.AnalyticsFilters{}).Return(nil, repoErr)

	_, err := svc.Completed(ctx, domain.AnalyticsFilters{})

	assert.ErrorIs(t, err, repoErr)
	repo.AssertExpectations(t)
}
