package mocks

import (
	"context"

	"github.com/lorrc/task-analytics/internal/core/domain"
	"github.com/lorrc/task-analytics/internal/core/ports"
	"github.com/stretchr/testify/mock"
)

// MockTaskRepository is a mock implementation of ports.TaskRepository
type MockTaskRepository struct {
	mock.Mock
}

var _ ports.TaskRepository = (*MockTaskRepository)(nil)

func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{}
}

func (m *MockTaskRepository) ListOutstandingTasks(ctx context.Context, filters domain.AnalyticsFilters) ([]domain.Task, error) {
	args := m.Called(ctx, filters)
	return tasksArg(args, 0), args.Error(1)
}

func (m *MockTaskRepository) ListCriticalTasks(ctx context.Context, filters domain.AnalyticsFilters) ([]domain.Task, error) {
	args := m.Called(ctx, filters)
	return tasksArg(args, 0), args.Error(1)
}

func (m *MockTaskRepository) ListAssignedTasks(ctx context.Context, filters domain.AnalyticsFilters) ([]domain.Task, error) {
	args := m.Called(ctx, filters)
	return tasksArg(args, 0), args.Error(1)
}

func (m *MockTaskRepository) ListCompletedTasks(ctx context.Context, filters domain.AnalyticsFilters) ([]domain.Task, error) {
	args := m.Called(ctx, filters)
	return tasksArg(args, 0), args.Error(1)
}

func (m *MockTaskRepository) ListTaskEvents(ctx context.Context, filters domain.AnalyticsFilters, window domain.DateRange) ([]domain.Task, error) {
	args := m.Called(ctx, filters, window)
	return tasksArg(args, 0), args.Error(1)
}

func (m *MockTaskRepository) ListUserTasks(ctx context.Context, query ports.UserTaskQuery) (domain.TaskPage, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(domain.TaskPage), args.Error(1)
}

// MockReferenceDataRepository is a mock implementation of ports.ReferenceDataRepository
type MockReferenceDataRepository struct {
	mock.Mock
}

var _ ports.ReferenceDataRepository = (*MockReferenceDataRepository)(nil)

func NewMockReferenceDataRepository() *MockReferenceDataRepository {
	return &MockReferenceDataRepository{}
}

func (m *MockReferenceDataRepository) RegionDescriptions(ctx context.Context, codes []string) (map[string]string, error) {
	args := m.Called(ctx, codes)
	return mapArg(args, 0), args.Error(1)
}

func (m *MockReferenceDataRepository) LocationDescriptions(ctx context.Context, codes []string) (map[string]string, error) {
	args := m.Called(ctx, codes)
	return mapArg(args, 0), args.Error(1)
}

func (m *MockReferenceDataRepository) CaseWorkerNames(ctx context.Context, ids []string) (map[string]string, error) {
	args := m.Called(ctx, ids)
	return mapArg(args, 0), args.Error(1)
}

// MockFilterOptionsRepository is a mock implementation of ports.FilterOptionsRepository
type MockFilterOptionsRepository struct {
	mock.Mock
}

var _ ports.FilterOptionsRepository = (*MockFilterOptionsRepository)(nil)

func NewMockFilterOptionsRepository() *MockFilterOptionsRepository {
	return &MockFilterOptionsRepository{}
}

func (m *MockFilterOptionsRepository) GetFilterOptions(ctx context.Context) (domain.FilterOptions, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.FilterOptions), args.Error(1)
}

// MockHealthChecker is a mock implementation of ports.HealthChecker
type MockHealthChecker struct {
	mock.Mock
}

func NewMockHealthChecker() *MockHealthChecker {
	return &MockHealthChecker{}
}

func (m *MockHealthChecker) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockOverviewService is a mock implementation of ports.OverviewService
type MockOverviewService struct {
	mock.Mock
}

var _ ports.OverviewService = (*MockOverviewService)(nil)

func NewMockOverviewService() *MockOverviewService {
	return &MockOverviewService{}
}

func (m *MockOverviewService) ServiceOverview(ctx context.Context, filters domain.AnalyticsFilters) (domain.ServiceOverview, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).(domain.ServiceOverview), args.Error(1)
}

func (m *MockOverviewService) TaskEvents(ctx context.Context, filters domain.AnalyticsFilters) (domain.TaskEvents, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).(domain.TaskEvents), args.Error(1)
}

// MockOutstandingService is a mock implementation of ports.OutstandingService
type MockOutstandingService struct {
	mock.Mock
}

var _ ports.OutstandingService = (*MockOutstandingService)(nil)

func NewMockOutstandingService() *MockOutstandingService {
	return &MockOutstandingService{}
}

func (m *MockOutstandingService) Outstanding(ctx context.Context, filters domain.AnalyticsFilters) (domain.Outstanding, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).(domain.Outstanding), args.Error(1)
}

func (m *MockOutstandingService) CriticalTasks(ctx context.Context, filters domain.AnalyticsFilters, sort domain.SortState) ([]domain.Task, error) {
	args := m.Called(ctx, filters, sort)
	return tasksArg(args, 0), args.Error(1)
}

// MockCompletedService is a mock implementation of ports.CompletedService
type MockCompletedService struct {
	mock.Mock
}

var _ ports.CompletedService = (*MockCompletedService)(nil)

func NewMockCompletedService() *MockCompletedService {
	return &MockCompletedService{}
}

func (m *MockCompletedService) Completed(ctx context.Context, filters domain.AnalyticsFilters) (domain.Completed, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).(domain.Completed), args.Error(1)
}

// MockUserOverviewService is a mock implementation of ports.UserOverviewService
type MockUserOverviewService struct {
	mock.Mock
}

var _ ports.UserOverviewService = (*MockUserOverviewService)(nil)

func NewMockUserOverviewService() *MockUserOverviewService {
	return &MockUserOverviewService{}
}

func (m *MockUserOverviewService) AssignedTasks(ctx context.Context, query ports.UserTaskQuery) (domain.TaskPage, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(domain.TaskPage), args.Error(1)
}

func (m *MockUserOverviewService) CompletedTasks(ctx context.Context, query ports.UserTaskQuery) (domain.TaskPage, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(domain.TaskPage), args.Error(1)
}

func (m *MockUserOverviewService) Summary(ctx context.Context, filters domain.AnalyticsFilters) (domain.UserOverviewSummary, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).(domain.UserOverviewSummary), args.Error(1)
}

func tasksArg(args mock.Arguments, i int) []domain.Task {
	if args.Get(i) == nil {
		return nil
	}
	return args.Get(i).([]domain.Task)
}

func mapArg(args mock.Arguments, i int) map[string]string {
	if args.Get(i) == nil {
		return nil
	}
	return args.Get(i).(map[string]string)
}
