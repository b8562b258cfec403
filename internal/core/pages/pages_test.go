package pages_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/lorrc/task-analytics/internal/core/domain"
	"github.com/lorrc/task-analytics/internal/core/mocks"
	"github.com/lorrc/task-analytics/internal/core/pagination"
	"github.com/lorrc/task-analytics/internal/core/pages"
	"github.com/lorrc/task-analytics/internal/core/ports"
	"github.com/lorrc/task-analytics/internal/core/viewmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type links struct{}

func (links) PageHref(scope domain.SortScope, page int) string {
	return fmt.Sprintf("?%sPage=%d", scope.Name, page)
}

func (links) SortHref(scope domain.SortScope, state domain.SortState) string {
	return fmt.Sprintf("?%sSortBy=%s&%sSortDir=%s", scope.Name, state.By, scope.Name, state.Dir)
}

func (links) ExportHref(section, format string) string {
	return "/export/" + section + "?format=" + format
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr[T any](v T) *T {
	return &v
}

var errDown = errors.New("database unavailable")

func TestOutstandingPage_FullRender(t *testing.T) {
	svc := mocks.NewMockOutstandingService()
	refs := mocks.NewMockReferenceDataRepository()
	opts := mocks.NewMockFilterOptionsRepository()

	filters := domain.AnalyticsFilters{Region: []string{"1"}}
	outstanding := domain.Outstanding{
		Summary: domain.OutstandingSummary{Open: 3, Assigned: 1, Unassigned: 2},
		ByLocation: []domain.OutstandingByLocationRow{
			{Location: "366559", Region: "1", Open: 3, Assigned: 1, Unassigned: 2},
		},
		ByRegion: []domain.OutstandingByRegionRow{{Region: "1", Open: 3, Assigned: 1, Unassigned: 2}},
	}
	critical := []domain.Task{{
		CaseID:     "c1",
		TaskID:     "t1",
		Location:   "366559",
		Priority:   domain.PriorityUrgent,
		Status:     domain.StatusAssigned,
		AssigneeID: ptr("u-1"),
	}}

	svc.On("Outstanding", mock.Anything, filters).Return(outstanding, nil)
	svc.On("CriticalTasks", mock.Anything, filters, domain.CriticalTasksScope.Default).Return(critical, nil)
	opts.On("GetFilterOptions", mock.Anything).Return(domain.FilterOptions{Regions: []string{"1", "2"}}, nil)
	refs.On("RegionDescriptions", mock.Anything, []string{"1", "2"}).Return(map[string]string{"1": "London", "2": "Midlands"}, nil)
	refs.On("LocationDescriptions", mock.Anything, []string{"366559"}).Return(map[string]string{"366559": "Taylor House"}, nil)
	refs.On("CaseWorkerNames", mock.Anything, []string{"u-1"}).Return(map[string]string{"u-1": "Ada Lovelace"}, nil)

	page := pages.NewOutstandingPage(svc, refs, opts, 500, discard())
	view := page.Build(context.Background(), pages.Request{
		Filters:      filters,
		CriticalSort: domain.CriticalTasksScope.Default,
		CriticalPage: 1,
	}, links{})

	require.NotNil(t, view)
	assert.Equal(t, "", view.Section)
	require.Len(t, view.ByLocation.Rows, 1)
	assert.Equal(t, "Taylor House", view.ByLocation.Rows[0][0].Text)
	assert.Equal(t, "London", view.ByLocation.Rows[0][1].Text)
	require.Len(t, view.CriticalTasks.Rows, 1)
	assert.Equal(t, "Ada Lovelace", view.CriticalTasks.Rows[0][7].Text)

	svc.AssertExpectations(t)
	refs.AssertExpectations(t)
	opts.AssertExpectations(t)
}

func TestOutstandingPage_SectionRenderFetchesOnlyWhatItNeeds(t *testing.T) {
	svc := mocks.NewMockOutstandingService()
	refs := mocks.NewMockReferenceDataRepository()
	opts := mocks.NewMockFilterOptionsRepository()

	svc.On("CriticalTasks", mock.Anything, domain.AnalyticsFilters{}, domain.CriticalTasksScope.Default).Return([]domain.Task{}, nil)

	page := pages.NewOutstandingPage(svc, refs, opts, 500, discard())
	view := page.Build(context.Background(), pages.Request{
		Section:      viewmodel.SectionCriticalTasks,
		CriticalSort: domain.CriticalTasksScope.Default,
	}, links{})

	assert.Equal(t, viewmodel.SectionCriticalTasks, view.Section)
	assert.False(t, view.CriticalTasks.HasRows())
	svc.AssertNotCalled(t, "Outstanding", mock.Anything, mock.Anything)
	opts.AssertNotCalled(t, "GetFilterOptions", mock.Anything)
	refs.AssertNotCalled(t, "RegionDescriptions", mock.Anything, mock.Anything)
	refs.AssertNotCalled(t, "LocationDescriptions", mock.Anything, mock.Anything)
	refs.AssertNotCalled(t, "CaseWorkerNames", mock.Anything, mock.Anything)
}

func TestOutstandingPage_UnknownSectionRendersFullPage(t *testing.T) {
	svc := mocks.NewMockOutstandingService()
	opts := mocks.NewMockFilterOptionsRepository()

	svc.On("Outstanding", mock.Anything, mock.Anything).Return(domain.Outstanding{}, nil)
	svc.On("CriticalTasks", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	opts.On("GetFilterOptions", mock.Anything).Return(domain.FilterOptions{}, nil)

	page := pages.NewOutstandingPage(svc, mocks.NewMockReferenceDataRepository(), opts, 500, discard())
	view := page.Build(context.Background(), pages.Request{Section: "nope"}, links{})

	assert.Equal(t, "", view.Section)
	svc.AssertExpectations(t)
	opts.AssertExpectations(t)
}

func TestOutstandingPage_FailedFetchFallsBackToEmpty(t *testing.T) {
	svc := mocks.NewMockOutstandingService()
	opts := mocks.NewMockFilterOptionsRepository()
	refs := mocks.NewMockReferenceDataRepository()

	svc.On("Outstanding", mock.Anything, mock.Anything).Return(domain.Outstanding{}, errDown)
	svc.On("CriticalTasks", mock.Anything, mock.Anything, mock.Anything).Return([]domain.Task{{
		CaseID:   "c1",
		TaskID:   "t1",
		Location: "9",
		Priority: domain.PriorityHigh,
		Status:   domain.StatusOpen,
	}}, nil)
	opts.On("GetFilterOptions", mock.Anything).Return(domain.FilterOptions{}, errDown)
	refs.On("LocationDescriptions", mock.Anything, []string{"9"}).Return(nil, errDown)

	page := pages.NewOutstandingPage(svc, refs, opts, 500, discard())
	view := page.Build(context.Background(), pages.Request{}, links{})

	require.NotNil(t, view)
	assert.False(t, view.ByRegion.HasRows())
	require.Len(t, view.CriticalTasks.Rows, 1)
	assert.Equal(t, "9", view.CriticalTasks.Rows[0][2].Text)
	assert.Equal(t, "Unassigned", view.CriticalTasks.Rows[0][7].Text)
}

func TestOutstandingPage_PanicIsContained(t *testing.T) {
	svc := mocks.NewMockOutstandingService()
	opts := mocks.NewMockFilterOptionsRepository()

	svc.On("Outstanding", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		panic("boom")
	}).Return(domain.Outstanding{}, nil)
	svc.On("CriticalTasks", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	opts.On("GetFilterOptions", mock.Anything).Return(domain.FilterOptions{}, nil)

	page := pages.NewOutstandingPage(svc, mocks.NewMockReferenceDataRepository(), opts, 500, discard())

	assert.NotPanics(t, func() {
		page.Build(context.Background(), pages.Request{}, links{})
	})
}

func TestOverviewPage_SectionIsolation(t *testing.T) {
	svc := mocks.NewMockOverviewService()
	opts := mocks.NewMockFilterOptionsRepository()
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	filters := domain.AnalyticsFilters{EventsFrom: &from, EventsTo: &to}

	svc.On("TaskEvents", mock.Anything, filters).Return(domain.TaskEvents{
		Rows:   []domain.TaskEventsRow{{Service: "Civil", Created: 2}},
		Totals: domain.TaskEventsRow{Created: 2},
	}, nil)

	page := pages.NewOverviewPage(svc, mocks.NewMockReferenceDataRepository(), opts, discard())
	view := page.Build(context.Background(), pages.Request{
		Filters: filters,
		Section: viewmodel.SectionTaskEvents,
	}, links{})

	assert.True(t, view.TaskEvents.HasRows())
	assert.False(t, view.ServiceOverview.HasRows())
	svc.AssertNotCalled(t, "ServiceOverview", mock.Anything, mock.Anything)
	opts.AssertNotCalled(t, "GetFilterOptions", mock.Anything)
}

func TestCompletedPage_LooksUpBreakdownCodes(t *testing.T) {
	svc := mocks.NewMockCompletedService()
	refs := mocks.NewMockReferenceDataRepository()

	svc.On("Completed", mock.Anything, mock.Anything).Return(domain.Completed{
		ByLocation: []domain.CompletedBreakdownRow{{Label: "200", Region: "2", Completed: 1}},
		ByRegion:   []domain.CompletedBreakdownRow{{Label: "2", Region: "2", Completed: 1}},
	}, nil)
	refs.On("RegionDescriptions", mock.Anything, []string{"2"}).Return(map[string]string{"2": "Midlands"}, nil)

	page := pages.NewCompletedPage(svc, refs, mocks.NewMockFilterOptionsRepository(), discard())
	view := page.Build(context.Background(), pages.Request{Section: viewmodel.SectionCompletedRegion}, links{})

	require.Len(t, view.ByRegion.Rows, 1)
	assert.Equal(t, "Midlands", view.ByRegion.Rows[0][0].Text)
	refs.AssertNotCalled(t, "LocationDescriptions", mock.Anything, mock.Anything)
	refs.AssertExpectations(t)
}

func TestUsersPage_QueriesRequestedPage(t *testing.T) {
	svc := mocks.NewMockUserOverviewService()
	refs := mocks.NewMockReferenceDataRepository()

	sort := domain.SortState{By: domain.SortKeyCaseID, Dir: domain.SortAsc}
	svc.On("AssignedTasks", mock.Anything, ports.UserTaskQuery{
		Sort:     sort,
		Page:     3,
		PageSize: 2,
	}).Return(domain.TaskPage{
		Tasks:      []domain.Task{{CaseID: "c5", TaskID: "t5", Region: "1", AssigneeID: ptr("u-2")}},
		TotalCount: 5,
	}, nil)
	refs.On("RegionDescriptions", mock.Anything, []string{"1"}).Return(map[string]string{}, nil)
	refs.On("CaseWorkerNames", mock.Anything, []string{"u-2"}).Return(map[string]string{"u-2": "Grace Hopper"}, nil)

	page := pages.NewUsersPage(svc, refs, mocks.NewMockFilterOptionsRepository(), 2, discard())
	view := page.Build(context.Background(), pages.Request{
		Section:      viewmodel.SectionAssigned,
		AssignedSort: sort,
		AssignedPage: 3,
	}, links{})

	require.NotNil(t, view.Assigned.Pagination)
	assert.Equal(t, 3, view.Assigned.Pagination.Page)
	assert.Equal(t, 3, view.Assigned.Pagination.TotalPages)
	svc.AssertNotCalled(t, "CompletedTasks", mock.Anything, mock.Anything)
	svc.AssertNotCalled(t, "Summary", mock.Anything, mock.Anything)
	svc.AssertExpectations(t)
	refs.AssertExpectations(t)
}

// pagedUsers pages tasks the way the repository does: clamp the requested
// page against the count, then LIMIT/OFFSET within the capped total.
type pagedUsers struct {
	tasks []domain.Task
}

func (p pagedUsers) page(query ports.UserTaskQuery) domain.TaskPage {
	total := len(p.tasks)
	page := pagination.ClampPage(query.Page, total, query.PageSize)
	offset := (page - 1) * query.PageSize
	end := min(offset+query.PageSize, pagination.CappedTotal(total))
	return domain.TaskPage{Tasks: p.tasks[offset:end], TotalCount: total, Page: page}
}

func (p pagedUsers) AssignedTasks(_ context.Context, query ports.UserTaskQuery) (domain.TaskPage, error) {
	return p.page(query), nil
}

func (p pagedUsers) CompletedTasks(_ context.Context, query ports.UserTaskQuery) (domain.TaskPage, error) {
	return p.page(query), nil
}

func (p pagedUsers) Summary(context.Context, domain.AnalyticsFilters) (domain.UserOverviewSummary, error) {
	return domain.UserOverviewSummary{}, nil
}

func TestUsersPage_RowsMatchClampedWindow(t *testing.T) {
	tests := []struct {
		name      string
		rows      int
		pageSize  int
		requested int
		wantPage  int
		wantStart int
		wantEnd   int
	}{
		{"past the last page", 30, 10, 5, 3, 21, 30},
		{"past the row cap", 10000, 500, 20, 10, 4501, 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := make([]domain.Task, tt.rows)
			for i := range tasks {
				tasks[i] = domain.Task{CaseID: fmt.Sprintf("c%d", i+1), TaskID: fmt.Sprintf("t%d", i+1)}
			}

			page := pages.NewUsersPage(pagedUsers{tasks: tasks}, nil, nil, tt.pageSize, discard())
			view := page.Build(context.Background(), pages.Request{
				Section:       viewmodel.SectionAssigned,
				AssignedPage:  tt.requested,
				CompletedPage: tt.requested,
			}, links{})

			meta := view.Assigned.Pagination
			require.NotNil(t, meta)
			assert.Equal(t, tt.wantPage, meta.Page)
			assert.Equal(t, tt.wantStart, meta.StartResult)
			assert.Equal(t, tt.wantEnd, meta.EndResult)
			require.Len(t, view.Assigned.Rows, meta.EndResult-meta.StartResult+1)
			assert.Equal(t, fmt.Sprintf("c%d", meta.StartResult), view.Assigned.Rows[0][0].Text)
		})
	}
}

func TestPages_ListSections(t *testing.T) {
	page := pages.NewUsersPage(mocks.NewMockUserOverviewService(), nil, nil, 10, discard())
	assert.Equal(t, []string{
		viewmodel.SectionAssigned,
		viewmodel.SectionCompleted,
		viewmodel.SectionUserSummary,
	}, page.Sections())
}
