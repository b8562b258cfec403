package http

import (
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	mw "github.com/lorrc/task-analytics/internal/adapters/primary/http/middleware"
	"github.com/lorrc/task-analytics/internal/core/domain"
	"github.com/lorrc/task-analytics/internal/core/mocks"
	"github.com/lorrc/task-analytics/internal/core/pages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router      *chi.Mux
	codec       *FilterCookieCodec
	overview    *mocks.MockOverviewService
	outstanding *mocks.MockOutstandingService
	completed   *mocks.MockCompletedService
	users       *mocks.MockUserOverviewService
	refs        *mocks.MockReferenceDataRepository
	options     *mocks.MockFilterOptionsRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s := &testServer{
		codec:       testCodec(),
		overview:    mocks.NewMockOverviewService(),
		outstanding: mocks.NewMockOutstandingService(),
		completed:   mocks.NewMockCompletedService(),
		users:       mocks.NewMockUserOverviewService(),
		refs:        mocks.NewMockReferenceDataRepository(),
		options:     mocks.NewMockFilterOptionsRepository(),
	}
	s.refs.On("RegionDescriptions", mock.Anything, mock.Anything).Return(map[string]string{"1": "London"}, nil).Maybe()
	s.refs.On("LocationDescriptions", mock.Anything, mock.Anything).Return(map[string]string{}, nil).Maybe()
	s.refs.On("CaseWorkerNames", mock.Anything, mock.Anything).Return(map[string]string{}, nil).Maybe()
	s.options.On("GetFilterOptions", mock.Anything).Return(domain.FilterOptions{Regions: []string{"1"}}, nil).Maybe()

	renderer, err := NewRenderer()
	require.NoError(t, err)

	handler := NewAnalyticsHandler(Pages{
		Overview:    pages.NewOverviewPage(s.overview, s.refs, s.options, logger),
		Outstanding: pages.NewOutstandingPage(s.outstanding, s.refs, s.options, 50, logger),
		Completed:   pages.NewCompletedPage(s.completed, s.refs, s.options, logger),
		Users:       pages.NewUsersPage(s.users, s.refs, s.options, 50, logger),
	}, s.codec, renderer, NewErrorHandler(logger), logger)

	s.router = chi.NewRouter()
	s.router.Use(mw.FetchRequest)
	handler.RegisterRoutes(s.router)
	handler.RegisterExportRoutes(s.router)
	return s
}

func (s *testServer) do(req *stdhttp.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func fetchRequest(method, target string) *stdhttp.Request {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set(mw.RequestedWithHeader, mw.RequestedWithFetch)
	return req
}

func (s *testServer) expectOutstanding(filters any) {
	s.outstanding.On("Outstanding", mock.Anything, filters).Return(domain.Outstanding{
		ByRegion: []domain.OutstandingByRegionRow{{Region: "1", Open: 2, Assigned: 1, Unassigned: 1}},
	}, nil)
	s.outstanding.On("CriticalTasks", mock.Anything, filters, mock.Anything).Return([]domain.Task{}, nil)
}

func TestHandleRoot_Redirects(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(httptest.NewRequest(stdhttp.MethodGet, "/", nil))

	assert.Equal(t, stdhttp.StatusSeeOther, rec.Code)
	assert.Equal(t, "/overview", rec.Header().Get("Location"))
}

func TestHandleReport_FullPage(t *testing.T) {
	s := newTestServer(t)
	s.expectOutstanding(domain.AnalyticsFilters{})

	rec := s.do(httptest.NewRequest(stdhttp.MethodGet, "/outstanding", nil))

	require.Equal(t, stdhttp.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<!DOCTYPE html>")
	assert.Contains(t, body, `data-ajax-section="criticalTasks"`)
	assert.Contains(t, body, "London")
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestHandleReport_AjaxSection(t *testing.T) {
	s := newTestServer(t)
	s.overview.On("TaskEvents", mock.Anything, domain.AnalyticsFilters{}).Return(domain.TaskEvents{
		Rows:   []domain.TaskEventsRow{{Service: "Civil", Created: 3}},
		Totals: domain.TaskEventsRow{Created: 3},
	}, nil)

	req := fetchRequest(stdhttp.MethodGet, "/overview?ajaxSection=taskEvents")
	req.Header.Set(mw.RequestSeqHeader, "12")
	rec := s.do(req)

	require.Equal(t, stdhttp.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "<!DOCTYPE html>")
	assert.Contains(t, body, `data-ajax-section="taskEvents"`)
	assert.Contains(t, body, "Civil")
	assert.Equal(t, "12", rec.Header().Get(mw.RequestSeqHeader))
	s.overview.AssertNotCalled(t, "ServiceOverview", mock.Anything, mock.Anything)
	s.options.AssertNotCalled(t, "GetFilterOptions", mock.Anything)
}

func TestHandleReport_SectionWithoutFetchHeaderRendersFullPage(t *testing.T) {
	s := newTestServer(t)
	s.expectOutstanding(domain.AnalyticsFilters{})

	rec := s.do(httptest.NewRequest(stdhttp.MethodGet, "/outstanding?ajaxSection=byRegion", nil))

	assert.Contains(t, rec.Body.String(), "<!DOCTYPE html>")
	s.outstanding.AssertExpectations(t)
}

func TestHandleReport_UnknownSectionRendersFullPage(t *testing.T) {
	s := newTestServer(t)
	s.expectOutstanding(domain.AnalyticsFilters{})

	rec := s.do(fetchRequest(stdhttp.MethodGet, "/outstanding?ajaxSection=nope"))

	assert.Contains(t, rec.Body.String(), "<!DOCTYPE html>")
}

func TestHandleReport_FilterCookiePolicy(t *testing.T) {
	s := newTestServer(t)
	regionOne := domain.AnalyticsFilters{Region: []string{"1"}}
	s.expectOutstanding(regionOne)
	s.expectOutstanding(domain.AnalyticsFilters{})

	t.Run("submitted filters are stored", func(t *testing.T) {
		rec := s.do(httptest.NewRequest(stdhttp.MethodGet, "/outstanding?region=1", nil))

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		decoded, err := s.codec.Decode(cookies[0].Value)
		require.NoError(t, err)
		assert.Equal(t, []string{"1"}, decoded.Region)
	})

	t.Run("stored filters apply when none are submitted", func(t *testing.T) {
		value, err := s.codec.Encode(regionOne)
		require.NoError(t, err)
		req := httptest.NewRequest(stdhttp.MethodGet, "/outstanding", nil)
		req.AddCookie(&stdhttp.Cookie{Name: s.codec.Name(), Value: value})

		rec := s.do(req)

		assert.Empty(t, rec.Result().Cookies())
		s.outstanding.AssertCalled(t, "Outstanding", mock.Anything, regionOne)
	})

	t.Run("form post without filters clears", func(t *testing.T) {
		req := httptest.NewRequest(stdhttp.MethodPost, "/outstanding", strings.NewReader(url.Values{"region": {" "}}.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		rec := s.do(req)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Less(t, cookies[0].MaxAge, 0)
	})

	t.Run("reset clears", func(t *testing.T) {
		rec := s.do(httptest.NewRequest(stdhttp.MethodGet, "/outstanding?resetFilters=true&region=1", nil))

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Less(t, cookies[0].MaxAge, 0)
	})

	t.Run("tampered cookie is ignored and cleared", func(t *testing.T) {
		req := httptest.NewRequest(stdhttp.MethodGet, "/outstanding", nil)
		req.AddCookie(&stdhttp.Cookie{Name: s.codec.Name(), Value: "a.b.c"})

		rec := s.do(req)

		require.Equal(t, stdhttp.StatusOK, rec.Code)
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Less(t, cookies[0].MaxAge, 0)
	})
}

func TestHandleExport(t *testing.T) {
	s := newTestServer(t)
	s.outstanding.On("Outstanding", mock.Anything, mock.Anything).Return(domain.Outstanding{
		ByRegion: []domain.OutstandingByRegionRow{{Region: "1", Open: 2, Assigned: 1, Unassigned: 1}},
	}, nil)

	t.Run("csv", func(t *testing.T) {
		rec := s.do(httptest.NewRequest(stdhttp.MethodGet, "/outstanding/export/byRegion?format=csv", nil))

		require.Equal(t, stdhttp.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "outstanding-byRegion-")
		lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
		require.Len(t, lines, 3)
		assert.True(t, strings.HasPrefix(lines[1], "London,2,1,1"))
		assert.True(t, strings.HasPrefix(lines[2], "Total,2,1,1"))
		s.outstanding.AssertNotCalled(t, "CriticalTasks", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("xlsx", func(t *testing.T) {
		rec := s.do(httptest.NewRequest(stdhttp.MethodGet, "/outstanding/export/byRegion?format=xlsx", nil))

		require.Equal(t, stdhttp.StatusOK, rec.Code)
		assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
		assert.NotZero(t, rec.Body.Len())
	})

	t.Run("unknown format", func(t *testing.T) {
		rec := s.do(httptest.NewRequest(stdhttp.MethodGet, "/outstanding/export/byRegion?format=pdf", nil))
		assert.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("unknown section", func(t *testing.T) {
		rec := s.do(httptest.NewRequest(stdhttp.MethodGet, "/outstanding/export/nope", nil))
		assert.Equal(t, stdhttp.StatusNotFound, rec.Code)
	})

	t.Run("section without table", func(t *testing.T) {
		rec := s.do(httptest.NewRequest(stdhttp.MethodGet, "/outstanding/export/summary", nil))
		assert.Equal(t, stdhttp.StatusNotFound, rec.Code)
	})

	t.Run("unknown report", func(t *testing.T) {
		rec := s.do(httptest.NewRequest(stdhttp.MethodGet, "/nope/export/byRegion", nil))
		assert.Equal(t, stdhttp.StatusNotFound, rec.Code)
	})
}

func TestHrefs(t *testing.T) {
	h := newHrefs("outstanding", pages.Request{
		Filters:      domain.AnalyticsFilters{Region: []string{"1"}},
		CriticalSort: domain.SortState{By: domain.SortKeyCaseID, Dir: domain.SortDesc},
		CriticalPage: 3,
	})

	page := h.PageHref(domain.CriticalTasksScope, 4)
	assert.Contains(t, page, "/outstanding?")
	assert.Contains(t, page, "criticalTasksPage=4")
	assert.Contains(t, page, "region=1")
	assert.Contains(t, page, "criticalTasksSortBy=caseId")

	sorted := h.SortHref(domain.CriticalTasksScope, domain.SortState{By: domain.SortKeyDueDate, Dir: domain.SortAsc})
	assert.Contains(t, sorted, "criticalTasksSortBy=dueDate")
	assert.NotContains(t, sorted, "criticalTasksPage")

	export := h.ExportHref("byRegion", "xlsx")
	assert.True(t, strings.HasPrefix(export, "/outstanding/export/byRegion?"))
	assert.Contains(t, export, "format=xlsx")

	assert.Equal(t, "/overview", newHrefs("overview", pages.Request{}).PageHref(domain.CriticalTasksScope, 1))
}
