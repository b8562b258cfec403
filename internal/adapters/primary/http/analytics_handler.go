package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	mw "github.com/lorrc/task-analytics/internal/adapters/primary/http/middleware"
	"github.com/lorrc/task-analytics/internal/adapters/primary/validation"
	"github.com/lorrc/task-analytics/internal/core/domain"
	apperrors "github.com/lorrc/task-analytics/internal/core/errors"
	"github.com/lorrc/task-analytics/internal/core/pages"
	"github.com/lorrc/task-analytics/internal/core/pagination"
	"github.com/lorrc/task-analytics/internal/core/viewmodel"
	"github.com/lorrc/task-analytics/internal/infrastructure/metrics"
)

// Pages groups the report page orchestrators.
type Pages struct {
	Overview    *pages.OverviewPage
	Outstanding *pages.OutstandingPage
	Completed   *pages.CompletedPage
	Users       *pages.UsersPage
}

// exportableView is implemented by every report view.
type exportableView interface {
	Table(section string) (viewmodel.Table, bool)
}

// AnalyticsHandler serves the report pages, their AJAX sections and exports.
type AnalyticsHandler struct {
	pages        Pages
	cookies      *FilterCookieCodec
	renderer     *Renderer
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(
	p Pages,
	cookies *FilterCookieCodec,
	renderer *Renderer,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		pages:        p,
		cookies:      cookies,
		renderer:     renderer,
		errorHandler: errorHandler,
		logger:       logger,
	}
}

// RegisterRoutes registers the report routes.
func (h *AnalyticsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleRoot)
	r.Post("/", h.HandleRoot)
	for _, item := range viewmodel.Reports {
		r.Get("/"+item.Report, h.HandleReport(item.Report))
		r.Post("/"+item.Report, h.HandleReport(item.Report))
	}
}

// RegisterExportRoutes registers the export routes. They are kept apart so
// they can carry a stricter rate limit.
func (h *AnalyticsHandler) RegisterExportRoutes(r chi.Router) {
	r.Get("/{report}/export/{section}", h.HandleExport)
}

// HandleRoot redirects to the overview report.
func (h *AnalyticsHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/"+viewmodel.ReportOverview, http.StatusSeeOther)
}

// HandleReport renders report as a full page, or as a single section for a
// fetch request naming a known section.
func (h *AnalyticsHandler) HandleReport(report string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(apperrors.ErrBadRequest, "Malformed form data"))
			return
		}

		fetch := mw.IsFetch(r.Context())
		req := h.parseRequest(r, r.Form)
		req.Filters = h.resolveFilters(w, r, r.Form, fetch)
		if !fetch {
			req.Section = ""
		}

		view, section, err := h.build(r.Context(), report, req, newHrefs(report, req))
		if HandleError(w, r, err, h.errorHandler) {
			return
		}

		if section != "" && h.renderer.HasSection(report, section) {
			err = h.renderer.Section(w, http.StatusOK, report, section, view)
		} else {
			err = h.renderer.Page(w, http.StatusOK, report, view)
		}
		if err != nil {
			h.errorHandler.Handle(w, r, apperrors.NewInternalError(err))
		}
	}
}

// parseRequest reads the section, sort and page fields. Filters are resolved
// separately because they depend on the cookie policy.
func (h *AnalyticsHandler) parseRequest(r *http.Request, values url.Values) pages.Request {
	return pages.Request{
		Section:       validation.ParseSection(values),
		CriticalSort:  validation.ParseCriticalTasksSort(values),
		CriticalPage:  pagination.ParsePageParam(values[validation.PageField(domain.CriticalTasksScope)], 1),
		AssignedSort:  validation.ParseAssignedTasksSort(values),
		AssignedPage:  pagination.ParsePageParam(values[validation.PageField(domain.AssignedTasksScope)], 1),
		CompletedSort: validation.ParseCompletedTasksSort(values),
		CompletedPage: pagination.ParsePageParam(values[validation.PageField(domain.CompletedTasksScope)], 1),
	}
}

// resolveFilters applies the cookie policy: an explicit reset clears, a
// plain form post without filter values clears, submitted filter values are
// stored, and otherwise the stored filters are used.
func (h *AnalyticsHandler) resolveFilters(w http.ResponseWriter, r *http.Request, values url.Values, fetch bool) domain.AnalyticsFilters {
	switch {
	case validation.ParseBoolParam(values, validation.FieldResetFilters, false):
		h.cookies.Clear(w)
		return domain.AnalyticsFilters{}

	case validation.HasFilterValues(values):
		filters := validation.ParseFilters(values)
		if err := h.cookies.Write(w, filters); err != nil {
			if errors.Is(err, apperrors.ErrCookieTooLarge) {
				metrics.CookieSkipped()
				h.logger.WarnContext(r.Context(), "filter cookie too large, not stored")
			} else {
				h.logger.ErrorContext(r.Context(), "failed to store filter cookie", "error", err)
			}
		}
		return filters

	case r.Method == http.MethodPost && !fetch:
		h.cookies.Clear(w)
		return domain.AnalyticsFilters{}
	}

	return h.storedFilters(w, r)
}

// readFilters resolves filters without touching the cookie.
func (h *AnalyticsHandler) readFilters(r *http.Request, values url.Values) domain.AnalyticsFilters {
	if validation.HasFilterValues(values) {
		return validation.ParseFilters(values)
	}
	return h.storedFilters(nil, r)
}

// storedFilters decodes the cookie. A rejected cookie is cleared when w is set.
func (h *AnalyticsHandler) storedFilters(w http.ResponseWriter, r *http.Request) domain.AnalyticsFilters {
	filters, err := h.cookies.Read(r)
	if err == nil {
		return filters
	}
	if isCookieRejected(err) {
		h.logger.DebugContext(r.Context(), "ignoring filter cookie", "error", err)
		if w != nil {
			h.cookies.Clear(w)
		}
	}
	return domain.AnalyticsFilters{}
}

// build runs the page orchestrator of report and returns its view and the
// resolved section ("" for a full page).
func (h *AnalyticsHandler) build(ctx context.Context, report string, req pages.Request, links viewmodel.LinkBuilder) (exportableView, string, error) {
	switch report {
	case viewmodel.ReportOverview:
		v := h.pages.Overview.Build(ctx, req, links)
		return v, v.Section, nil
	case viewmodel.ReportOutstanding:
		v := h.pages.Outstanding.Build(ctx, req, links)
		return v, v.Section, nil
	case viewmodel.ReportCompleted:
		v := h.pages.Completed.Build(ctx, req, links)
		return v, v.Section, nil
	case viewmodel.ReportUsers:
		v := h.pages.Users.Build(ctx, req, links)
		return v, v.Section, nil
	}
	return nil, "", apperrors.NewNotFoundError(apperrors.ErrUnknownReport, "Report not found")
}
