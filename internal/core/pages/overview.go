package pages

import (
	"context"
	"log/slog"
	"time"

	"github.com/lorrc/task-analytics/internal/core/domain"
	"github.com/lorrc/task-analytics/internal/core/ports"
	"github.com/lorrc/task-analytics/internal/core/services"
	"github.com/lorrc/task-analytics/internal/core/viewmodel"
)

// OverviewPage builds the overview report.
type OverviewPage struct {
	base
	overview ports.OverviewService
	now      func() time.Time
}

// NewOverviewPage creates the overview page orchestrator.
func NewOverviewPage(
	overview ports.OverviewService,
	refs ports.ReferenceDataRepository,
	options ports.FilterOptionsRepository,
	logger *slog.Logger,
) *OverviewPage {
	return &OverviewPage{
		base: newBase(viewmodel.ReportOverview, []string{
			viewmodel.SectionServiceOverview,
			viewmodel.SectionTaskEvents,
		}, refs, options, logger),
		overview: overview,
		now:      time.Now,
	}
}

// Build fetches what the requested render needs and shapes it for the view.
func (p *OverviewPage) Build(ctx context.Context, req Request, links viewmodel.LinkBuilder) *viewmodel.OverviewView {
	section := p.resolve(req.Section)
	ctx = p.scope(ctx, section)

	data := viewmodel.OverviewData{EventsWindow: services.EventsWindow(req.Filters, p.now())}

	var fetches []fetch
	if wants(section, viewmodel.SectionServiceOverview) {
		fetches = append(fetches, into("service overview", &data.ServiceOverview, func(ctx context.Context) (domain.ServiceOverview, error) {
			return p.overview.ServiceOverview(ctx, req.Filters)
		}))
	}
	if wants(section, viewmodel.SectionTaskEvents) {
		fetches = append(fetches, into("task events", &data.TaskEvents, func(ctx context.Context) (domain.TaskEvents, error) {
			return p.overview.TaskEvents(ctx, req.Filters)
		}))
	}
	options := p.run(ctx, section, fetches)

	codes := newCodeSet()
	if section == "" {
		codes.addOptions(options, req.Filters)
	}

	return viewmodel.BuildOverviewView(data, viewmodel.State{
		Filters: req.Filters,
		Options: options,
		Lookups: p.lookups(ctx, codes),
		Links:   links,
		Section: section,
	})
}
