package pages

import (
	"context"
	"log/slog"

	"github.com/lorrc/task-analytics/internal/core/domain"
	"github.com/lorrc/task-analytics/internal/core/ports"
	"github.com/lorrc/task-analytics/internal/core/services"
	"github.com/lorrc/task-analytics/internal/core/viewmodel"
)

// OutstandingPage builds the outstanding tasks report.
type OutstandingPage struct {
	base
	outstanding ports.OutstandingService
	pageSize    int
}

// NewOutstandingPage creates the outstanding page orchestrator.
func NewOutstandingPage(
	outstanding ports.OutstandingService,
	refs ports.ReferenceDataRepository,
	options ports.FilterOptionsRepository,
	pageSize int,
	logger *slog.Logger,
) *OutstandingPage {
	return &OutstandingPage{
		base: newBase(viewmodel.ReportOutstanding, []string{
			viewmodel.SectionOutstandingSummary,
			viewmodel.SectionTimeline,
			viewmodel.SectionWaitTime,
			viewmodel.SectionDueByDate,
			viewmodel.SectionPriorityByName,
			viewmodel.SectionByLocation,
			viewmodel.SectionByRegion,
			viewmodel.SectionCriticalTasks,
		}, refs, options, logger),
		outstanding: outstanding,
		pageSize:    pageSize,
	}
}

// Build fetches what the requested render needs and shapes it for the view.
func (p *OutstandingPage) Build(ctx context.Context, req Request, links viewmodel.LinkBuilder) *viewmodel.OutstandingView {
	section := p.resolve(req.Section)
	ctx = p.scope(ctx, section)

	data := viewmodel.OutstandingData{
		CriticalSort: req.CriticalSort,
		CriticalPage: req.CriticalPage,
		PageSize:     p.pageSize,
	}

	var fetches []fetch
	if wants(section,
		viewmodel.SectionOutstandingSummary,
		viewmodel.SectionTimeline,
		viewmodel.SectionWaitTime,
		viewmodel.SectionDueByDate,
		viewmodel.SectionPriorityByName,
		viewmodel.SectionByLocation,
		viewmodel.SectionByRegion,
	) {
		fetches = append(fetches, into("outstanding tasks", &data.Outstanding, func(ctx context.Context) (domain.Outstanding, error) {
			return p.outstanding.Outstanding(ctx, req.Filters)
		}))
	}
	if wants(section, viewmodel.SectionCriticalTasks) {
		fetches = append(fetches, into("critical tasks", &data.CriticalTasks, func(ctx context.Context) ([]domain.Task, error) {
			return p.outstanding.CriticalTasks(ctx, req.Filters, req.CriticalSort)
		}))
	}
	options := p.run(ctx, section, fetches)

	data.OpenTasks = services.OpenTasksSummary(data.Outstanding.Summary.Assigned, data.Outstanding.Summary.Unassigned)

	codes := newCodeSet()
	for _, row := range data.Outstanding.ByLocation {
		addCodes(codes.locations, row.Location)
		addCodes(codes.regions, row.Region)
	}
	for _, row := range data.Outstanding.ByRegion {
		addCodes(codes.regions, row.Region)
	}
	for _, task := range data.CriticalTasks {
		addCodes(codes.locations, task.Location)
		addCodes(codes.caseWorkers, task.Assignee())
	}
	if section == "" {
		codes.addOptions(options, req.Filters)
	}

	return viewmodel.BuildOutstandingView(data, viewmodel.State{
		Filters: req.Filters,
		Options: options,
		Lookups: p.lookups(ctx, codes),
		Links:   links,
		Section: section,
	})
}
