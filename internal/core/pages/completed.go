package pages

import (
	"context"
	"log/slog"

	"github.com/lorrc/task-analytics/internal/core/domain"
	"github.com/lorrc/task-analytics/internal/core/ports"
	"github.com/lorrc/task-analytics/internal/core/viewmodel"
)

// CompletedPage builds the completed tasks report.
type CompletedPage struct {
	base
	completed ports.CompletedService
}

// NewCompletedPage creates the completed page orchestrator.
func NewCompletedPage(
	completed ports.CompletedService,
	refs ports.ReferenceDataRepository,
	options ports.FilterOptionsRepository,
	logger *slog.Logger,
) *CompletedPage {
	return &CompletedPage{
		base: newBase(viewmodel.ReportCompleted, []string{
			viewmodel.SectionCompletedSummary,
			viewmodel.SectionCompletedTimeline,
			viewmodel.SectionCompletedByName,
			viewmodel.SectionCompletedLocation,
			viewmodel.SectionCompletedRegion,
			viewmodel.SectionProcessingTime,
		}, refs, options, logger),
		completed: completed,
	}
}

// Build fetches what the requested render needs and shapes it for the view.
// Every section folds the same completed rows, so a section render costs one
// fetch like a full render does.
func (p *CompletedPage) Build(ctx context.Context, req Request, links viewmodel.LinkBuilder) *viewmodel.CompletedView {
	section := p.resolve(req.Section)
	ctx = p.scope(ctx, section)

	var data domain.Completed
	options := p.run(ctx, section, []fetch{
		into("completed tasks", &data, func(ctx context.Context) (domain.Completed, error) {
			return p.completed.Completed(ctx, req.Filters)
		}),
	})

	codes := newCodeSet()
	if wants(section, viewmodel.SectionCompletedLocation) {
		for _, row := range data.ByLocation {
			addCodes(codes.locations, row.Label)
			addCodes(codes.regions, row.Region)
		}
	}
	if wants(section, viewmodel.SectionCompletedRegion) {
		for _, row := range data.ByRegion {
			addCodes(codes.regions, row.Region)
		}
	}
	if section == "" {
		codes.addOptions(options, req.Filters)
	}

	return viewmodel.BuildCompletedView(data, viewmodel.State{
		Filters: req.Filters,
		Options: options,
		Lookups: p.lookups(ctx, codes),
		Links:   links,
		Section: section,
	})
}
