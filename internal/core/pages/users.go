package pages

import (
	"context"
	"log/slog"

	"github.com/lorrc/task-analytics/internal/core/domain"
	"github.com/lorrc/task-analytics/internal/core/ports"
	"github.com/lorrc/task-analytics/internal/core/viewmodel"
)

// UsersPage builds the user overview report.
type UsersPage struct {
	base
	users    ports.UserOverviewService
	pageSize int
}

// NewUsersPage creates the user overview page orchestrator.
func NewUsersPage(
	users ports.UserOverviewService,
	refs ports.ReferenceDataRepository,
	options ports.FilterOptionsRepository,
	pageSize int,
	logger *slog.Logger,
) *UsersPage {
	return &UsersPage{
		base: newBase(viewmodel.ReportUsers, []string{
			viewmodel.SectionAssigned,
			viewmodel.SectionCompleted,
			viewmodel.SectionUserSummary,
		}, refs, options, logger),
		users:    users,
		pageSize: pageSize,
	}
}

// Build fetches what the requested render needs and shapes it for the view.
func (p *UsersPage) Build(ctx context.Context, req Request, links viewmodel.LinkBuilder) *viewmodel.UsersView {
	section := p.resolve(req.Section)
	ctx = p.scope(ctx, section)

	data := viewmodel.UsersData{
		AssignedSort:  req.AssignedSort,
		AssignedPage:  max(req.AssignedPage, 1),
		CompletedSort: req.CompletedSort,
		CompletedPage: max(req.CompletedPage, 1),
		PageSize:      p.pageSize,
	}

	var fetches []fetch
	if wants(section, viewmodel.SectionAssigned) {
		fetches = append(fetches, into("assigned tasks", &data.Assigned, func(ctx context.Context) (domain.TaskPage, error) {
			return p.users.AssignedTasks(ctx, ports.UserTaskQuery{
				Filters:  req.Filters,
				Sort:     req.AssignedSort,
				Page:     data.AssignedPage,
				PageSize: p.pageSize,
			})
		}))
	}
	if wants(section, viewmodel.SectionCompleted) {
		fetches = append(fetches, into("completed tasks", &data.Completed, func(ctx context.Context) (domain.TaskPage, error) {
			return p.users.CompletedTasks(ctx, ports.UserTaskQuery{
				Filters:  req.Filters,
				Sort:     req.CompletedSort,
				Page:     data.CompletedPage,
				PageSize: p.pageSize,
			})
		}))
	}
	if wants(section, viewmodel.SectionUserSummary) {
		fetches = append(fetches, into("user summary", &data.Summary, func(ctx context.Context) (domain.UserOverviewSummary, error) {
			return p.users.Summary(ctx, req.Filters)
		}))
	}
	options := p.run(ctx, section, fetches)

	codes := newCodeSet()
	for _, task := range data.Assigned.Tasks {
		codes.addTask(task)
	}
	for _, task := range data.Completed.Tasks {
		codes.addTask(task)
	}
	if section == "" {
		codes.addOptions(options, req.Filters)
	}

	return viewmodel.BuildUsersView(data, viewmodel.State{
		Filters: req.Filters,
		Options: options,
		Lookups: p.lookups(ctx, codes),
		Links:   links,
		Section: section,
	})
}
