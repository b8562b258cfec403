package viewmodel

import (
	"github.com/lorrc/task-analytics/internal/core/domain"
	"github.com/lorrc/task-analytics/internal/core/pagination"
)

// User overview sections.
const (
	SectionAssigned    = "assigned"
	SectionCompleted   = "completed"
	SectionUserSummary = "summary"
	// SectionCompletedByTaskName is exported from the summary section.
	SectionCompletedByTaskName = "completedByTaskName"
)

// UsersData is the fetched input of the user overview page.
type UsersData struct {
	Assigned      domain.TaskPage
	AssignedSort  domain.SortState
	AssignedPage  int
	Completed     domain.TaskPage
	CompletedSort domain.SortState
	CompletedPage int
	PageSize      int
	Summary       domain.UserOverviewSummary
}

// UsersView is the render-ready user overview page.
type UsersView struct {
	Page

	Summary             []Card
	PriorityChart       Chart
	ComplianceChart     Chart
	CompletedByDate     Chart
	CompletedByTaskName Table
	Assigned            Table
	Completed           Table
}

// Table returns the exportable table of section.
func (v *UsersView) Table(section string) (Table, bool) {
	switch section {
	case SectionAssigned:
		return v.Assigned, true
	case SectionCompleted:
		return v.Completed, true
	case SectionCompletedByTaskName, SectionUserSummary:
		return v.CompletedByTaskName, true
	}
	return Table{}, false
}

// BuildUsersView shapes the user overview dataset for rendering.
func BuildUsersView(data UsersData, state State) *UsersView {
	s := data.Summary
	p := s.AssignedPriorities

	return &UsersView{
		Page: NewPage(ReportUsers, state),
		Summary: []Card{
			{Label: "Assigned tasks", Value: FormatInt(s.Assigned)},
			{Label: "Completed tasks", Value: FormatInt(s.Completed.Completed)},
			{Label: "Within due date %", Value: FormatPercent(s.Completed.WithinDuePct)},
		},
		PriorityChart: Chart{
			ID:    "assignedPriorityChart",
			Title: "Assigned tasks by priority",
			Traces: []ChartTrace{{
				Type: "bar",
				X:    []string{"Urgent", "High", "Medium", "Low"},
				Y:    []float64{float64(p.Urgent), float64(p.High), float64(p.Medium), float64(p.Low)},
			}},
		},
		ComplianceChart:     complianceChart("userComplianceChart", s.Completed),
		CompletedByDate:     completedTimelineChart("userCompletedByDateChart", s.CompletedByDate),
		CompletedByTaskName: completedBreakdownTable(SectionCompletedByTaskName, "Completed tasks by task name", "Task name", s.CompletedByTaskName, nil),
		Assigned:            assignedTasksTable(data, state),
		Completed:           completedTasksTable(data, state),
	}
}

func assignedTasksTable(data UsersData, state State) Table {
	scope := domain.AssignedTasksScope
	sort := validSort(data.AssignedSort, scope)
	header := func(text, key string) Header {
		return SortableHeader(text, key, scope, sort, state.Links)
	}

	t := Table{
		ID:      SectionAssigned,
		Caption: "Assigned tasks",
		Headers: []Header{
			header("Case ID", domain.SortKeyCaseID),
			header("Case type", domain.SortKeyCaseType),
			header("Location", domain.SortKeyLocation),
			header("Task name", domain.SortKeyTaskName),
			header("Created date", domain.SortKeyCreatedDate),
			header("Assigned date", domain.SortKeyAssignedDate),
			header("Due date", domain.SortKeyDueDate),
			header("Priority", domain.SortKeyPriority),
		},
		EmptyText: "No assigned tasks.",
	}
	meta := pagination.BuildMeta(pagination.Params{
		TotalResults:  data.Assigned.TotalCount,
		Page:          servedPage(data.Assigned, data.AssignedPage),
		PageSize:      data.PageSize,
		BuildHref:     pageHref(state.Links, scope),
		LandmarkLabel: "Assigned tasks pagination",
	})
	t.Pagination = &meta

	for _, task := range data.Assigned.Tasks {
		t.Rows = append(t.Rows, []Cell{
			TextCell(task.CaseID),
			TextCell(task.CaseType),
			TextCell(state.Lookups.LocationName(task.Location)),
			TextCell(labelOr(task.TaskName, domain.UnknownTaskLabel)),
			DateCell(&task.CreatedDate),
			DateCell(task.AssignedDate),
			DateCell(task.DueDate),
			priorityCell(task.Priority),
		})
	}
	return t
}

func completedTasksTable(data UsersData, state State) Table {
	scope := domain.CompletedTasksScope
	sort := validSort(data.CompletedSort, scope)
	header := func(text, key string) Header {
		return SortableHeader(text, key, scope, sort, state.Links)
	}

	t := Table{
		ID:      SectionCompleted,
		Caption: "Completed tasks",
		Headers: []Header{
			header("Case ID", domain.SortKeyCaseID),
			header("Case type", domain.SortKeyCaseType),
			header("Location", domain.SortKeyLocation),
			header("Task name", domain.SortKeyTaskName),
			header("Created date", domain.SortKeyCreatedDate),
			header("Completed date", domain.SortKeyCompletedDate),
			header("Due date", domain.SortKeyDueDate),
			header("Handling time (days)", domain.SortKeyHandlingTime),
			header("Within due date", domain.SortKeyWithinDue),
		},
		EmptyText: "No completed tasks.",
	}
	meta := pagination.BuildMeta(pagination.Params{
		TotalResults:  data.Completed.TotalCount,
		Page:          servedPage(data.Completed, data.CompletedPage),
		PageSize:      data.PageSize,
		BuildHref:     pageHref(state.Links, scope),
		LandmarkLabel: "Completed tasks pagination",
	})
	t.Pagination = &meta

	for _, task := range data.Completed.Tasks {
		t.Rows = append(t.Rows, []Cell{
			TextCell(task.CaseID),
			TextCell(task.CaseType),
			TextCell(state.Lookups.LocationName(task.Location)),
			TextCell(labelOr(task.TaskName, domain.UnknownTaskLabel)),
			DateCell(&task.CreatedDate),
			DateCell(task.CompletedDate),
			DateCell(task.DueDate),
			AverageCell(task.HandlingTimeDays),
			withinDueCell(task),
		})
	}
	return t
}

func withinDueCell(task domain.Task) Cell {
	within, known := task.WithinDue()
	switch {
	case !known:
		return Cell{Text: MissingValue}
	case within:
		return Cell{Text: "Yes", Attributes: map[string]string{AttrSortValue: "1"}}
	}
	return Cell{Text: "No", Attributes: map[string]string{AttrSortValue: "0"}}
}

func validSort(state domain.SortState, scope domain.SortScope) domain.SortState {
	if !scope.Allows(state.By) || !state.Dir.IsValid() {
		return scope.Default
	}
	return state
}

// servedPage prefers the page the rows were fetched for over the requested one.
func servedPage(page domain.TaskPage, requested int) int {
	if page.Page > 0 {
		return page.Page
	}
	return requested
}
