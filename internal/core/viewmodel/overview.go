package viewmodel

import "github.com/lorrc/task-analytics/internal/core/domain"

// Overview report sections.
const (
	SectionServiceOverview = "serviceOverview"
	SectionTaskEvents      = "taskEvents"
)

// OverviewData is the fetched input of the overview page.
type OverviewData struct {
	ServiceOverview domain.ServiceOverview
	TaskEvents      domain.TaskEvents
	EventsWindow    domain.DateRange
}

// OverviewView is the render-ready overview page.
type OverviewView struct {
	Page

	ServiceOverview Table
	TaskEvents      Table
	EventsChart     Chart
	EventsWindow    string
}

// Table returns the exportable table of section.
func (v *OverviewView) Table(section string) (Table, bool) {
	switch section {
	case SectionServiceOverview:
		return v.ServiceOverview, true
	case SectionTaskEvents:
		return v.TaskEvents, true
	}
	return Table{}, false
}

// BuildOverviewView shapes the overview dataset for rendering.
func BuildOverviewView(data OverviewData, state State) *OverviewView {
	return &OverviewView{
		Page:            NewPage(ReportOverview, state),
		ServiceOverview: serviceOverviewTable(data.ServiceOverview),
		TaskEvents:      taskEventsTable(data.TaskEvents),
		EventsChart:     taskEventsChart(data.TaskEvents),
		EventsWindow:    describeWindow(data.EventsWindow),
	}
}

func serviceOverviewTable(o domain.ServiceOverview) Table {
	t := Table{
		ID:      SectionServiceOverview,
		Caption: "Open tasks by service",
		Headers: append([]Header{
			PlainHeader("Service"),
			NumericHeader("Open"),
			NumericHeader("Assigned"),
			NumericHeader("Assigned %"),
		}, priorityHeaders...),
		EmptyText: "No open tasks.",
	}
	row := func(label Cell, r domain.ServiceOverviewRow) []Cell {
		return append([]Cell{label, IntCell(r.Open), IntCell(r.Assigned), PercentCell(r.AssignedPct)}, priorityCells(r.Priorities)...)
	}
	for _, r := range o.Rows {
		t.Rows = append(t.Rows, row(TextCell(r.Service), r))
	}
	if len(o.Rows) > 0 {
		t.Totals = row(TotalLabelCell("Total"), o.Totals)
	}
	return t
}

func taskEventsTable(e domain.TaskEvents) Table {
	t := Table{
		ID:        SectionTaskEvents,
		Caption:   "Task events by service",
		Headers:   []Header{PlainHeader("Service"), NumericHeader("Created"), NumericHeader("Assigned"), NumericHeader("Completed")},
		EmptyText: "No task events in the selected period.",
	}
	for _, r := range e.Rows {
		t.Rows = append(t.Rows, []Cell{TextCell(r.Service), IntCell(r.Created), IntCell(r.Assigned), IntCell(r.Completed)})
	}
	if len(e.Rows) > 0 {
		t.Totals = []Cell{TotalLabelCell("Total"), IntCell(e.Totals.Created), IntCell(e.Totals.Assigned), IntCell(e.Totals.Completed)}
	}
	return t
}

func taskEventsChart(e domain.TaskEvents) Chart {
	services := make([]string, 0, len(e.Rows))
	created := make([]float64, 0, len(e.Rows))
	assigned := make([]float64, 0, len(e.Rows))
	completed := make([]float64, 0, len(e.Rows))
	for _, r := range e.Rows {
		services = append(services, r.Service)
		created = append(created, float64(r.Created))
		assigned = append(assigned, float64(r.Assigned))
		completed = append(completed, float64(r.Completed))
	}
	return Chart{
		ID:    "taskEventsChart",
		Title: "Task events by service",
		Traces: []ChartTrace{
			{Type: "bar", Name: "Created", X: services, Y: created},
			{Type: "bar", Name: "Assigned", X: services, Y: assigned},
			{Type: "bar", Name: "Completed", X: services, Y: completed},
		},
		Layout: map[string]any{"barmode": "group"},
	}
}

func describeWindow(r domain.DateRange) string {
	switch {
	case r.From != nil && r.To != nil:
		return FormatDate(r.From) + " to " + FormatDate(r.To)
	case r.From != nil:
		return "From " + FormatDate(r.From)
	case r.To != nil:
		return "Up to " + FormatDate(r.To)
	}
	return "All time"
}
