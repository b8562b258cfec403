package viewmodel

import (
	"slices"
	"strconv"
	"strings"

	"github.com/lorrc/task-analytics/internal/core/domain"
	"github.com/lorrc/task-analytics/internal/core/pagination"
)

// Outstanding report sections.
const (
	SectionOutstandingSummary = "summary"
	SectionTimeline           = "timeline"
	SectionWaitTime           = "waitTime"
	SectionDueByDate          = "dueByDate"
	SectionPriorityByName     = "priorityByName"
	SectionByLocation         = "byLocation"
	SectionByRegion           = "byRegion"
	SectionCriticalTasks      = "criticalTasks"
)

// OutstandingData is the fetched input of the outstanding page.
type OutstandingData struct {
	Outstanding   domain.Outstanding
	OpenTasks     domain.OpenTasksSummary
	CriticalTasks []domain.Task
	CriticalSort  domain.SortState
	CriticalPage  int
	PageSize      int
}

// OutstandingView is the render-ready outstanding page.
type OutstandingView struct {
	Page

	Summary        []Card
	OpenTasksChart Chart
	TimelineChart  Chart
	TimelineTable  Table
	WaitTimeChart  Chart
	WaitTimeTable  Table
	DueByDateChart Chart
	DueByDateTable Table
	PriorityByName Table
	ByLocation     Table
	ByRegion       Table
	CriticalTasks  Table
}

// Table returns the exportable table of section.
func (v *OutstandingView) Table(section string) (Table, bool) {
	switch section {
	case SectionTimeline:
		return v.TimelineTable, true
	case SectionWaitTime:
		return v.WaitTimeTable, true
	case SectionDueByDate:
		return v.DueByDateTable, true
	case SectionPriorityByName:
		return v.PriorityByName, true
	case SectionByLocation:
		return v.ByLocation, true
	case SectionByRegion:
		return v.ByRegion, true
	case SectionCriticalTasks:
		return v.CriticalTasks, true
	}
	return Table{}, false
}

// BuildOutstandingView shapes the outstanding dataset for rendering.
func BuildOutstandingView(data OutstandingData, state State) *OutstandingView {
	o := data.Outstanding
	open := data.OpenTasks

	return &OutstandingView{
		Page: NewPage(ReportOutstanding, state),
		Summary: []Card{
			{Label: "Open tasks", Value: FormatInt(o.Summary.Open)},
			{Label: "Assigned", Value: FormatInt(o.Summary.Assigned)},
			{Label: "Unassigned", Value: FormatInt(o.Summary.Unassigned)},
			{Label: "Assigned %", Value: FormatPercent(o.Summary.AssignedPct)},
			{Label: "Urgent", Value: FormatInt(o.Summary.Priorities.Urgent)},
			{Label: "High", Value: FormatInt(o.Summary.Priorities.High)},
		},
		OpenTasksChart: Chart{
			ID:    "openTasksChart",
			Title: "Open tasks by assignment",
			Traces: []ChartTrace{{
				Type:   "pie",
				Labels: []string{"Assigned", "Unassigned"},
				Values: []float64{open.AssignedPct, open.UnassignedPct},
				Hole:   0.5,
			}},
		},
		TimelineChart:  timelineChart(o.Timeline),
		TimelineTable:  timelineTable(o.Timeline),
		WaitTimeChart:  waitTimeChart(o.WaitTime),
		WaitTimeTable:  waitTimeTable(o.WaitTime),
		DueByDateChart: dueByDateChart(o.DueByDate),
		DueByDateTable: dueByDateTable(o.DueByDate),
		PriorityByName: priorityByNameTable(o.ByName),
		ByLocation:     outstandingByLocationTable(o.ByLocation, state.Lookups),
		ByRegion:       outstandingByRegionTable(o.ByRegion, state.Lookups),
		CriticalTasks:  criticalTasksTable(data, state),
	}
}

var priorityHeaders = []Header{
	NumericHeader("Urgent"), NumericHeader("High"), NumericHeader("Medium"), NumericHeader("Low"),
}

func priorityCells(p domain.PriorityCounts) []Cell {
	return []Cell{IntCell(p.Urgent), IntCell(p.High), IntCell(p.Medium), IntCell(p.Low)}
}

// PriorityLabel renders a priority for display.
func PriorityLabel(p domain.TaskPriority) string {
	if !p.IsValid() {
		return domain.UnknownLabel
	}
	s := p.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

func timelineChart(points []domain.AssignmentSeriesPoint) Chart {
	dates := make([]string, 0, len(points))
	assigned := make([]float64, 0, len(points))
	unassigned := make([]float64, 0, len(points))
	for _, p := range points {
		dates = append(dates, p.Date)
		assigned = append(assigned, float64(p.Assigned))
		unassigned = append(unassigned, float64(p.Unassigned))
	}
	return Chart{
		ID:    "timelineChart",
		Title: "Open tasks by created date",
		Traces: []ChartTrace{
			{Type: "bar", Name: "Assigned", X: dates, Y: assigned},
			{Type: "bar", Name: "Unassigned", X: dates, Y: unassigned},
		},
		Layout: map[string]any{"barmode": "stack"},
	}
}

func timelineTable(points []domain.AssignmentSeriesPoint) Table {
	t := Table{
		ID:        SectionTimeline,
		Caption:   "Open tasks by created date",
		Headers:   []Header{PlainHeader("Created date"), NumericHeader("Assigned"), NumericHeader("Unassigned"), NumericHeader("Total")},
		EmptyText: "No open tasks.",
	}
	var totals domain.AssignmentSeriesPoint
	for _, p := range points {
		t.Rows = append(t.Rows, []Cell{dayCell(p.Date), IntCell(p.Assigned), IntCell(p.Unassigned), IntCell(p.Total)})
		totals.Assigned += p.Assigned
		totals.Unassigned += p.Unassigned
		totals.Total += p.Total
	}
	if len(points) > 0 {
		t.Totals = []Cell{TotalLabelCell("Total"), IntCell(totals.Assigned), IntCell(totals.Unassigned), IntCell(totals.Total)}
	}
	return t
}

func waitTimeChart(points []domain.WaitTimePoint) Chart {
	dates := make([]string, 0, len(points))
	avg := make([]float64, 0, len(points))
	for _, p := range points {
		dates = append(dates, p.Date)
		avg = append(avg, RoundAverage(p.AverageWaitDays).InexactFloat64())
	}
	return Chart{
		ID:     "waitTimeChart",
		Title:  "Average wait time (days) by assigned date",
		Traces: []ChartTrace{{Type: "scatter", Mode: "lines+markers", Name: "Average wait (days)", X: dates, Y: avg}},
	}
}

func waitTimeTable(points []domain.WaitTimePoint) Table {
	t := Table{
		ID:        SectionWaitTime,
		Caption:   "Wait time by assigned date",
		Headers:   []Header{PlainHeader("Assigned date"), NumericHeader("Assigned tasks"), NumericHeader("Average wait (days)")},
		EmptyText: "No assigned tasks.",
	}
	var count int64
	var total float64
	for _, p := range points {
		avg := p.AverageWaitDays
		t.Rows = append(t.Rows, []Cell{dayCell(p.Date), IntCell(p.AssignedCount), AverageCell(&avg)})
		count += p.AssignedCount
		total += p.TotalWaitDays
	}
	if count > 0 {
		avg := total / float64(count)
		t.Totals = []Cell{TotalLabelCell("Total"), IntCell(count), AverageCell(&avg)}
	}
	return t
}

func dueByDateChart(points []domain.DueByDatePoint) Chart {
	dates := make([]string, 0, len(points))
	series := make([][]float64, 4)
	for _, p := range points {
		dates = append(dates, p.Date)
		series[0] = append(series[0], float64(p.Priorities.Urgent))
		series[1] = append(series[1], float64(p.Priorities.High))
		series[2] = append(series[2], float64(p.Priorities.Medium))
		series[3] = append(series[3], float64(p.Priorities.Low))
	}
	traces := make([]ChartTrace, 0, 4)
	for i, name := range []string{"Urgent", "High", "Medium", "Low"} {
		traces = append(traces, ChartTrace{Type: "bar", Name: name, X: dates, Y: series[i]})
	}
	return Chart{
		ID:     "dueByDateChart",
		Title:  "Open tasks by due date",
		Traces: traces,
		Layout: map[string]any{"barmode": "stack"},
	}
}

func dueByDateTable(points []domain.DueByDatePoint) Table {
	t := Table{
		ID:        SectionDueByDate,
		Caption:   "Open tasks by due date",
		Headers:   append(append([]Header{PlainHeader("Due date")}, priorityHeaders...), NumericHeader("Total")),
		EmptyText: "No open tasks with a due date.",
	}
	var totals domain.PriorityCounts
	var total int64
	for _, p := range points {
		row := append([]Cell{dayCell(p.Date)}, priorityCells(p.Priorities)...)
		t.Rows = append(t.Rows, append(row, IntCell(p.Total)))
		totals = totals.Plus(p.Priorities)
		total += p.Total
	}
	if len(points) > 0 {
		row := append([]Cell{TotalLabelCell("Total")}, priorityCells(totals)...)
		t.Totals = append(row, IntCell(total))
	}
	return t
}

func priorityByNameTable(rows []domain.PriorityBreakdown) Table {
	t := Table{
		ID:        SectionPriorityByName,
		Caption:   "Open tasks by task name",
		Headers:   append(append([]Header{PlainHeader("Task name")}, priorityHeaders...), NumericHeader("Total")),
		EmptyText: "No open tasks.",
	}
	var totals domain.PriorityCounts
	var total int64
	for _, r := range rows {
		row := append([]Cell{TextCell(r.Name)}, priorityCells(r.Priorities)...)
		t.Rows = append(t.Rows, append(row, IntCell(r.Total)))
		totals = totals.Plus(r.Priorities)
		total += r.Total
	}
	if len(rows) > 0 {
		row := append([]Cell{TotalLabelCell("Total")}, priorityCells(totals)...)
		t.Totals = append(row, IntCell(total))
	}
	return t
}

func openCountHeaders() []Header {
	return append([]Header{NumericHeader("Open"), NumericHeader("Assigned"), NumericHeader("Unassigned")}, priorityHeaders...)
}

func openCountCells(open, assigned, unassigned int64, p domain.PriorityCounts) []Cell {
	return append([]Cell{IntCell(open), IntCell(assigned), IntCell(unassigned)}, priorityCells(p)...)
}

func outstandingByLocationTable(rows []domain.OutstandingByLocationRow, lookups domain.ReferenceLookups) Table {
	t := Table{
		ID:        SectionByLocation,
		Caption:   "Open tasks by location",
		Headers:   append([]Header{PlainHeader("Location"), PlainHeader("Region")}, openCountHeaders()...),
		EmptyText: "No open tasks.",
	}

	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b domain.OutstandingByLocationRow) int {
		return compareLabels(
			lookups.LocationName(a.Location), lookups.LocationName(b.Location),
			lookups.RegionName(a.Region), lookups.RegionName(b.Region),
		)
	})

	var totals domain.OutstandingByLocationRow
	for _, r := range sorted {
		row := []Cell{TextCell(lookups.LocationName(r.Location)), TextCell(lookups.RegionName(r.Region))}
		t.Rows = append(t.Rows, append(row, openCountCells(r.Open, r.Assigned, r.Unassigned, r.Priorities)...))
		totals.Open += r.Open
		totals.Assigned += r.Assigned
		totals.Unassigned += r.Unassigned
		totals.Priorities = totals.Priorities.Plus(r.Priorities)
	}
	if len(rows) > 0 {
		row := []Cell{TotalLabelCell("Total"), {}}
		t.Totals = append(row, openCountCells(totals.Open, totals.Assigned, totals.Unassigned, totals.Priorities)...)
	}
	return t
}

func outstandingByRegionTable(rows []domain.OutstandingByRegionRow, lookups domain.ReferenceLookups) Table {
	t := Table{
		ID:        SectionByRegion,
		Caption:   "Open tasks by region",
		Headers:   append([]Header{PlainHeader("Region")}, openCountHeaders()...),
		EmptyText: "No open tasks.",
	}

	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b domain.OutstandingByRegionRow) int {
		return compareLabels(lookups.RegionName(a.Region), lookups.RegionName(b.Region), a.Region, b.Region)
	})

	var totals domain.OutstandingByRegionRow
	for _, r := range sorted {
		row := []Cell{TextCell(lookups.RegionName(r.Region))}
		t.Rows = append(t.Rows, append(row, openCountCells(r.Open, r.Assigned, r.Unassigned, r.Priorities)...))
		totals.Open += r.Open
		totals.Assigned += r.Assigned
		totals.Unassigned += r.Unassigned
		totals.Priorities = totals.Priorities.Plus(r.Priorities)
	}
	if len(rows) > 0 {
		row := []Cell{TotalLabelCell("Total")}
		t.Totals = append(row, openCountCells(totals.Open, totals.Assigned, totals.Unassigned, totals.Priorities)...)
	}
	return t
}

func criticalTasksTable(data OutstandingData, state State) Table {
	scope := domain.CriticalTasksScope
	sort := validSort(data.CriticalSort, scope)

	header := func(text, key string) Header {
		return SortableHeader(text, key, scope, sort, state.Links)
	}
	t := Table{
		ID:      SectionCriticalTasks,
		Caption: "Critical tasks",
		Headers: []Header{
			header("Case ID", domain.SortKeyCaseID),
			header("Case type", domain.SortKeyCaseType),
			header("Location", domain.SortKeyLocation),
			header("Task name", domain.SortKeyTaskName),
			header("Created date", domain.SortKeyCreatedDate),
			header("Due date", domain.SortKeyDueDate),
			header("Priority", domain.SortKeyPriority),
			header("Agent", domain.SortKeyAgentName),
		},
		EmptyText: "No critical tasks.",
	}

	sorted := domain.SortTasks(data.CriticalTasks, sort, state.Lookups)
	paged, meta := pagination.Paginate(sorted, pagination.Params{
		Page:          data.CriticalPage,
		PageSize:      data.PageSize,
		BuildHref:     pageHref(state.Links, scope),
		LandmarkLabel: "Critical tasks pagination",
	})
	t.Pagination = &meta

	for _, task := range paged {
		t.Rows = append(t.Rows, []Cell{
			TextCell(task.CaseID),
			TextCell(task.CaseType),
			TextCell(state.Lookups.LocationName(task.Location)),
			TextCell(labelOr(task.TaskName, domain.UnknownTaskLabel)),
			DateCell(&task.CreatedDate),
			DateCell(task.DueDate),
			priorityCell(task.Priority),
			TextCell(agentName(task, state.Lookups)),
		})
	}
	return t
}

func priorityCell(p domain.TaskPriority) Cell {
	c := TextCell(PriorityLabel(p))
	c.Attributes = map[string]string{AttrSortValue: strconv.Itoa(p.Rank())}
	return c
}

func agentName(task domain.Task, lookups domain.ReferenceLookups) string {
	if task.Assignee() == "" {
		return "Unassigned"
	}
	return lookups.CaseWorkerName(task.Assignee())
}

func pageHref(links LinkBuilder, scope domain.SortScope) func(int) string {
	if links == nil {
		return nil
	}
	return func(page int) string {
		return links.PageHref(scope, page)
	}
}

func dayCell(date string) Cell {
	return Cell{Text: date, Attributes: map[string]string{AttrSortValue: date, AttrExportValue: date}}
}

func labelOr(label, fallback string) string {
	if strings.TrimSpace(label) == "" {
		return fallback
	}
	return label
}

// compareLabels orders by a case-insensitively, then b, then raw values.
func compareLabels(a1, a2, b1, b2 string) int {
	if c := strings.Compare(strings.ToLower(a1), strings.ToLower(a2)); c != 0 {
		return c
	}
	if c := strings.Compare(strings.ToLower(b1), strings.ToLower(b2)); c != 0 {
		return c
	}
	if c := strings.Compare(a1, a2); c != 0 {
		return c
	}
	return strings.Compare(b1, b2)
}
