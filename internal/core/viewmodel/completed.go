package viewmodel

import (
	"slices"

	"github.com/lorrc/task-analytics/internal/core/domain"
)

// Completed report sections.
const (
	SectionCompletedSummary  = "summary"
	SectionCompletedTimeline = "timeline"
	SectionCompletedByName   = "byName"
	SectionCompletedLocation = "byLocation"
	SectionCompletedRegion   = "byRegion"
	SectionProcessingTime    = "processingTime"
)

// CompletedView is the render-ready completed page.
type CompletedView struct {
	Page

	Summary             []Card
	ComplianceChart     Chart
	TimelineChart       Chart
	TimelineTable       Table
	ByName              Table
	ByLocation          Table
	ByRegion            Table
	ProcessingTimeChart Chart
	ProcessingTimeTable Table
}

// Table returns the exportable table of section.
func (v *CompletedView) Table(section string) (Table, bool) {
	switch section {
	case SectionCompletedTimeline:
		return v.TimelineTable, true
	case SectionCompletedByName:
		return v.ByName, true
	case SectionCompletedLocation:
		return v.ByLocation, true
	case SectionCompletedRegion:
		return v.ByRegion, true
	case SectionProcessingTime:
		return v.ProcessingTimeTable, true
	}
	return Table{}, false
}

// BuildCompletedView shapes the completed dataset for rendering.
func BuildCompletedView(data domain.Completed, state State) *CompletedView {
	return &CompletedView{
		Page:                NewPage(ReportCompleted, state),
		Summary:             completedCards(data.Summary),
		ComplianceChart:     complianceChart("completedComplianceChart", data.Summary),
		TimelineChart:       completedTimelineChart("completedTimelineChart", data.Timeline),
		TimelineTable:       completedTimelineTable(SectionCompletedTimeline, data.Timeline),
		ByName:              completedBreakdownTable(SectionCompletedByName, "Completed tasks by task name", "Task name", data.ByName, nil),
		ByLocation:          completedLocationTable(data.ByLocation, state.Lookups),
		ByRegion:            completedRegionTable(data.ByRegion, state.Lookups),
		ProcessingTimeChart: processingTimeChart(data.ProcessingTime),
		ProcessingTimeTable: processingTimeTable(data.ProcessingTime),
	}
}

func completedCards(s domain.CompletedSummary) []Card {
	return []Card{
		{Label: "Completed tasks", Value: FormatInt(s.Completed)},
		{Label: "Within due date", Value: FormatInt(s.WithinDue)},
		{Label: "Beyond due date", Value: FormatInt(s.BeyondDue)},
		{Label: "Within due date %", Value: FormatPercent(s.WithinDuePct)},
	}
}

func complianceChart(id string, s domain.CompletedSummary) Chart {
	return Chart{
		ID:    id,
		Title: "Completed within due date",
		Traces: []ChartTrace{{
			Type:   "pie",
			Labels: []string{"Within due date", "Beyond due date", "No due date"},
			Values: []float64{float64(s.WithinDue), float64(s.BeyondDue), float64(s.UnknownDue)},
			Hole:   0.5,
		}},
	}
}

func completedTimelineChart(id string, points []domain.CompletedByDatePoint) Chart {
	dates := make([]string, 0, len(points))
	within := make([]float64, 0, len(points))
	beyond := make([]float64, 0, len(points))
	for _, p := range points {
		dates = append(dates, p.Date)
		within = append(within, float64(p.WithinDue))
		beyond = append(beyond, float64(p.BeyondDue))
	}
	return Chart{
		ID:    id,
		Title: "Completed tasks by completed date",
		Traces: []ChartTrace{
			{Type: "bar", Name: "Within due date", X: dates, Y: within},
			{Type: "bar", Name: "Beyond due date", X: dates, Y: beyond},
		},
		Layout: map[string]any{"barmode": "stack"},
	}
}

func completedTimelineTable(id string, points []domain.CompletedByDatePoint) Table {
	t := Table{
		ID:        id,
		Caption:   "Completed tasks by completed date",
		Headers:   []Header{PlainHeader("Completed date"), NumericHeader("Completed"), NumericHeader("Within due date"), NumericHeader("Beyond due date")},
		EmptyText: "No completed tasks.",
	}
	var totals domain.CompletedByDatePoint
	for _, p := range points {
		t.Rows = append(t.Rows, []Cell{dayCell(p.Date), IntCell(p.Completed), IntCell(p.WithinDue), IntCell(p.BeyondDue)})
		totals.Completed += p.Completed
		totals.WithinDue += p.WithinDue
		totals.BeyondDue += p.BeyondDue
	}
	if len(points) > 0 {
		t.Totals = []Cell{TotalLabelCell("Total"), IntCell(totals.Completed), IntCell(totals.WithinDue), IntCell(totals.BeyondDue)}
	}
	return t
}

var completedCountHeaders = []Header{
	NumericHeader("Completed"),
	NumericHeader("Within due date"),
	NumericHeader("Beyond due date"),
	NumericHeader("Within due date %"),
	NumericHeader("Average handling time (days)"),
}

func completedCountCells(r domain.CompletedBreakdownRow) []Cell {
	return []Cell{
		IntCell(r.Completed),
		IntCell(r.WithinDue),
		IntCell(r.BeyondDue),
		PercentCell(r.WithinDuePct),
		AverageCell(r.AverageHandlingDays),
	}
}

// completedBreakdownTable renders one row per label. region, when set, adds a
// region column after the label.
func completedBreakdownTable(id, caption, label string, rows []domain.CompletedBreakdownRow, region func(domain.CompletedBreakdownRow) Cell) Table {
	headers := []Header{PlainHeader(label)}
	if region != nil {
		headers = append(headers, PlainHeader("Region"))
	}
	t := Table{
		ID:        id,
		Caption:   caption,
		Headers:   append(headers, completedCountHeaders...),
		EmptyText: "No completed tasks.",
	}

	var totals domain.CompletedBreakdownRow
	var handlingSum float64
	var handlingRows int64
	for _, r := range rows {
		cells := []Cell{TextCell(r.Label)}
		if region != nil {
			cells = append(cells, region(r))
		}
		t.Rows = append(t.Rows, append(cells, completedCountCells(r)...))

		totals.Completed += r.Completed
		totals.WithinDue += r.WithinDue
		totals.BeyondDue += r.BeyondDue
		if r.AverageHandlingDays != nil {
			handlingSum += *r.AverageHandlingDays * float64(r.Completed)
			handlingRows += r.Completed
		}
	}
	if len(rows) == 0 {
		return t
	}

	if totals.Completed > 0 {
		totals.WithinDuePct = float64(totals.WithinDue) / float64(totals.Completed) * 100
	}
	if handlingRows > 0 {
		avg := handlingSum / float64(handlingRows)
		totals.AverageHandlingDays = &avg
	}
	cells := []Cell{TotalLabelCell("Total")}
	if region != nil {
		cells = append(cells, Cell{})
	}
	t.Totals = append(cells, completedCountCells(totals)...)
	return t
}

func completedLocationTable(rows []domain.CompletedBreakdownRow, lookups domain.ReferenceLookups) Table {
	described := make([]domain.CompletedBreakdownRow, 0, len(rows))
	for _, r := range rows {
		r.Label = lookups.LocationName(r.Label)
		described = append(described, r)
	}
	slices.SortStableFunc(described, func(a, b domain.CompletedBreakdownRow) int {
		return compareLabels(a.Label, b.Label, lookups.RegionName(a.Region), lookups.RegionName(b.Region))
	})
	return completedBreakdownTable(SectionCompletedLocation, "Completed tasks by location", "Location", described,
		func(r domain.CompletedBreakdownRow) Cell { return TextCell(lookups.RegionName(r.Region)) })
}

func completedRegionTable(rows []domain.CompletedBreakdownRow, lookups domain.ReferenceLookups) Table {
	described := make([]domain.CompletedBreakdownRow, 0, len(rows))
	for _, r := range rows {
		r.Label = lookups.RegionName(r.Region)
		described = append(described, r)
	}
	slices.SortStableFunc(described, func(a, b domain.CompletedBreakdownRow) int {
		return compareLabels(a.Label, b.Label, a.Region, b.Region)
	})
	return completedBreakdownTable(SectionCompletedRegion, "Completed tasks by region", "Region", described, nil)
}

func processingTimeChart(points []domain.ProcessingTimePoint) Chart {
	dates := make([]string, 0, len(points))
	handling := make([]float64, 0, len(points))
	processing := make([]float64, 0, len(points))
	for _, p := range points {
		dates = append(dates, p.Date)
		handling = append(handling, chartAverage(p.AverageHandlingDays))
		processing = append(processing, chartAverage(p.AverageProcessingDays))
	}
	return Chart{
		ID:    "processingTimeChart",
		Title: "Average handling and processing time (days)",
		Traces: []ChartTrace{
			{Type: "scatter", Mode: "lines+markers", Name: "Handling time", X: dates, Y: handling},
			{Type: "scatter", Mode: "lines+markers", Name: "Processing time", X: dates, Y: processing},
		},
	}
}

func chartAverage(v *float64) float64 {
	if v == nil {
		return 0
	}
	return RoundAverage(*v).InexactFloat64()
}

func processingTimeTable(points []domain.ProcessingTimePoint) Table {
	t := Table{
		ID:      SectionProcessingTime,
		Caption: "Processing time by completed date",
		Headers: []Header{
			PlainHeader("Completed date"),
			NumericHeader("Completed"),
			NumericHeader("Average handling time (days)"),
			NumericHeader("Average processing time (days)"),
		},
		EmptyText: "No completed tasks.",
	}
	for _, p := range points {
		t.Rows = append(t.Rows, []Cell{
			dayCell(p.Date),
			IntCell(p.Completed),
			AverageCell(p.AverageHandlingDays),
			AverageCell(p.AverageProcessingDays),
		})
	}
	return t
}
