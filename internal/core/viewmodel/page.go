package viewmodel

import (
	"slices"
	"time"

	"github.com/lorrc/task-analytics/internal/core/domain"
)

// Report names, also used as route segments.
const (
	ReportOverview    = "overview"
	ReportOutstanding = "outstanding"
	ReportCompleted   = "completed"
	ReportUsers       = "users"
)

// Reports lists the report pages in navigation order.
var Reports = []NavItem{
	{Report: ReportOverview, Title: "Overview"},
	{Report: ReportOutstanding, Title: "Outstanding tasks"},
	{Report: ReportCompleted, Title: "Completed tasks"},
	{Report: ReportUsers, Title: "User overview"},
}

// NavItem is one entry of the report navigation.
type NavItem struct {
	Report string
	Title  string
}

// State is the per-request input shared by every view builder.
type State struct {
	Filters domain.AnalyticsFilters
	Options domain.FilterOptions
	Lookups domain.ReferenceLookups
	Links   LinkBuilder
	Section string
}

// Page is the chrome common to every report page.
type Page struct {
	Report  string
	Title   string
	Section string
	Nav     []NavItem
	Form    FilterForm
	Links   LinkBuilder
}

// NewPage builds the page chrome for report.
func NewPage(report string, state State) Page {
	title := report
	for _, item := range Reports {
		if item.Report == report {
			title = item.Title
		}
	}
	return Page{
		Report:  report,
		Title:   title,
		Section: state.Section,
		Nav:     Reports,
		Form:    BuildFilterForm(state.Filters, state.Options, state.Lookups),
		Links:   state.Links,
	}
}

// Option is one selectable filter value.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Select is one multi-select filter control.
type Select struct {
	Name    string
	Label   string
	Options []Option
}

// DateField is one date filter input.
type DateField struct {
	Name  string
	Label string
	Value string
}

// FilterForm is the shared filters form.
type FilterForm struct {
	Selects []Select
	Dates   []DateField
}

// BuildFilterForm marks the selected options of every filter control. Values
// selected but missing from the options are kept so they can be cleared.
func BuildFilterForm(f domain.AnalyticsFilters, o domain.FilterOptions, lookups domain.ReferenceLookups) FilterForm {
	identity := func(s string) string { return s }
	return FilterForm{
		Selects: []Select{
			buildSelect("service", "Service", o.Services, f.Service, identity),
			buildSelect("roleCategory", "Role category", o.RoleCategories, f.RoleCategory, identity),
			buildSelect("region", "Region", o.Regions, f.Region, lookups.RegionName),
			buildSelect("location", "Location", o.Locations, f.Location, lookups.LocationName),
			buildSelect("taskName", "Task name", o.TaskNames, f.TaskName, identity),
			buildSelect("workType", "Work type", o.WorkTypes, f.WorkType, identity),
			buildSelect("user", "User", o.Users, f.User, lookups.CaseWorkerName),
		},
		Dates: []DateField{
			dateField("completedFrom", "Completed from", f.CompletedFrom),
			dateField("completedTo", "Completed to", f.CompletedTo),
			dateField("eventsFrom", "Events from", f.EventsFrom),
			dateField("eventsTo", "Events to", f.EventsTo),
		},
	}
}

func buildSelect(name, label string, options, selected []string, describe func(string) string) Select {
	values := slices.Clone(options)
	for _, s := range selected {
		if !slices.Contains(values, s) {
			values = append(values, s)
		}
	}

	s := Select{Name: name, Label: label, Options: make([]Option, 0, len(values))}
	for _, v := range values {
		s.Options = append(s.Options, Option{
			Value:    v,
			Label:    describe(v),
			Selected: slices.Contains(selected, v),
		})
	}
	return s
}

func dateField(name, label string, t *time.Time) DateField {
	d := DateField{Name: name, Label: label}
	if t != nil {
		d.Value = domain.FormatDay(*t)
	}
	return d
}
