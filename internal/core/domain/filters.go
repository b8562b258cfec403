package domain

import "time"

// DateLayout is the day-precision layout used for filters, series keys and cookies.
const DateLayout = "2006-01-02"

// AnalyticsFilters narrows every report query. A nil or empty slice means
// "no restriction" for that dimension.
type AnalyticsFilters struct {
	Service      []string
	RoleCategory []string
	Region       []string
	Location     []string
	TaskName     []string
	User         []string
	WorkType     []string

	CompletedFrom *time.Time
	CompletedTo   *time.Time
	EventsFrom    *time.Time
	EventsTo      *time.Time
}

// IsEmpty reports whether no filter is applied.
func (f AnalyticsFilters) IsEmpty() bool {
	return len(f.Service) == 0 &&
		len(f.RoleCategory) == 0 &&
		len(f.Region) == 0 &&
		len(f.Location) == 0 &&
		len(f.TaskName) == 0 &&
		len(f.User) == 0 &&
		len(f.WorkType) == 0 &&
		f.CompletedFrom == nil &&
		f.CompletedTo == nil &&
		f.EventsFrom == nil &&
		f.EventsTo == nil
}

// CompletedRange returns the completed-date window of the filters.
func (f AnalyticsFilters) CompletedRange() DateRange {
	return DateRange{From: f.CompletedFrom, To: f.CompletedTo}
}

// EventsRange returns the task-events window of the filters.
func (f AnalyticsFilters) EventsRange() DateRange {
	return DateRange{From: f.EventsFrom, To: f.EventsTo}
}

// DateRange is an inclusive, day-precision window. Either bound may be open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Contains reports whether t falls within the range, comparing calendar days.
func (r DateRange) Contains(t time.Time) bool {
	day := DayKey(t)
	if r.From != nil && day.Before(DayKey(*r.From)) {
		return false
	}
	if r.To != nil && day.After(DayKey(*r.To)) {
		return false
	}
	return true
}

// DayKey truncates t to midnight UTC of its calendar day.
func DayKey(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDay renders t as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// FilterOptions lists the selectable values for each filter control.
type FilterOptions struct {
	Services       []string
	RoleCategories []string
	Regions        []string
	Locations      []string
	TaskNames      []string
	WorkTypes      []string
	Users          []string
}
