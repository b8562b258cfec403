package domain

// Labels used when a grouping dimension is blank.
const (
	UnknownLabel     = "Unknown"
	UnknownTaskLabel = "Unknown task"
)

// PriorityCounts tallies tasks per priority band.
type PriorityCounts struct {
	Urgent int64
	High   int64
	Medium int64
	Low    int64
}

// Add counts one task of priority p. It returns false for unknown
// priorities, which are left out of every band.
func (c *PriorityCounts) Add(p TaskPriority) bool {
	switch p {
	case PriorityUrgent:
		c.Urgent++
	case PriorityHigh:
		c.High++
	case PriorityMedium:
		c.Medium++
	case PriorityLow:
		c.Low++
	default:
		return false
	}
	return true
}

// Total sums the four bands.
func (c PriorityCounts) Total() int64 {
	return c.Urgent + c.High + c.Medium + c.Low
}

// Plus returns the band-wise sum of c and o.
func (c PriorityCounts) Plus(o PriorityCounts) PriorityCounts {
	return PriorityCounts{
		Urgent: c.Urgent + o.Urgent,
		High:   c.High + o.High,
		Medium: c.Medium + o.Medium,
		Low:    c.Low + o.Low,
	}
}

// OutstandingSummary is the headline of the outstanding report.
type OutstandingSummary struct {
	Open          int64
	Assigned      int64
	Unassigned    int64
	AssignedPct   float64
	UnassignedPct float64
	Priorities    PriorityCounts
}

// OpenTasksSummary drives the assigned/unassigned split chart.
type OpenTasksSummary struct {
	Assigned      int64
	Unassigned    int64
	AssignedPct   float64
	UnassignedPct float64
}

// AssignmentSeriesPoint counts open work created on one day.
type AssignmentSeriesPoint struct {
	Date       string
	Assigned   int64
	Unassigned int64
	Total      int64
}

// WaitTimePoint aggregates the wait between creation and assignment for
// tasks assigned on one day.
type WaitTimePoint struct {
	Date            string
	AssignedCount   int64
	TotalWaitDays   float64
	AverageWaitDays float64
}

// DueByDatePoint counts open work due on one day.
type DueByDatePoint struct {
	Date       string
	Priorities PriorityCounts
	Total      int64
}

// PriorityBreakdown counts open work per priority for one label.
type PriorityBreakdown struct {
	Name       string
	Priorities PriorityCounts
	Total      int64
}

// OutstandingByLocationRow is one location's open work.
type OutstandingByLocationRow struct {
	Location   string
	Region     string
	Open       int64
	Assigned   int64
	Unassigned int64
	Priorities PriorityCounts
}

// OutstandingByRegionRow is one region's open work.
type OutstandingByRegionRow struct {
	Region     string
	Open       int64
	Assigned   int64
	Unassigned int64
	Priorities PriorityCounts
}

// Outstanding is the folded outstanding-tasks dataset.
type Outstanding struct {
	Summary       OutstandingSummary
	Timeline      []AssignmentSeriesPoint
	WaitTime      []WaitTimePoint
	DueByDate     []DueByDatePoint
	ByName        []PriorityBreakdown
	ByLocation    []OutstandingByLocationRow
	ByRegion      []OutstandingByRegionRow
	CriticalTasks []Task
}

// ServiceOverviewRow is one service's open work on the overview page.
type ServiceOverviewRow struct {
	Service     string
	Open        int64
	Assigned    int64
	Unassigned  int64
	AssignedPct float64
	Priorities  PriorityCounts
}

// ServiceOverview holds per-service rows and their totals.
type ServiceOverview struct {
	Rows   []ServiceOverviewRow
	Totals ServiceOverviewRow
}

// TaskEventsRow counts lifecycle events for one service inside the events window.
type TaskEventsRow struct {
	Service   string
	Created   int64
	Assigned  int64
	Completed int64
}

// TaskEvents holds per-service event rows and their totals.
type TaskEvents struct {
	Rows   []TaskEventsRow
	Totals TaskEventsRow
}

// CompletedSummary is the headline of the completed report.
type CompletedSummary struct {
	Completed    int64
	WithinDue    int64
	BeyondDue    int64
	UnknownDue   int64
	WithinDuePct float64
	BeyondDuePct float64
}

// CompletedByDatePoint counts work completed on one day.
type CompletedByDatePoint struct {
	Date      string
	Completed int64
	WithinDue int64
	BeyondDue int64
}

// CompletedBreakdownRow counts completed work for one label.
type CompletedBreakdownRow struct {
	Label        string
	Region       string
	Completed    int64
	WithinDue    int64
	BeyondDue    int64
	WithinDuePct float64
	// AverageHandlingDays is nil when no task in the bucket reported a handling time.
	AverageHandlingDays *float64
}

// ProcessingTimePoint averages handling and processing time of work completed on one day.
type ProcessingTimePoint struct {
	Date                  string
	Completed             int64
	AverageHandlingDays   *float64
	AverageProcessingDays *float64
}

// Completed is the folded completed-tasks dataset.
type Completed struct {
	Summary        CompletedSummary
	Timeline       []CompletedByDatePoint
	ByName         []CompletedBreakdownRow
	ByLocation     []CompletedBreakdownRow
	ByRegion       []CompletedBreakdownRow
	ProcessingTime []ProcessingTimePoint
}

// UserOverviewSummary is the headline of the user overview page.
type UserOverviewSummary struct {
	Assigned            int64
	AssignedPriorities  PriorityCounts
	Completed           CompletedSummary
	CompletedByDate     []CompletedByDatePoint
	CompletedByTaskName []CompletedBreakdownRow
}
