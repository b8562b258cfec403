package domain

import (
	"strings"
	"time"
)

// TaskPriority is the urgency band of a task.
type TaskPriority string

const (
	PriorityUrgent TaskPriority = "urgent"
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

// IsValid reports whether the priority is one of the four known bands.
func (p TaskPriority) IsValid() bool {
	switch p {
	case PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Rank orders priorities from most to least urgent. Unknown priorities sort last.
func (p TaskPriority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	}
	return 4
}

// IsCritical reports whether the task belongs in the critical tasks table.
func (p TaskPriority) IsCritical() bool {
	return p == PriorityUrgent || p == PriorityHigh
}

func (p TaskPriority) String() string {
	return string(p)
}

// ParsePriority normalises a stored priority. Unrecognised values are kept so
// they can be counted as open work without landing in a priority bucket.
func ParsePriority(raw string) TaskPriority {
	return TaskPriority(strings.ToLower(strings.TrimSpace(raw)))
}

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusOpen      TaskStatus = "open"
	StatusAssigned  TaskStatus = "assigned"
	StatusCompleted TaskStatus = "completed"
)

// IsValid reports whether the status is known.
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusOpen, StatusAssigned, StatusCompleted:
		return true
	}
	return false
}

// IsOutstanding reports whether the task still needs work.
func (s TaskStatus) IsOutstanding() bool {
	return s == StatusOpen || s == StatusAssigned
}

func (s TaskStatus) String() string {
	return string(s)
}

// ParseStatus normalises a stored status.
func ParseStatus(raw string) TaskStatus {
	return TaskStatus(strings.ToLower(strings.TrimSpace(raw)))
}

// Task is a flattened, read-only task record built per request.
type Task struct {
	CaseID       string
	TaskID       string
	CaseType     string
	Service      string
	RoleCategory string
	Region       string
	Location     string
	TaskName     string
	WorkType     string
	Priority     TaskPriority
	Status       TaskStatus

	CreatedDate   time.Time
	AssignedDate  *time.Time
	DueDate       *time.Time
	CompletedDate *time.Time

	AssigneeID *string

	HandlingTimeDays   *float64
	ProcessingTimeDays *float64

	// WithinSLA is nil when the source system has no verdict.
	WithinSLA *bool
}

// IsAssigned reports whether the task has been picked up by a case worker.
func (t Task) IsAssigned() bool {
	if t.Status == StatusAssigned {
		return true
	}
	return t.Status != StatusOpen && t.AssigneeID != nil && *t.AssigneeID != ""
}

// WithinDue reports whether the task was completed on or before its due
// date. The second return value is false when that cannot be known.
func (t Task) WithinDue() (bool, bool) {
	if t.WithinSLA != nil {
		return *t.WithinSLA, true
	}
	if t.CompletedDate == nil || t.DueDate == nil {
		return false, false
	}
	return !DayKey(*t.CompletedDate).After(DayKey(*t.DueDate)), true
}

// Assignee returns the assignee id or an empty string.
func (t Task) Assignee() string {
	if t.AssigneeID == nil {
		return ""
	}
	return *t.AssigneeID
}

// TaskPage is one page of tasks fetched with query-level pagination.
type TaskPage struct {
	Tasks      []Task
	TotalCount int
	// Page is the page the rows belong to after clamping. Zero when unknown.
	Page int
}
