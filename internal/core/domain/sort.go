package domain

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// SortDirection is the ordering of a sorted column.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// IsValid reports whether the direction is asc or desc.
func (d SortDirection) IsValid() bool {
	return d == SortAsc || d == SortDesc
}

// Toggle returns the opposite direction.
func (d SortDirection) Toggle() SortDirection {
	if d == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// SortState is the active ordering of one table.
type SortState struct {
	By  string
	Dir SortDirection
}

// SortScope names a server-sorted table and its allow-list.
type SortScope struct {
	Name    string
	Keys    []string
	Default SortState
}

// Allows reports whether key is sortable in this scope.
func (s SortScope) Allows(key string) bool {
	for _, k := range s.Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Sort keys shared by the task tables.
const (
	SortKeyCaseID        = "caseId"
	SortKeyCaseType      = "caseType"
	SortKeyLocation      = "location"
	SortKeyTaskName      = "taskName"
	SortKeyCreatedDate   = "createdDate"
	SortKeyAssignedDate  = "assignedDate"
	SortKeyDueDate       = "dueDate"
	SortKeyCompletedDate = "completedDate"
	SortKeyPriority      = "priority"
	SortKeyAgentName     = "agentName"
	SortKeyHandlingTime  = "handlingTime"
	SortKeyWithinDue     = "withinDue"
)

var (
	CriticalTasksScope = SortScope{
		Name: "criticalTasks",
		Keys: []string{
			SortKeyCaseID, SortKeyCaseType, SortKeyLocation, SortKeyTaskName,
			SortKeyCreatedDate, SortKeyDueDate, SortKeyPriority, SortKeyAgentName,
		},
		Default: SortState{By: SortKeyDueDate, Dir: SortAsc},
	}

	AssignedTasksScope = SortScope{
		Name: "assigned",
		Keys: []string{
			SortKeyCaseID, SortKeyCaseType, SortKeyLocation, SortKeyTaskName,
			SortKeyCreatedDate, SortKeyAssignedDate, SortKeyDueDate, SortKeyPriority,
		},
		Default: SortState{By: SortKeyCreatedDate, Dir: SortDesc},
	}

	CompletedTasksScope = SortScope{
		Name: "completed",
		Keys: []string{
			SortKeyCaseID, SortKeyCaseType, SortKeyLocation, SortKeyTaskName,
			SortKeyCreatedDate, SortKeyCompletedDate, SortKeyDueDate,
			SortKeyHandlingTime, SortKeyWithinDue,
		},
		Default: SortState{By: SortKeyCompletedDate, Dir: SortDesc},
	}
)

// SortTasks returns a sorted copy of tasks. Rows missing the sorted value go
// last in either direction; ties fall back to case id then task id so the
// order never depends on the input order. lookups resolves the display
// values of location and agentName.
func SortTasks(tasks []Task, state SortState, lookups ReferenceLookups) []Task {
	sorted := slices.Clone(tasks)
	slices.SortStableFunc(sorted, func(a, b Task) int {
		if c := compareTasks(a, b, state, lookups); c != 0 {
			return c
		}
		if c := strings.Compare(a.CaseID, b.CaseID); c != 0 {
			return c
		}
		return strings.Compare(a.TaskID, b.TaskID)
	})
	return sorted
}

func compareTasks(a, b Task, state SortState, lookups ReferenceLookups) int {
	dir := state.Dir
	switch state.By {
	case SortKeyCaseID:
		return directed(strings.Compare(a.CaseID, b.CaseID), dir)
	case SortKeyCaseType:
		return compareText(a.CaseType, b.CaseType, dir)
	case SortKeyLocation:
		return compareText(locationText(a, lookups), locationText(b, lookups), dir)
	case SortKeyTaskName:
		return compareText(a.TaskName, b.TaskName, dir)
	case SortKeyCreatedDate:
		return directed(a.CreatedDate.Compare(b.CreatedDate), dir)
	case SortKeyAssignedDate:
		return compareTime(a.AssignedDate, b.AssignedDate, dir)
	case SortKeyDueDate:
		return compareTime(a.DueDate, b.DueDate, dir)
	case SortKeyCompletedDate:
		return compareTime(a.CompletedDate, b.CompletedDate, dir)
	case SortKeyPriority:
		return directed(a.Priority.Rank()-b.Priority.Rank(), dir)
	case SortKeyAgentName:
		return compareText(agentText(a, lookups), agentText(b, lookups), dir)
	case SortKeyHandlingTime:
		return compareFloat(a.HandlingTimeDays, b.HandlingTimeDays, dir)
	case SortKeyWithinDue:
		aWithin, aKnown := a.WithinDue()
		bWithin, bKnown := b.WithinDue()
		if c, done := missingLast(!aKnown, !bKnown); done {
			return c
		}
		return directed(boolRank(aWithin)-boolRank(bWithin), dir)
	}
	return 0
}

func locationText(t Task, lookups ReferenceLookups) string {
	if t.Location == "" {
		return ""
	}
	return lookups.LocationName(t.Location)
}

func agentText(t Task, lookups ReferenceLookups) string {
	if t.Assignee() == "" {
		return ""
	}
	return lookups.CaseWorkerName(t.Assignee())
}

func directed(c int, dir SortDirection) int {
	if dir == SortDesc {
		return -c
	}
	return c
}

// missingLast orders a missing value after a present one. done is false when
// both values are present.
func missingLast(aMissing, bMissing bool) (int, bool) {
	switch {
	case aMissing && bMissing:
		return 0, true
	case aMissing:
		return 1, true
	case bMissing:
		return -1, true
	}
	return 0, false
}

func compareText(a, b string, dir SortDirection) int {
	if c, done := missingLast(a == "", b == ""); done {
		return c
	}
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return directed(c, dir)
	}
	return directed(strings.Compare(a, b), dir)
}

func compareTime(a, b *time.Time, dir SortDirection) int {
	if c, done := missingLast(a == nil, b == nil); done {
		return c
	}
	return directed(a.Compare(*b), dir)
}

func compareFloat(a, b *float64, dir SortDirection) int {
	if c, done := missingLast(a == nil, b == nil); done {
		return c
	}
	return directed(cmp.Compare(*a, *b), dir)
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
