package validation

import (
	"net/url"
	"strings"

	"github.com/lorrc/task-analytics/internal/core/domain"
)

// SortByField returns the form field carrying the sort key of a scope.
func SortByField(scope domain.SortScope) string {
	return scope.Name + "SortBy"
}

// SortDirField returns the form field carrying the sort direction of a scope.
func SortDirField(scope domain.SortScope) string {
	return scope.Name + "SortDir"
}

// PageField returns the form field carrying the page number of a scope.
func PageField(scope domain.SortScope) string {
	return scope.Name + "Page"
}

// ParseSort reads <scope>SortBy and <scope>SortDir. An unknown key falls back
// to the scope default as a whole; an invalid direction falls back to the
// default direction.
func ParseSort(values url.Values, scope domain.SortScope) domain.SortState {
	by := ParseStringParam(values, SortByField(scope))
	if !scope.Allows(by) {
		return scope.Default
	}

	dir := domain.SortDirection(strings.ToLower(ParseStringParam(values, SortDirField(scope))))
	if !dir.IsValid() {
		dir = scope.Default.Dir
	}
	return domain.SortState{By: by, Dir: dir}
}

// ParseCriticalTasksSort parses the outstanding critical tasks sort.
func ParseCriticalTasksSort(values url.Values) domain.SortState {
	return ParseSort(values, domain.CriticalTasksScope)
}

// ParseAssignedTasksSort parses the user overview assigned tasks sort.
func ParseAssignedTasksSort(values url.Values) domain.SortState {
	return ParseSort(values, domain.AssignedTasksScope)
}

// ParseCompletedTasksSort parses the user overview completed tasks sort.
func ParseCompletedTasksSort(values url.Values) domain.SortState {
	return ParseSort(values, domain.CompletedTasksScope)
}

// EncodeSort writes a sort state back into url.Values.
func EncodeSort(values url.Values, scope domain.SortScope, state domain.SortState) {
	values.Set(SortByField(scope), state.By)
	values.Set(SortDirField(scope), string(state.Dir))
}
