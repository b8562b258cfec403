package viewmodel

import "github.com/lorrc/task-analytics/internal/core/domain"

// LinkBuilder generates hrefs that carry the current filters, every sort
// state and every page number, replacing only what the link changes.
type LinkBuilder interface {
	// PageHref links to page of the table identified by scope.
	PageHref(scope domain.SortScope, page int) string
	// SortHref links to the table sorted by state, back on its first page.
	SortHref(scope domain.SortScope, state domain.SortState) string
	// ExportHref links to the export of one section.
	ExportHref(section, format string) string
}
