package http

import (
	"net/url"
	"strconv"

	"github.com/lorrc/task-analytics/internal/adapters/primary/validation"
	"github.com/lorrc/task-analytics/internal/core/domain"
	"github.com/lorrc/task-analytics/internal/core/pages"
	"github.com/lorrc/task-analytics/internal/core/viewmodel"
)

// hrefs builds report links from the resolved request state so every link
// carries the filters, each table's sort and each table's page.
type hrefs struct {
	report string
	values url.Values
}

var _ viewmodel.LinkBuilder = (*hrefs)(nil)

func newHrefs(report string, req pages.Request) *hrefs {
	values := url.Values{}
	validation.EncodeFilters(req.Filters, values)

	tables := []struct {
		scope domain.SortScope
		sort  domain.SortState
		page  int
	}{
		{domain.CriticalTasksScope, req.CriticalSort, req.CriticalPage},
		{domain.AssignedTasksScope, req.AssignedSort, req.AssignedPage},
		{domain.CompletedTasksScope, req.CompletedSort, req.CompletedPage},
	}
	for _, t := range tables {
		if t.sort != t.scope.Default && t.sort.By != "" {
			validation.EncodeSort(values, t.scope, t.sort)
		}
		if t.page > 1 {
			values.Set(validation.PageField(t.scope), strconv.Itoa(t.page))
		}
	}
	return &hrefs{report: report, values: values}
}

func (h *hrefs) clone() url.Values {
	values := make(url.Values, len(h.values))
	for k, v := range h.values {
		values[k] = append([]string(nil), v...)
	}
	return values
}

func (h *hrefs) PageHref(scope domain.SortScope, page int) string {
	values := h.clone()
	if page > 1 {
		values.Set(validation.PageField(scope), strconv.Itoa(page))
	} else {
		values.Del(validation.PageField(scope))
	}
	return h.href("/"+h.report, values)
}

func (h *hrefs) SortHref(scope domain.SortScope, state domain.SortState) string {
	values := h.clone()
	validation.EncodeSort(values, scope, state)
	values.Del(validation.PageField(scope))
	return h.href("/"+h.report, values)
}

func (h *hrefs) ExportHref(section, format string) string {
	values := h.clone()
	values.Set(validation.FieldFormat, format)
	return h.href("/"+h.report+"/export/"+url.PathEscape(section), values)
}

func (h *hrefs) href(path string, values url.Values) string {
	if len(values) == 0 {
		return path
	}
	return path + "?" + values.Encode()
}
