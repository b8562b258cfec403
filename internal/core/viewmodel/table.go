package viewmodel

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/lorrc/task-analytics/internal/core/domain"
	"github.com/lorrc/task-analytics/internal/core/pagination"
)

// Attributes rendered on cells and headers.
const (
	AttrTotalRow    = "data-total-row"
	AttrSortKey     = "data-sort-key"
	AttrSortDir     = "data-sort-dir"
	AttrSortValue   = "data-sort-value"
	AttrExportValue = "data-export-value"
	AttrAriaSort    = "aria-sort"
	AttrNumeric     = "data-numeric"
)

// Cell is one rendered table cell.
type Cell struct {
	Text       string
	Href       string
	Attributes map[string]string
}

// ExportText returns the value written to exports: the raw value when the
// cell carries one, otherwise its display text.
func (c Cell) ExportText() string {
	if v, ok := c.Attributes[AttrExportValue]; ok {
		return v
	}
	return c.Text
}

// Header is one column header. Sortable headers link to the table sorted by
// their key.
type Header struct {
	Text       string
	Key        string
	Numeric    bool
	Href       string
	Attributes map[string]string
}

// Table is a render-ready table.
type Table struct {
	ID         string
	Caption    string
	Headers    []Header
	Rows       [][]Cell
	Totals     []Cell
	Pagination *pagination.Meta
	EmptyText  string
}

// HasRows reports whether the table has any body row.
func (t Table) HasRows() bool {
	return len(t.Rows) > 0
}

// TextCell is a plain text cell. Blank text renders as "Unknown".
func TextCell(text string) Cell {
	if text == "" {
		text = domain.UnknownLabel
	}
	return Cell{Text: text}
}

// LinkCell is a text cell linking to href.
func LinkCell(text, href string) Cell {
	c := TextCell(text)
	c.Href = href
	return c
}

// IntCell is a grouped integer cell.
func IntCell(n int64) Cell {
	raw := strconv.FormatInt(n, 10)
	return Cell{
		Text: FormatInt(n),
		Attributes: map[string]string{
			AttrNumeric:     "true",
			AttrSortValue:   raw,
			AttrExportValue: raw,
		},
	}
}

// PercentCell is a one-decimal percentage cell.
func PercentCell(v float64) Cell {
	raw := RoundPercent(v, 1)
	return Cell{
		Text: FormatPercent(v),
		Attributes: map[string]string{
			AttrNumeric:     "true",
			AttrSortValue:   raw,
			AttrExportValue: raw,
		},
	}
}

// AverageCell is a two-decimal average cell; a nil average renders "-".
func AverageCell(v *float64) Cell {
	c := Cell{Text: FormatAverage(v), Attributes: map[string]string{AttrNumeric: "true"}}
	if v != nil {
		raw := RoundAverage(*v).String()
		c.Attributes[AttrSortValue] = raw
		c.Attributes[AttrExportValue] = raw
	}
	return c
}

// DateCell renders an optional day; the sort and export value is YYYY-MM-DD.
func DateCell(t *time.Time) Cell {
	c := Cell{Text: FormatDate(t)}
	if t != nil {
		day := domain.FormatDay(*t)
		c.Attributes = map[string]string{AttrSortValue: day, AttrExportValue: day}
	}
	return c
}

// TotalLabelCell is the label cell of a totals row.
func TotalLabelCell(label string) Cell {
	return Cell{Text: label, Attributes: map[string]string{AttrTotalRow: "true"}}
}

// PlainHeader is a header the server does not sort. Client side sorting still
// applies.
func PlainHeader(text string) Header {
	return Header{Text: text}
}

// NumericHeader is a right aligned, non server-sorted header.
func NumericHeader(text string) Header {
	return Header{Text: text, Numeric: true}
}

// SortableHeader builds a server-sorted header for key within scope.
// Clicking the active column flips its direction; any other column starts
// ascending.
func SortableHeader(text, key string, scope domain.SortScope, active domain.SortState, links LinkBuilder) Header {
	next := domain.SortState{By: key, Dir: domain.SortAsc}
	ariaSort := "none"
	attrs := map[string]string{AttrSortKey: key}
	if active.By == key {
		next.Dir = active.Dir.Toggle()
		attrs[AttrSortDir] = string(active.Dir)
		ariaSort = "ascending"
		if active.Dir == domain.SortDesc {
			ariaSort = "descending"
		}
	}
	attrs[AttrAriaSort] = ariaSort

	h := Header{Text: text, Key: key, Attributes: attrs}
	if links != nil {
		h.Href = links.SortHref(scope, next)
	}
	return h
}

// ChartTrace is one Plotly trace.
type ChartTrace struct {
	Type   string    `json:"type"`
	Name   string    `json:"name,omitempty"`
	X      []string  `json:"x,omitempty"`
	Y      []float64 `json:"y,omitempty"`
	Labels []string  `json:"labels,omitempty"`
	Values []float64 `json:"values,omitempty"`
	Mode   string    `json:"mode,omitempty"`
	Hole   float64   `json:"hole,omitempty"`
}

// Chart is a chart configuration embedded in data-chart-config.
type Chart struct {
	ID     string
	Title  string
	Traces []ChartTrace
	Layout map[string]any
}

// HasData reports whether any trace has points.
func (c Chart) HasData() bool {
	for _, t := range c.Traces {
		if len(t.X) > 0 || len(t.Values) > 0 {
			return true
		}
	}
	return false
}

// ConfigJSON serialises the chart for the browser as {data, layout}.
func (c Chart) ConfigJSON() string {
	layout := map[string]any{"title": map[string]any{"text": c.Title}}
	for k, v := range c.Layout {
		layout[k] = v
	}
	traces := c.Traces
	if traces == nil {
		traces = []ChartTrace{}
	}
	b, err := json.Marshal(map[string]any{"data": traces, "layout": layout})
	if err != nil {
		return "{}"
	}
	return string(b)
}

// Card is one headline figure.
type Card struct {
	Label string
	Value string
}
