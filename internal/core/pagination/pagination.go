// Package pagination computes page windows and navigation links for the
// report tables. Everything here is pure.
package pagination

import (
	"math"
	"reflect"
	"strconv"
	"strings"
)

// MaxTotalResults bounds the number of rows that can be paged through.
const MaxTotalResults = 5000

// Link is one navigable page link.
type Link struct {
	Href string
}

// Item is one numbered page in the navigation.
type Item struct {
	Number  int
	Href    string
	Current bool
}

// Navigation is the link set rendered under a paginated table.
type Navigation struct {
	Items         []Item
	Previous      *Link
	Next          *Link
	LandmarkLabel string
}

// Meta describes the window of a paginated table.
type Meta struct {
	Page         int
	PageSize     int
	TotalResults int
	TotalPages   int
	StartResult  int
	EndResult    int
	Show         bool
	Pagination   Navigation
}

// Params are the inputs to BuildMeta and Paginate. BuildHref must serialize
// filters, sort state and the page number into a URL.
type Params struct {
	TotalResults  int
	Page          int
	PageSize      int
	BuildHref     func(page int) string
	LandmarkLabel string
}

// ParsePageParam returns the first positive integer found in raw, which may
// be a string, a number or a slice of strings. Anything else yields def.
func ParsePageParam(raw any, def int) int {
	switch v := raw.(type) {
	case nil:
		return def
	case string:
		return parsePageString(v, def)
	case []string:
		for _, s := range v {
			if page := parsePageString(s, 0); page >= 1 {
				return page
			}
		}
		return def
	case float64:
		return pageFromFloat(v, def)
	case float32:
		return pageFromFloat(float64(v), def)
	}

	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if n := rv.Int(); n >= 1 && n <= math.MaxInt32 {
			return int(n)
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if n := rv.Uint(); n >= 1 && n <= math.MaxInt32 {
			return int(n)
		}
	}
	return def
}

func parsePageString(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 {
			return n
		}
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return pageFromFloat(f, def)
}

func pageFromFloat(f float64, def int) int {
	if math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt32 {
		return def
	}
	if n := int(math.Floor(f)); n >= 1 {
		return n
	}
	return def
}

// CappedTotal bounds total to [0, MaxTotalResults].
func CappedTotal(total int) int {
	return min(max(total, 0), MaxTotalResults)
}

// TotalPages is the number of pages needed for total rows, at least 1.
func TotalPages(total, pageSize int) int {
	pageSize = max(pageSize, 1)
	return max((CappedTotal(total)+pageSize-1)/pageSize, 1)
}

// ClampPage moves page into [1, TotalPages(total, pageSize)]. Query-paged
// tables must fetch the clamped page so the rows match the window BuildMeta
// reports.
func ClampPage(page, total, pageSize int) int {
	return min(max(page, 1), TotalPages(total, pageSize))
}

// BuildMeta computes the page window and navigation for p.
func BuildMeta(p Params) Meta {
	pageSize := p.PageSize
	if pageSize < 1 {
		pageSize = 1
	}

	total := CappedTotal(p.TotalResults)
	totalPages := TotalPages(total, pageSize)
	page := ClampPage(p.Page, total, pageSize)

	start, end := 0, 0
	if total > 0 {
		start = (page-1)*pageSize + 1
		end = min(page*pageSize, total)
	}

	nav := Navigation{LandmarkLabel: p.LandmarkLabel}
	if p.BuildHref != nil {
		nav.Items = make([]Item, 0, totalPages)
		for n := 1; n <= totalPages; n++ {
			nav.Items = append(nav.Items, Item{Number: n, Href: p.BuildHref(n), Current: n == page})
		}
		if page > 1 {
			nav.Previous = &Link{Href: p.BuildHref(page - 1)}
		}
		if page < totalPages {
			nav.Next = &Link{Href: p.BuildHref(page + 1)}
		}
	}

	return Meta{
		Page:         page,
		PageSize:     pageSize,
		TotalResults: total,
		TotalPages:   totalPages,
		StartResult:  start,
		EndResult:    end,
		Show:         totalPages > 1,
		Pagination:   nav,
	}
}

// Paginate slices rows to the window BuildMeta computes for len(rows).
// p.TotalResults is ignored.
func Paginate[T any](rows []T, p Params) ([]T, Meta) {
	p.TotalResults = len(rows)
	meta := BuildMeta(p)
	if meta.StartResult == 0 {
		return []T{}, meta
	}
	return rows[meta.StartResult-1 : meta.EndResult], meta
}
