package services

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/lorrc/task-analytics/internal/core/domain"
)

const hoursPerDay = 24

// percent returns part/total*100, or 0 when total is 0.
func percent(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// labelOr trims label and substitutes fallback when it is blank.
func labelOr(label, fallback string) string {
	if trimmed := strings.TrimSpace(label); trimmed != "" {
		return trimmed
	}
	return fallback
}

// dayKey renders the calendar day of t as YYYY-MM-DD.
func dayKey(t time.Time) string {
	return domain.FormatDay(t)
}

// daysBetween returns the fractional days from start to end, never negative.
func daysBetween(start, end time.Time) float64 {
	d := end.Sub(start).Hours() / hoursPerDay
	if d < 0 {
		return 0
	}
	return d
}

// buckets groups values by key, keeping one accumulator per distinct key.
type buckets[K comparable, V any] struct {
	items map[K]*V
	init  func(K) V
}

func newBuckets[K comparable, V any](init func(K) V) *buckets[K, V] {
	return &buckets[K, V]{items: make(map[K]*V), init: init}
}

func (b *buckets[K, V]) get(key K) *V {
	if v, ok := b.items[key]; ok {
		return v
	}
	v := b.init(key)
	b.items[key] = &v
	return &v
}

// sorted returns the accumulated values ordered by compare.
func (b *buckets[K, V]) sorted(compare func(a, b V) int) []V {
	out := make([]V, 0, len(b.items))
	for _, v := range b.items {
		out = append(out, *v)
	}
	slices.SortFunc(out, compare)
	return out
}

// byLabel orders labels alphabetically, case-insensitively first so that the
// result is stable for labels differing only in case.
func byLabel(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// average tracks the mean of optional values.
type average struct {
	sum   float64
	count int64
}

func (a *average) add(v *float64) {
	if v == nil {
		return
	}
	a.sum += *v
	a.count++
}

// value returns the mean, or nil when nothing was added.
func (a average) value() *float64 {
	if a.count == 0 {
		return nil
	}
	v := a.sum / float64(a.count)
	return &v
}

func compareDates(a, b string) int {
	return cmp.Compare(a, b)
}
