package validation

import (
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/form"
	"github.com/lorrc/task-analytics/internal/core/domain"
)

// Filter field names, as posted by the filters form and carried in hrefs.
const (
	FieldService       = "service"
	FieldRoleCategory  = "roleCategory"
	FieldRegion        = "region"
	FieldLocation      = "location"
	FieldTaskName      = "taskName"
	FieldUser          = "user"
	FieldWorkType      = "workType"
	FieldCompletedFrom = "completedFrom"
	FieldCompletedTo   = "completedTo"
	FieldEventsFrom    = "eventsFrom"
	FieldEventsTo      = "eventsTo"
)

// FilterFields lists every field that carries a filter value.
var FilterFields = []string{
	FieldService, FieldRoleCategory, FieldRegion, FieldLocation, FieldTaskName,
	FieldUser, FieldWorkType, FieldCompletedFrom, FieldCompletedTo, FieldEventsFrom, FieldEventsTo,
}

// rawFilters is the undecoded filter bag. Every field is a slice so that a
// scalar and a repeated key decode the same way.
type rawFilters struct {
	Service       []string `form:"service"`
	RoleCategory  []string `form:"roleCategory"`
	Region        []string `form:"region"`
	Location      []string `form:"location"`
	TaskName      []string `form:"taskName"`
	User          []string `form:"user"`
	WorkType      []string `form:"workType"`
	CompletedFrom []string `form:"completedFrom"`
	CompletedTo   []string `form:"completedTo"`
	EventsFrom    []string `form:"eventsFrom"`
	EventsTo      []string `form:"eventsTo"`
}

var filterDecoder = form.NewDecoder()

var dateLayouts = []string{domain.DateLayout, "02/01/2006", "2006/01/02"}

// ParseFilters turns an untyped query or form bag into AnalyticsFilters.
// Malformed values are dropped rather than rejected.
func ParseFilters(values url.Values) domain.AnalyticsFilters {
	var raw rawFilters
	if err := filterDecoder.Decode(&raw, values); err != nil {
		// Malformed keys (e.g. "service[x]") abort decoding; read the plain keys instead.
		raw = rawFilters{
			Service:       values[FieldService],
			RoleCategory:  values[FieldRoleCategory],
			Region:        values[FieldRegion],
			Location:      values[FieldLocation],
			TaskName:      values[FieldTaskName],
			User:          values[FieldUser],
			WorkType:      values[FieldWorkType],
			CompletedFrom: values[FieldCompletedFrom],
			CompletedTo:   values[FieldCompletedTo],
			EventsFrom:    values[FieldEventsFrom],
			EventsTo:      values[FieldEventsTo],
		}
	}

	return domain.AnalyticsFilters{
		Service:       cleanList(raw.Service),
		RoleCategory:  cleanList(raw.RoleCategory),
		Region:        cleanList(raw.Region),
		Location:      cleanList(raw.Location),
		TaskName:      cleanList(raw.TaskName),
		User:          cleanList(raw.User),
		WorkType:      cleanList(raw.WorkType),
		CompletedFrom: parseDate(raw.CompletedFrom),
		CompletedTo:   parseDate(raw.CompletedTo),
		EventsFrom:    parseDate(raw.EventsFrom),
		EventsTo:      parseDate(raw.EventsTo),
	}
}

// HasFilterValues reports whether any filter field carries a non-blank value.
func HasFilterValues(values url.Values) bool {
	for _, field := range FilterFields {
		if ParseStringParam(values, field) != "" {
			return true
		}
	}
	return false
}

// EncodeFilters writes filters back into url.Values using the form field names.
func EncodeFilters(f domain.AnalyticsFilters, values url.Values) {
	setList(values, FieldService, f.Service)
	setList(values, FieldRoleCategory, f.RoleCategory)
	setList(values, FieldRegion, f.Region)
	setList(values, FieldLocation, f.Location)
	setList(values, FieldTaskName, f.TaskName)
	setList(values, FieldUser, f.User)
	setList(values, FieldWorkType, f.WorkType)
	setDate(values, FieldCompletedFrom, f.CompletedFrom)
	setDate(values, FieldCompletedTo, f.CompletedTo)
	setDate(values, FieldEventsFrom, f.EventsFrom)
	setDate(values, FieldEventsTo, f.EventsTo)
}

func cleanList(raw []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(raw))
	for _, v := range raw {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func parseDate(raw []string) *time.Time {
	for _, v := range raw {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		// Accept full timestamps by keeping the day part.
		if len(v) > len(domain.DateLayout) && v[len(domain.DateLayout)] == 'T' {
			v = v[:len(domain.DateLayout)]
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return &t
			}
		}
	}
	return nil
}

func setList(values url.Values, key string, list []string) {
	values.Del(key)
	for _, v := range list {
		values.Add(key, v)
	}
}

func setDate(values url.Values, key string, t *time.Time) {
	values.Del(key)
	if t != nil {
		values.Set(key, domain.FormatDay(*t))
	}
}
