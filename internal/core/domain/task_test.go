package domain_test

import (
	"testing"
	"time"

	"github.com/lorrc/task-analytics/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestTaskPriority_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		priority domain.TaskPriority
		want     bool
	}{
		{"urgent is valid", domain.PriorityUrgent, true},
		{"high is valid", domain.PriorityHigh, true},
		{"medium is valid", domain.PriorityMedium, true},
		{"low is valid", domain.PriorityLow, true},
		{"empty is invalid", domain.TaskPriority(""), false},
		{"unknown is invalid", domain.TaskPriority("unknown"), false},
		{"uppercase is invalid", domain.TaskPriority("HIGH"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.priority.IsValid())
		})
	}
}

func TestParsePriority(t *testing.T) {
	assert.Equal(t, domain.PriorityHigh, domain.ParsePriority(" HIGH "))
	assert.Equal(t, domain.TaskPriority("unknown"), domain.ParsePriority("Unknown"))
	assert.Equal(t, domain.StatusAssigned, domain.ParseStatus("ASSIGNED"))
}

func TestPriorityCounts_Add(t *testing.T) {
	var counts domain.PriorityCounts

	assert.True(t, counts.Add(domain.PriorityUrgent))
	assert.True(t, counts.Add(domain.PriorityLow))
	assert.False(t, counts.Add(domain.TaskPriority("unknown")))

	assert.Equal(t, domain.PriorityCounts{Urgent: 1, Low: 1}, counts)
	assert.Equal(t, int64(2), counts.Total())
}

func TestTask_WithinDue(t *testing.T) {
	due := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	sameDayLater := time.Date(2024, 3, 10, 17, 30, 0, 0, time.UTC)
	nextDay := time.Date(2024, 3, 11, 8, 0, 0, 0, time.UTC)
	yes := true

	tests := []struct {
		name   string
		task   domain.Task
		within bool
		known  bool
	}{
		{"explicit verdict wins", domain.Task{WithinSLA: &yes, DueDate: &due, CompletedDate: &nextDay}, true, true},
		{"same calendar day is within", domain.Task{DueDate: &due, CompletedDate: &sameDayLater}, true, true},
		{"next day is beyond", domain.Task{DueDate: &due, CompletedDate: &nextDay}, false, true},
		{"missing due date is unknown", domain.Task{CompletedDate: &nextDay}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			within, known := tt.task.WithinDue()
			assert.Equal(t, tt.within, within)
			assert.Equal(t, tt.known, known)
		})
	}
}

func TestDateRange_Contains(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	r := domain.DateRange{From: &from, To: &to}

	assert.True(t, r.Contains(time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, domain.DateRange{}.Contains(time.Now()))
}

func TestAnalyticsFilters_IsEmpty(t *testing.T) {
	assert.True(t, domain.AnalyticsFilters{}.IsEmpty())
	assert.True(t, domain.AnalyticsFilters{Service: []string{}}.IsEmpty())
	assert.False(t, domain.AnalyticsFilters{Region: []string{"1"}}.IsEmpty())
}

func TestReferenceLookups_FallBackToCode(t *testing.T) {
	lookups := domain.ReferenceLookups{
		Regions: map[string]string{"1": "London"},
	}

	assert.Equal(t, "London", lookups.RegionName("1"))
	assert.Equal(t, "7", lookups.RegionName("7"))
	assert.Equal(t, "366559", lookups.LocationName("366559"))
	assert.Equal(t, domain.UnknownLabel, lookups.CaseWorkerName(""))
}
