package services

import (
	"context"

	"github.com/lorrc/task-analytics/internal/core/domain"
	"github.com/lorrc/task-analytics/internal/core/ports"
)

// OutstandingService implements the outstanding tasks report.
type OutstandingService struct {
	taskRepo ports.TaskRepository
}

var _ ports.OutstandingService = (*OutstandingService)(nil)

// NewOutstandingService creates a new outstanding service.
func NewOutstandingService(taskRepo ports.TaskRepository) ports.OutstandingService {
	return &OutstandingService{taskRepo: taskRepo}
}

// Outstanding folds every open and assigned task matching filters.
func (s *OutstandingService) Outstanding(ctx context.Context, filters domain.AnalyticsFilters) (domain.Outstanding, error) {
	tasks, err := s.taskRepo.ListOutstandingTasks(ctx, filters)
	if err != nil {
		return domain.Outstanding{}, err
	}
	return BuildOutstanding(tasks), nil
}

// CriticalTasks returns outstanding urgent and high priority tasks in the
// requested order.
func (s *OutstandingService) CriticalTasks(ctx context.Context, filters domain.AnalyticsFilters, sort domain.SortState) ([]domain.Task, error) {
	tasks, err := s.taskRepo.ListCriticalTasks(ctx, filters)
	if err != nil {
		return nil, err
	}
	return SortCriticalTasks(tasks, sort), nil
}

// SortCriticalTasks orders critical tasks by sort, falling back to the table
// default for keys it does not allow.
func SortCriticalTasks(tasks []domain.Task, sort domain.SortState) []domain.Task {
	return domain.SortTasks(tasks, normaliseSort(sort, domain.CriticalTasksScope), domain.ReferenceLookups{})
}

// OpenTasksSummary splits open work into assigned and unassigned shares.
// With no open work the unassigned share is reported as 100%.
func OpenTasksSummary(assigned, unassigned int64) domain.OpenTasksSummary {
	total := assigned + unassigned
	if total == 0 {
		return domain.OpenTasksSummary{AssignedPct: 0, UnassignedPct: 100}
	}
	return domain.OpenTasksSummary{
		Assigned:      assigned,
		Unassigned:    unassigned,
		AssignedPct:   percent(assigned, total),
		UnassignedPct: percent(unassigned, total),
	}
}

type locationKey struct {
	region   string
	location string
}

// BuildOutstanding folds outstanding tasks into the report dataset. Date
// series are sparse: days without tasks are absent, not zero-filled.
func BuildOutstanding(tasks []domain.Task) domain.Outstanding {
	var summary domain.OutstandingSummary

	timeline := newBuckets(func(date string) domain.AssignmentSeriesPoint {
		return domain.AssignmentSeriesPoint{Date: date}
	})
	waitTime := newBuckets(func(date string) domain.WaitTimePoint {
		return domain.WaitTimePoint{Date: date}
	})
	dueByDate := newBuckets(func(date string) domain.DueByDatePoint {
		return domain.DueByDatePoint{Date: date}
	})
	byName := newBuckets(func(name string) domain.PriorityBreakdown {
		return domain.PriorityBreakdown{Name: name}
	})
	byLocation := newBuckets(func(k locationKey) domain.OutstandingByLocationRow {
		return domain.OutstandingByLocationRow{Location: k.location, Region: k.region}
	})
	byRegion := newBuckets(func(region string) domain.OutstandingByRegionRow {
		return domain.OutstandingByRegionRow{Region: region}
	})

	critical := make([]domain.Task, 0)

	for _, task := range tasks {
		if task.Status == domain.StatusCompleted {
			continue
		}
		assigned := task.IsAssigned()

		summary.Open++
		if assigned {
			summary.Assigned++
		} else {
			summary.Unassigned++
		}
		summary.Priorities.Add(task.Priority)

		point := timeline.get(dayKey(task.CreatedDate))
		point.Total++
		if assigned {
			point.Assigned++
		} else {
			point.Unassigned++
		}

		if task.AssignedDate != nil {
			wait := waitTime.get(dayKey(*task.AssignedDate))
			wait.AssignedCount++
			wait.TotalWaitDays += daysBetween(task.CreatedDate, *task.AssignedDate)
		}

		if task.DueDate != nil {
			due := dueByDate.get(dayKey(*task.DueDate))
			due.Priorities.Add(task.Priority)
			due.Total++
		}

		name := byName.get(labelOr(task.TaskName, domain.UnknownTaskLabel))
		name.Priorities.Add(task.Priority)
		name.Total++

		region := labelOr(task.Region, domain.UnknownLabel)
		loc := byLocation.get(locationKey{region: region, location: labelOr(task.Location, domain.UnknownLabel)})
		reg := byRegion.get(region)
		loc.Open++
		reg.Open++
		if assigned {
			loc.Assigned++
			reg.Assigned++
		} else {
			loc.Unassigned++
			reg.Unassigned++
		}
		loc.Priorities.Add(task.Priority)
		reg.Priorities.Add(task.Priority)

		if task.Priority.IsCritical() {
			critical = append(critical, task)
		}
	}

	summary.AssignedPct = percent(summary.Assigned, summary.Open)
	summary.UnassignedPct = percent(summary.Unassigned, summary.Open)

	waits := waitTime.sorted(func(a, b domain.WaitTimePoint) int { return compareDates(a.Date, b.Date) })
	for i := range waits {
		waits[i].AverageWaitDays = waits[i].TotalWaitDays / float64(waits[i].AssignedCount)
	}

	return domain.Outstanding{
		Summary: summary,
		Timeline: timeline.sorted(func(a, b domain.AssignmentSeriesPoint) int {
			return compareDates(a.Date, b.Date)
		}),
		WaitTime: waits,
		DueByDate: dueByDate.sorted(func(a, b domain.DueByDatePoint) int {
			return compareDates(a.Date, b.Date)
		}),
		ByName: byName.sorted(func(a, b domain.PriorityBreakdown) int {
			return byLabel(a.Name, b.Name)
		}),
		ByLocation: byLocation.sorted(func(a, b domain.OutstandingByLocationRow) int {
			if c := byLabel(a.Location, b.Location); c != 0 {
				return c
			}
			return byLabel(a.Region, b.Region)
		}),
		ByRegion: byRegion.sorted(func(a, b domain.OutstandingByRegionRow) int {
			return byLabel(a.Region, b.Region)
		}),
		CriticalTasks: SortCriticalTasks(critical, domain.CriticalTasksScope.Default),
	}
}
