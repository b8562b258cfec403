package services

import (
	"context"
	"slices"

	"github.com/lorrc/task-analytics/internal/core/domain"
	"github.com/lorrc/task-analytics/internal/core/ports"
)

// CompletedService implements the completed tasks report.
type CompletedService struct {
	taskRepo ports.TaskRepository
}

var _ ports.CompletedService = (*CompletedService)(nil)

// NewCompletedService creates a new completed service.
func NewCompletedService(taskRepo ports.TaskRepository) ports.CompletedService {
	return &CompletedService{taskRepo: taskRepo}
}

// Completed folds the tasks completed within the filters' completed range.
func (s *CompletedService) Completed(ctx context.Context, filters domain.AnalyticsFilters) (domain.Completed, error) {
	tasks, err := s.taskRepo.ListCompletedTasks(ctx, filters)
	if err != nil {
		return domain.Completed{}, err
	}
	return BuildCompleted(tasks), nil
}

// completedBucket accumulates one breakdown row.
type completedBucket struct {
	row      domain.CompletedBreakdownRow
	handling average
}

func (b *completedBucket) add(task domain.Task) {
	b.row.Completed++
	if within, known := task.WithinDue(); known {
		if within {
			b.row.WithinDue++
		} else {
			b.row.BeyondDue++
		}
	}
	b.handling.add(task.HandlingTimeDays)
}

func (b completedBucket) finish() domain.CompletedBreakdownRow {
	row := b.row
	row.WithinDuePct = percent(row.WithinDue, row.Completed)
	row.AverageHandlingDays = b.handling.value()
	return row
}

type processingBucket struct {
	date       string
	completed  int64
	handling   average
	processing average
}

// BuildCompleted folds completed tasks into the report dataset. Tasks with no
// completion date count towards the summary and label breakdowns only.
func BuildCompleted(tasks []domain.Task) domain.Completed {
	summary := summarizeCompleted(tasks)

	byName := newBuckets(func(name string) completedBucket {
		return completedBucket{row: domain.CompletedBreakdownRow{Label: name}}
	})
	byLocation := newBuckets(func(k locationKey) completedBucket {
		return completedBucket{row: domain.CompletedBreakdownRow{Label: k.location, Region: k.region}}
	})
	byRegion := newBuckets(func(region string) completedBucket {
		return completedBucket{row: domain.CompletedBreakdownRow{Label: region, Region: region}}
	})
	processing := newBuckets(func(date string) processingBucket {
		return processingBucket{date: date}
	})

	for _, task := range tasks {
		byName.get(labelOr(task.TaskName, domain.UnknownTaskLabel)).add(task)
		region := labelOr(task.Region, domain.UnknownLabel)
		byLocation.get(locationKey{region: region, location: labelOr(task.Location, domain.UnknownLabel)}).add(task)
		byRegion.get(region).add(task)

		if task.CompletedDate != nil {
			p := processing.get(dayKey(*task.CompletedDate))
			p.completed++
			p.handling.add(task.HandlingTimeDays)
			p.processing.add(task.ProcessingTimeDays)
		}
	}

	points := processing.sorted(func(a, b processingBucket) int { return compareDates(a.date, b.date) })
	processingTime := make([]domain.ProcessingTimePoint, 0, len(points))
	for _, p := range points {
		processingTime = append(processingTime, domain.ProcessingTimePoint{
			Date:                  p.date,
			Completed:             p.completed,
			AverageHandlingDays:   p.handling.value(),
			AverageProcessingDays: p.processing.value(),
		})
	}

	return domain.Completed{
		Summary:        summary,
		Timeline:       completedByDate(tasks),
		ByName:         finishBreakdown(byName, byLabelRow),
		ByLocation:     finishBreakdown(byLocation, byLocationRow),
		ByRegion:       finishBreakdown(byRegion, byLabelRow),
		ProcessingTime: processingTime,
	}
}

func summarizeCompleted(tasks []domain.Task) domain.CompletedSummary {
	var summary domain.CompletedSummary
	for _, task := range tasks {
		summary.Completed++
		within, known := task.WithinDue()
		switch {
		case !known:
			summary.UnknownDue++
		case within:
			summary.WithinDue++
		default:
			summary.BeyondDue++
		}
	}
	summary.WithinDuePct = percent(summary.WithinDue, summary.Completed)
	summary.BeyondDuePct = percent(summary.BeyondDue, summary.Completed)
	return summary
}

func completedByDate(tasks []domain.Task) []domain.CompletedByDatePoint {
	points := newBuckets(func(date string) domain.CompletedByDatePoint {
		return domain.CompletedByDatePoint{Date: date}
	})
	for _, task := range tasks {
		if task.CompletedDate == nil {
			continue
		}
		p := points.get(dayKey(*task.CompletedDate))
		p.Completed++
		if within, known := task.WithinDue(); known {
			if within {
				p.WithinDue++
			} else {
				p.BeyondDue++
			}
		}
	}
	return points.sorted(func(a, b domain.CompletedByDatePoint) int { return compareDates(a.Date, b.Date) })
}

func byLabelRow(a, b domain.CompletedBreakdownRow) int {
	return byLabel(a.Label, b.Label)
}

func byLocationRow(a, b domain.CompletedBreakdownRow) int {
	if c := byLabel(a.Label, b.Label); c != 0 {
		return c
	}
	return byLabel(a.Region, b.Region)
}

func finishBreakdown[K comparable](b *buckets[K, completedBucket], compare func(a, b domain.CompletedBreakdownRow) int) []domain.CompletedBreakdownRow {
	rows := make([]domain.CompletedBreakdownRow, 0, len(b.items))
	for _, bucket := range b.items {
		rows = append(rows, bucket.finish())
	}
	slices.SortFunc(rows, compare)
	return rows
}
