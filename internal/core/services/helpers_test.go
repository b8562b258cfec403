package services_test

import (
	"time"

	"github.com/lorrc/task-analytics/internal/core/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(t time.Time) *time.Time {
	return &t
}

func str(s string) *string {
	return &s
}

func num(f float64) *float64 {
	return &f
}

func flag(b bool) *bool {
	return &b
}

func openTask(caseID string, priority domain.TaskPriority, created time.Time) domain.Task {
	return domain.Task{
		CaseID:      caseID,
		TaskID:      caseID + "-t",
		Service:     "Civil",
		Region:      "1",
		Location:    "100",
		TaskName:    "Review",
		Priority:    priority,
		Status:      domain.StatusOpen,
		CreatedDate: created,
	}
}

func assignedTask(caseID string, priority domain.TaskPriority, created, assigned time.Time) domain.Task {
	task := openTask(caseID, priority, created)
	task.Status = domain.StatusAssigned
	task.AssignedDate = &assigned
	task.AssigneeID = str("cw-" + caseID)
	return task
}

func completedTask(caseID string, due, completed time.Time) domain.Task {
	task := openTask(caseID, domain.PriorityMedium, due.AddDate(0, 0, -5))
	task.Status = domain.StatusCompleted
	task.DueDate = &due
	task.CompletedDate = &completed
	return task
}
