package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lorrc/task-analytics/internal/core/domain"
)

const taskColumns = `t.task_id, t.case_id, t.case_type, t.service, t.role_category,
t.region, t.location, t.task_name, t.work_type, t.priority, t.state,
t.created_date, t.assigned_date, t.due_date, t.completed_date, t.assignee,
t.handling_time_days, t.processing_time_days, t.within_sla`

const (
	outstandingCondition = `lower(t.state) IN ('open', 'assigned')`
	assignedCondition    = `lower(t.state) = 'assigned'`
	completedCondition   = `lower(t.state) = 'completed'`
	criticalCondition    = `lower(t.priority) IN ('urgent', 'high')`
)

// taskQuery accumulates WHERE conditions and their positional arguments.
type taskQuery struct {
	where []string
	args  []any
}

func (q *taskQuery) arg(v any) string {
	q.args = append(q.args, v)
	return "$" + strconv.Itoa(len(q.args))
}

func (q *taskQuery) and(condition string) {
	q.where = append(q.where, condition)
}

func (q *taskQuery) anyOf(column string, values []string) {
	if len(values) == 0 {
		return
	}
	q.and(column + " = ANY(" + q.arg(values) + ")")
}

// filters applies the dimension filters. Date windows are applied by the
// callers that need them.
func (q *taskQuery) filters(f domain.AnalyticsFilters) {
	q.anyOf("t.service", f.Service)
	q.anyOf("t.role_category", f.RoleCategory)
	q.anyOf("t.region", f.Region)
	q.anyOf("t.location", f.Location)
	q.anyOf("t.task_name", f.TaskName)
	q.anyOf("t.assignee", f.User)
	q.anyOf("t.work_type", f.WorkType)
}

// within returns the condition placing column inside an inclusive day
// window, or "" when both bounds are open.
func (q *taskQuery) within(column string, r domain.DateRange) string {
	var parts []string
	if r.From != nil {
		parts = append(parts, column+" >= "+q.arg(domain.DayKey(*r.From)))
	}
	if r.To != nil {
		parts = append(parts, column+" < "+q.arg(domain.DayKey(*r.To).AddDate(0, 0, 1)))
	}
	return strings.Join(parts, " AND ")
}

func (q *taskQuery) completedWithin(r domain.DateRange) {
	if cond := q.within("t.completed_date", r); cond != "" {
		q.and(cond)
	}
}

func (q *taskQuery) clause() string {
	if len(q.where) == 0 {
		return ""
	}
	return "\nWHERE " + strings.Join(q.where, "\n  AND ")
}

// sortExpressions maps sort keys onto SQL expressions. Empty text becomes
// NULL so missing values land last in either direction.
var sortExpressions = map[string]string{
	domain.SortKeyCaseID:        `t.case_id`,
	domain.SortKeyCaseType:      `NULLIF(lower(t.case_type), '')`,
	domain.SortKeyLocation:      `NULLIF(lower(COALESCE(l.description, t.location)), '')`,
	domain.SortKeyTaskName:      `NULLIF(lower(t.task_name), '')`,
	domain.SortKeyCreatedDate:   `t.created_date`,
	domain.SortKeyAssignedDate:  `t.assigned_date`,
	domain.SortKeyDueDate:       `t.due_date`,
	domain.SortKeyCompletedDate: `t.completed_date`,
	domain.SortKeyPriority: `CASE lower(t.priority)
  WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 WHEN 'low' THEN 3
  ELSE 4 END`,
	domain.SortKeyAgentName:    `NULLIF(lower(COALESCE(NULLIF(btrim(cw.first_name || ' ' || cw.last_name), ''), t.assignee)), '')`,
	domain.SortKeyHandlingTime: `t.handling_time_days`,
	domain.SortKeyWithinDue:    `COALESCE(t.within_sla, t.completed_date::date <= t.due_date)`,
}

// orderBy renders an ORDER BY clause for a sort state, falling back to
// fallback when the key is unknown.
func orderBy(state domain.SortState, fallback domain.SortState) string {
	expr, ok := sortExpressions[state.By]
	if !ok {
		state = fallback
		expr = sortExpressions[state.By]
	}
	dir := "ASC"
	if state.Dir == domain.SortDesc {
		dir = "DESC"
	}
	return fmt.Sprintf("\nORDER BY %s %s NULLS LAST, t.case_id ASC, t.task_id ASC", expr, dir)
}
