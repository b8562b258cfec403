package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lorrc/task-analytics/internal/core/domain"
	"github.com/lorrc/task-analytics/internal/core/pagination"
	"github.com/lorrc/task-analytics/internal/core/ports"
	"github.com/lorrc/task-analytics/internal/core/utils"
)

type TaskRepository struct {
	pool *pgxpool.Pool
	tx   *TransactionManager
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository(pool *pgxpool.Pool) ports.TaskRepository {
	return &TaskRepository{pool: pool, tx: NewTransactionManager(pool)}
}

func (r *TaskRepository) ListOutstandingTasks(ctx context.Context, filters domain.AnalyticsFilters) ([]domain.Task, error) {
	q := &taskQuery{}
	q.and(outstandingCondition)
	q.filters(filters)
	return r.list(ctx, r.pool, q, "")
}

func (r *TaskRepository) ListCriticalTasks(ctx context.Context, filters domain.AnalyticsFilters) ([]domain.Task, error) {
	q := &taskQuery{}
	q.and(outstandingCondition)
	q.and(criticalCondition)
	q.filters(filters)
	return r.list(ctx, r.pool, q, orderBy(domain.CriticalTasksScope.Default, domain.CriticalTasksScope.Default))
}

func (r *TaskRepository) ListAssignedTasks(ctx context.Context, filters domain.AnalyticsFilters) ([]domain.Task, error) {
	q := &taskQuery{}
	q.and(assignedCondition)
	q.filters(filters)
	return r.list(ctx, r.pool, q, "")
}

func (r *TaskRepository) ListCompletedTasks(ctx context.Context, filters domain.AnalyticsFilters) ([]domain.Task, error) {
	q := &taskQuery{}
	q.and(completedCondition)
	q.filters(filters)
	q.completedWithin(filters.CompletedRange())
	return r.list(ctx, r.pool, q, "")
}

func (r *TaskRepository) ListTaskEvents(ctx context.Context, filters domain.AnalyticsFilters, window domain.DateRange) ([]domain.Task, error) {
	q := &taskQuery{}
	q.filters(filters)

	created := q.within("t.created_date", window)
	if created != "" {
		assigned := q.within("t.assigned_date", window)
		completed := q.within("t.completed_date", window)
		q.and(fmt.Sprintf("((%s) OR (%s) OR (%s))", created, assigned, completed))
	}
	return r.list(ctx, r.pool, q, "")
}

// ListUserTasks counts and pages within one snapshot. The requested page is
// clamped against the count before the page query runs.
func (r *TaskRepository) ListUserTasks(ctx context.Context, query ports.UserTaskQuery) (domain.TaskPage, error) {
	q := &taskQuery{}
	fallback := domain.AssignedTasksScope.Default
	switch query.Status {
	case domain.StatusCompleted:
		q.and(completedCondition)
		q.completedWithin(query.Filters.CompletedRange())
		fallback = domain.CompletedTasksScope.Default
	case domain.StatusAssigned:
		q.and(assignedCondition)
	default:
		q.and(outstandingCondition)
	}
	q.filters(query.Filters)

	var page domain.TaskPage
	err := r.tx.WithReadOnlyTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		countSQL := "SELECT COUNT(*) FROM tasks t" + q.clause()
		var total int64
		if err := tx.QueryRow(ctx, countSQL, q.args...).Scan(&total); err != nil {
			return fmt.Errorf("count user tasks: %w", err)
		}
		page.TotalCount = int(total)
		page.Page = 1
		if total == 0 {
			return nil
		}

		suffix := orderBy(query.Sort, fallback)
		if query.PageSize > 0 {
			query.Page = pagination.ClampPage(query.Page, page.TotalCount, query.PageSize)
			page.Page = query.Page
			offset := query.Offset()
			limit := min(query.PageSize, pagination.MaxTotalResults-offset)
			suffix += fmt.Sprintf("\nLIMIT %s OFFSET %s", q.arg(limit), q.arg(offset))
		}
		tasks, err := r.list(ctx, tx, q, suffix)
		if err != nil {
			return err
		}
		page.Tasks = tasks
		return nil
	})
	if err != nil {
		return domain.TaskPage{}, err
	}
	return page, nil
}

func (r *TaskRepository) list(ctx context.Context, db DBTX, q *taskQuery, suffix string) ([]domain.Task, error) {
	query := `
SELECT ` + taskColumns + `
FROM tasks t
LEFT JOIN locations l ON l.location_id = t.location
LEFT JOIN case_workers cw ON cw.case_worker_id = t.assignee` + q.clause() + suffix

	rows, err := db.Query(ctx, query, q.args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}
	return tasks, nil
}

func scanTask(row pgx.Row) (domain.Task, error) {
	var (
		task      domain.Task
		priority  string
		state     string
		created   pgtype.Timestamptz
		assigned  pgtype.Timestamptz
		due       pgtype.Date
		completed pgtype.Timestamptz
		assignee  pgtype.Text
		handling  pgtype.Numeric
		process   pgtype.Numeric
		withinSLA pgtype.Bool
	)

	err := row.Scan(
		&task.TaskID, &task.CaseID, &task.CaseType, &task.Service, &task.RoleCategory,
		&task.Region, &task.Location, &task.TaskName, &task.WorkType, &priority, &state,
		&created, &assigned, &due, &completed, &assignee,
		&handling, &process, &withinSLA,
	)
	if err != nil {
		return domain.Task{}, fmt.Errorf("scan task: %w", err)
	}

	task.Priority = domain.ParsePriority(priority)
	task.Status = domain.ParseStatus(state)
	if ts := utils.FromTimestamp(created); ts != nil {
		task.CreatedDate = *ts
	}
	task.AssignedDate = utils.FromTimestamp(assigned)
	task.DueDate = utils.FromDate(due)
	task.CompletedDate = utils.FromTimestamp(completed)
	task.AssigneeID = utils.FromNullString(assignee)
	task.HandlingTimeDays = utils.FromNullNumeric(handling)
	task.ProcessingTimeDays = utils.FromNullNumeric(process)
	task.WithinSLA = utils.FromNullBool(withinSLA)
	return task, nil
}
