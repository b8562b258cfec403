package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lorrc/task-analytics/internal/core/domain"
	"github.com/lorrc/task-analytics/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

type FilterOptionsRepository struct {
	pool *pgxpool.Pool
}

var _ ports.FilterOptionsRepository = (*FilterOptionsRepository)(nil)

func NewFilterOptionsRepository(pool *pgxpool.Pool) ports.FilterOptionsRepository {
	return &FilterOptionsRepository{pool: pool}
}

// filterColumns is a fixed allow-list; column names are interpolated.
var filterColumns = []string{
	"service", "role_category", "region", "location", "task_name", "work_type", "assignee",
}

func (r *FilterOptionsRepository) GetFilterOptions(ctx context.Context) (domain.FilterOptions, error) {
	values := make([][]string, len(filterColumns))

	g, gctx := errgroup.WithContext(ctx)
	for i, column := range filterColumns {
		g.Go(func() error {
			distinct, err := r.distinct(gctx, column)
			if err != nil {
				return err
			}
			values[i] = distinct
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.FilterOptions{}, err
	}

	return domain.FilterOptions{
		Services:       values[0],
		RoleCategories: values[1],
		Regions:        values[2],
		Locations:      values[3],
		TaskNames:      values[4],
		WorkTypes:      values[5],
		Users:          values[6],
	}, nil
}

func (r *FilterOptionsRepository) distinct(ctx context.Context, column string) ([]string, error) {
	query := fmt.Sprintf(`
SELECT DISTINCT %[1]s
FROM tasks
WHERE %[1]s IS NOT NULL AND %[1]s <> ''
ORDER BY %[1]s
`, column)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s options: %w", column, err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("scan %s option: %w", column, err)
		}
		out = append(out, value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s options: %w", column, err)
	}
	return out, nil
}
