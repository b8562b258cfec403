package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lorrc/task-analytics/internal/core/ports"
)

type ReferenceRepository struct {
	pool *pgxpool.Pool
}

var _ ports.ReferenceDataRepository = (*ReferenceRepository)(nil)
var _ ports.HealthChecker = (*ReferenceRepository)(nil)

func NewReferenceRepository(pool *pgxpool.Pool) *ReferenceRepository {
	return &ReferenceRepository{pool: pool}
}

func (r *ReferenceRepository) RegionDescriptions(ctx context.Context, codes []string) (map[string]string, error) {
	const query = `
SELECT region_id, description
FROM regions
WHERE region_id = ANY($1)
`
	return r.describe(ctx, query, codes)
}

func (r *ReferenceRepository) LocationDescriptions(ctx context.Context, codes []string) (map[string]string, error) {
	const query = `
SELECT location_id, description
FROM locations
WHERE location_id = ANY($1)
`
	return r.describe(ctx, query, codes)
}

func (r *ReferenceRepository) CaseWorkerNames(ctx context.Context, ids []string) (map[string]string, error) {
	const query = `
SELECT case_worker_id, btrim(first_name || ' ' || last_name)
FROM case_workers
WHERE case_worker_id = ANY($1)
`
	return r.describe(ctx, query, ids)
}

// Ping reports whether the database answers.
func (r *ReferenceRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *ReferenceRepository) describe(ctx context.Context, query string, codes []string) (map[string]string, error) {
	out := make(map[string]string, len(codes))
	if len(codes) == 0 {
		return out, nil
	}

	rows, err := r.pool.Query(ctx, query, codes)
	if err != nil {
		return nil, fmt.Errorf("query reference data: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var code, description string
		if err := rows.Scan(&code, &description); err != nil {
			return nil, fmt.Errorf("scan reference data: %w", err)
		}
		if description = strings.TrimSpace(description); description != "" {
			out[code] = description
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read reference data: %w", err)
	}
	return out, nil
}
