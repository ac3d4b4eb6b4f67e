package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"newslens/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

// ErrDuplicateID is returned by Create when a dashboard with the same id exists.
var ErrDuplicateID = errors.New("dashboard id already exists")

const uniqueViolation = "23505"

type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// DashboardRepository stores comparisons as JSONB documents keyed by dashboard id.
type DashboardRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewDashboardRepository(pool PgxPool, tracer trace.Tracer) *DashboardRepository {
	return &DashboardRepository{pool: pool, tracer: tracer}
}

func (r *DashboardRepository) Create(ctx context.Context, c *domain.Comparison) error {
	_, span := r.tracer.Start(ctx, "dashboard-repo.create")
	defer span.End()

	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode comparison %s: %w", c.ID, err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO dashboards (id, query1, query2, payload, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Query1, c.Query2, payload, c.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicateID, c.ID)
	}
	return err
}

// Get returns the stored comparison, or nil when the id is unknown.
func (r *DashboardRepository) Get(ctx context.Context, id string) (*domain.Comparison, error) {
	_, span := r.tracer.Start(ctx, "dashboard-repo.get")
	defer span.End()

	rows, err := r.pool.Query(ctx, `SELECT payload FROM dashboards WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	var payload []byte
	if err := rows.Scan(&payload); err != nil {
		return nil, err
	}

	var c domain.Comparison
	if err := json.Unmarshal(payload, &c); err != nil {
		return nil, fmt.Errorf("decode comparison %s: %w", id, err)
	}
	return &c, nil
}

// ListRecent returns the newest dashboards first.
func (r *DashboardRepository) ListRecent(ctx context.Context, limit int) ([]domain.DashboardSummary, error) {
	_, span := r.tracer.Start(ctx, "dashboard-repo.list-recent")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT id, query1, query2, created_at
		 FROM dashboards
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.DashboardSummary, 0, limit)
	for rows.Next() {
		var s domain.DashboardSummary
		var ts time.Time
		if err := rows.Scan(&s.ID, &s.Query1, &s.Query2, &ts); err != nil {
			return nil, err
		}
		s.CreatedAt = ts.UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteOlderThan removes dashboards created before cutoff and returns their ids.
func (r *DashboardRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) ([]string, error) {
	_, span := r.tracer.Start(ctx, "dashboard-repo.delete-older-than")
	defer span.End()

	rows, err := r.pool.Query(ctx, `DELETE FROM dashboards WHERE created_at < $1 RETURNING id`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
