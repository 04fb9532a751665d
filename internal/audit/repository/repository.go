// Package repository persists the append-only audit trail.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"orcamento_backend/platform/apperr"
)

// Entry is one audit trail row. Rows are append-only; there is no update or
// delete path.
type Entry struct {
	ID         uuid.UUID
	EventName  string
	UserID     uuid.UUID
	EntityID   uuid.UUID
	Detail     string
	OccurredAt time.Time
	CreatedAt  time.Time
}

// ListParams filters the audit listing.
type ListParams struct {
	EventName string
	UserID    *uuid.UUID
	EntityID  *uuid.UUID
	Offset    int
	Limit     int
}

// Repository is the persistence port for audit entries.
type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	List(ctx context.Context, params ListParams) ([]Entry, int, error)
}

// Repo implements the audit repository on PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new audit repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

func persistence(op string, err error) error {
	return apperr.Wrap(apperr.KindInternal, "persistence failure", fmt.Errorf("%s: %w", op, err))
}

// Append writes one audit row.
func (r *Repo) Append(ctx context.Context, entry *Entry) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO audit_logs (id, event_name, user_id, entity_id, detail, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		entry.ID, entry.EventName, entry.UserID, entry.EntityID, entry.Detail, entry.OccurredAt,
	).Scan(&entry.CreatedAt)
	if err != nil {
		return persistence("append audit entry", err)
	}
	return nil
}

// List returns audit entries newest first.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Entry, int, error) {
	where := "TRUE"
	args := []interface{}{}
	argIdx := 1
	if params.EventName != "" {
		where += fmt.Sprintf(" AND event_name = $%d", argIdx)
		args = append(args, params.EventName)
		argIdx++
	}
	if params.UserID != nil {
		where += fmt.Sprintf(" AND user_id = $%d", argIdx)
		args = append(args, *params.UserID)
		argIdx++
	}
	if params.EntityID != nil {
		where += fmt.Sprintf(" AND entity_id = $%d", argIdx)
		args = append(args, *params.EntityID)
		argIdx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM audit_logs WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, persistence("count audit entries", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT id, event_name, user_id, entity_id, detail, occurred_at, created_at
		FROM audit_logs WHERE %s
		ORDER BY occurred_at DESC
		OFFSET $%d LIMIT $%d`, where, argIdx, argIdx+1)
	args = append(args, params.Offset, params.Limit)

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, persistence("list audit entries", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.ID, &entry.EventName, &entry.UserID, &entry.EntityID,
			&entry.Detail, &entry.OccurredAt, &entry.CreatedAt); err != nil {
			return nil, 0, persistence("scan audit entry", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, persistence("list audit entries", err)
	}
	return entries, total, nil
}
