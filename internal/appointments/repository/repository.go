package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"orcamento_backend/internal/appointments/domain"
	"orcamento_backend/platform/apperr"
)

const (
	persistenceFailureMessage = "persistence failure"
	foreignKeyViolationCode   = "23503"
)

// Repo implements the appointments repository on PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new appointments repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

func persistence(op string, err error) error {
	return apperr.Wrap(apperr.KindInternal, persistenceFailureMessage, fmt.Errorf("%s: %w", op, err))
}

func (r *Repo) Create(ctx context.Context, appt *Appointment) error {
	query := `
		INSERT INTO appointments (id, service_id, user_id, scheduled_at, price_cents, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		appt.ID, appt.ServiceID, appt.UserID, appt.ScheduledAt, appt.PriceCents,
		appt.Status, appt.Notes,
	).Scan(&appt.CreatedAt, &appt.UpdatedAt)
	if err != nil {
		// The service row can vanish between catalog resolution and the
		// insert; surface the foreign key violation as the domain error.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode {
			return domain.ErrUnknownService
		}
		return persistence("create appointment", err)
	}
	return nil
}

const appointmentColumns = `
	a.id, a.service_id, s.name, a.user_id, a.scheduled_at, a.price_cents,
	a.status, a.notes, a.created_at, a.updated_at`

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments a
		JOIN services s ON s.id = a.service_id
		WHERE a.id = $1`, id)
	return scanAppointment(row)
}

func (r *Repo) List(ctx context.Context, params ListParams) ([]Appointment, error) {
	where := "TRUE"
	args := []interface{}{}
	argIdx := 1
	if params.Status != "" {
		where += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, params.Status)
		argIdx++
	}
	if params.Search != "" {
		where += fmt.Sprintf(" AND (s.name ILIKE $%d OR a.notes ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+params.Search+"%")
		argIdx++
	}

	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT `+appointmentColumns+`
		FROM appointments a
		JOIN services s ON s.id = a.service_id
		WHERE %s
		ORDER BY a.scheduled_at`, where), args...)
	if err != nil {
		return nil, persistence("list appointments", err)
	}
	defer rows.Close()

	appointments := make([]Appointment, 0)
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("list appointments", err)
	}
	return appointments, nil
}

func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		WITH updated AS (
			UPDATE appointments SET status = $2, updated_at = now()
			WHERE id = $1
			RETURNING *
		)
		SELECT `+appointmentColumns+`
		FROM updated a
		JOIN services s ON s.id = a.service_id`, id, status)
	return scanAppointment(row)
}

func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return persistence("delete appointment", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrAppointmentNotFound
	}
	return nil
}

func scanAppointment(row pgx.Row) (Appointment, error) {
	var appt Appointment
	var rawStatus string
	err := row.Scan(
		&appt.ID, &appt.ServiceID, &appt.ServiceName, &appt.UserID, &appt.ScheduledAt,
		&appt.PriceCents, &rawStatus, &appt.Notes, &appt.CreatedAt, &appt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Appointment{}, domain.ErrAppointmentNotFound
		}
		return Appointment{}, persistence("scan appointment", err)
	}

	status, ok := domain.ParseStatus(rawStatus)
	if !ok {
		return Appointment{}, persistence("scan appointment", fmt.Errorf("unknown status %q on appointment %s", rawStatus, appt.ID))
	}
	appt.Status = status
	return appt, nil
}
