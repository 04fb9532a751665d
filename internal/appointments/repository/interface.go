package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"orcamento_backend/internal/appointments/domain"
)

// Appointment is a booked visit for a catalog service. PriceCents is the
// service price snapshotted at booking time; later catalog price changes do
// not touch existing appointments.
type Appointment struct {
	ID          uuid.UUID
	ServiceID   uuid.UUID
	ServiceName string
	UserID      uuid.UUID
	ScheduledAt time.Time
	PriceCents  int64
	Status      domain.Status
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ListParams filters the appointment listing.
type ListParams struct {
	Status domain.Status
	// Search matches the service name or the notes, case-insensitively.
	Search string
}

// Repository is the persistence port for appointments.
type Repository interface {
	Create(ctx context.Context, appt *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (Appointment, error)
	// List returns appointments earliest first.
	List(ctx context.Context, params ListParams) ([]Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
