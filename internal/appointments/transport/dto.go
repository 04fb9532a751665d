package transport

import (
	"time"

	"github.com/google/uuid"
)

// ── Requests ──────────────────────────────────────────────────────────────────

// CreateAppointmentRequest books a catalog service for a future moment.
type CreateAppointmentRequest struct {
	ServiceID   uuid.UUID `json:"serviceId" validate:"required"`
	ScheduledAt time.Time `json:"scheduledAt" validate:"required"`
	Notes       string    `json:"notes" validate:"max=500"`
}

// SetStatusRequest moves an appointment to another status.
type SetStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ListAppointmentsRequest filters the appointment listing.
type ListAppointmentsRequest struct {
	Status string `form:"status"`
	Search string `form:"search"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// AppointmentResponse is one appointment on the wire.
type AppointmentResponse struct {
	ID          uuid.UUID `json:"id"`
	ServiceID   uuid.UUID `json:"serviceId"`
	ServiceName string    `json:"serviceName"`
	UserID      uuid.UUID `json:"userId"`
	ScheduledAt time.Time `json:"scheduledAt"`
	PriceCents  int64     `json:"priceCents"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// AppointmentListResponse is the appointment listing, earliest first.
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
