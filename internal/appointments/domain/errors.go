package domain

import "orcamento_backend/platform/apperr"

var (
	// ErrAppointmentNotFound is returned when an appointment id resolves to nothing.
	ErrAppointmentNotFound = apperr.NotFound("appointment not found")

	// ErrUnknownService is returned when the booked service does not resolve
	// in the catalog.
	ErrUnknownService = apperr.NotFound("service not found")

	// ErrPastSchedule rejects bookings for a moment already gone by.
	ErrPastSchedule = apperr.Validation("scheduled time must be in the future")

	// ErrInvalidStatus rejects status labels outside the known set.
	ErrInvalidStatus = apperr.Validation("invalid appointment status")
)
