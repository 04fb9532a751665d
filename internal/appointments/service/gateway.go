package service

import (
	"context"

	"github.com/google/uuid"
)

// ServiceSnapshot is the catalog view captured at booking time: the display
// name and the price frozen onto the appointment.
type ServiceSnapshot struct {
	ID         uuid.UUID
	Name       string
	PriceCents int64
}

// CatalogGateway is the read-only port into the catalog. The catalog module
// provides the production implementation; tests substitute their own.
type CatalogGateway interface {
	// ResolveService returns the service snapshot and whether it exists.
	ResolveService(ctx context.Context, id uuid.UUID) (ServiceSnapshot, bool, error)
}
