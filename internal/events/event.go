// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"orcamento_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Quote Domain Events
// =============================================================================

// QuoteFinalized is published when a draft quote is submitted for a decision.
type QuoteFinalized struct {
	BaseEvent
	QuoteID    uuid.UUID `json:"quoteId"`
	ClientID   uuid.UUID `json:"clientId"`
	UserID     uuid.UUID `json:"userId"`
	TotalCents int64     `json:"totalCents"`
	ItemCount  int       `json:"itemCount"`
}

func (e QuoteFinalized) EventName() string { return "quotes.quote.finalized" }

// QuoteDecided is published when a submitted quote is approved or rejected.
type QuoteDecided struct {
	BaseEvent
	QuoteID  uuid.UUID `json:"quoteId"`
	ClientID uuid.UUID `json:"clientId"`
	UserID   uuid.UUID `json:"userId"`
	Status   string    `json:"status"`
}

func (e QuoteDecided) EventName() string { return "quotes.quote.decided" }

// QuoteConverted is published when an approved quote is converted into a sale.
type QuoteConverted struct {
	BaseEvent
	QuoteID    uuid.UUID `json:"quoteId"`
	SaleID     uuid.UUID `json:"saleId"`
	SaleCode   string    `json:"saleCode"`
	ClientID   uuid.UUID `json:"clientId"`
	UserID     uuid.UUID `json:"userId"`
	TotalCents int64     `json:"totalCents"`
}

func (e QuoteConverted) EventName() string { return "sales.quote.converted" }

// =============================================================================
// Catalog Domain Events
// =============================================================================

// CatalogMutated is published when a catalog entity is created, updated or
// deleted. It feeds the audit trail.
type CatalogMutated struct {
	BaseEvent
	Entity   string    `json:"entity"` // "service", "client", "address" or "company"
	EntityID uuid.UUID `json:"entityId"`
	Action   string    `json:"action"` // "created", "updated" or "deleted"
	UserID   uuid.UUID `json:"userId"`
	Label    string    `json:"label"`
}

func (e CatalogMutated) EventName() string { return "catalog.entity.mutated" }

// =============================================================================
// Appointment Domain Events
// =============================================================================

// AppointmentChanged is published when an appointment is booked, has its
// status changed or is removed. It feeds the audit trail.
type AppointmentChanged struct {
	BaseEvent
	AppointmentID uuid.UUID `json:"appointmentId"`
	UserID        uuid.UUID `json:"userId"`
	Action        string    `json:"action"` // "booked", "status changed" or "deleted"
	Detail        string    `json:"detail"`
}

func (e AppointmentChanged) EventName() string { return "appointments.appointment.changed" }
