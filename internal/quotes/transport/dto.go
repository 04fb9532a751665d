package transport

import (
	"time"

	"github.com/google/uuid"
)

// ── Requests ──────────────────────────────────────────────────────────────────

// StartDraftRequest opens an empty draft quote for a client.
type StartDraftRequest struct {
	ClientID  uuid.UUID  `json:"clientId" validate:"required"`
	AddressID *uuid.UUID `json:"addressId"`
}

// QuoteItemRequest is the input for a single line item.
type QuoteItemRequest struct {
	ServiceID uuid.UUID `json:"serviceId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required"`
}

// CreateQuoteRequest creates a quote already populated with items.
// Duplicate services in the list are merged by summing quantities before
// anything is persisted; the quote still lands in Draft.
type CreateQuoteRequest struct {
	ClientID  uuid.UUID          `json:"clientId" validate:"required"`
	AddressID *uuid.UUID         `json:"addressId"`
	Items     []QuoteItemRequest `json:"items" validate:"required,min=1,dive"`
}

// AddItemRequest adds (or merges) a service onto a draft quote.
type AddItemRequest struct {
	ServiceID uuid.UUID `json:"serviceId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required"`
}

// SetQuantityRequest overwrites the quantity of a line item.
type SetQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required"`
}

// DecisionRequest records the decision on a submitted quote.
type DecisionRequest struct {
	Status string `json:"status" validate:"required,oneof=Approved Rejected"`
}

// ListQuotesRequest filters the quote listing.
type ListQuotesRequest struct {
	ClientID *uuid.UUID `form:"clientId"`
	Status   string     `form:"status"`
	Page     int        `form:"page"`
	PageSize int        `form:"pageSize"`
}

// EmailQuoteRequest sends the quote PDF to a list of recipients.
type EmailQuoteRequest struct {
	Recipients []string `json:"recipients" validate:"required,min=1,dive,email"`
	Message    string   `json:"message"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// LineItemResponse is one line item on a quote.
type LineItemResponse struct {
	ServiceID      uuid.UUID `json:"serviceId"`
	ServiceName    string    `json:"serviceName"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	SubtotalCents  int64     `json:"subtotalCents"`
}

// QuoteResponse is the full quote detail.
type QuoteResponse struct {
	ID         uuid.UUID          `json:"id"`
	ClientID   uuid.UUID          `json:"clientId"`
	UserID     uuid.UUID          `json:"userId"`
	AddressID  *uuid.UUID         `json:"addressId,omitempty"`
	Status     string             `json:"status"`
	TotalCents int64              `json:"totalCents"`
	Items      []LineItemResponse `json:"items"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

// QuoteListResponse is the paginated quote listing.
type QuoteListResponse struct {
	Quotes   []QuoteResponse `json:"quotes"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"pageSize"`
}
