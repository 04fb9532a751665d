package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Sale is the immutable record produced by converting an approved quote.
// Totals and item snapshots are copied by value at conversion time and never
// change afterwards, whatever happens to the catalog.
type Sale struct {
	ID         uuid.UUID
	Code       string
	QuoteID    uuid.UUID
	ClientID   uuid.UUID
	UserID     uuid.UUID
	TotalCents int64
	CreatedAt  time.Time
}

// SaleItem is a frozen copy of a quote line item.
type SaleItem struct {
	SaleID         uuid.UUID
	ServiceID      uuid.UUID
	ServiceName    string
	Quantity       int
	UnitPriceCents int64
	SubtotalCents  int64
}

// ListParams filters the sale listing.
type ListParams struct {
	ClientID *uuid.UUID
	QuoteID  *uuid.UUID
	From     *time.Time
	To       *time.Time
	Offset   int
	Limit    int
}

// Repository is the persistence port for sales.
type Repository interface {
	// Convert turns an approved quote into a sale in a single transaction
	// and settles the quote. The quote row lock serializes concurrent
	// conversion attempts.
	Convert(ctx context.Context, quoteID, userID uuid.UUID) (Sale, []SaleItem, error)
	GetByID(ctx context.Context, id uuid.UUID) (Sale, []SaleItem, error)
	List(ctx context.Context, params ListParams) ([]Sale, map[uuid.UUID][]SaleItem, int, error)
}
