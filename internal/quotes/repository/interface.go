package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"orcamento_backend/internal/quotes/domain"
)

// Quote is the persistence model for a quote aggregate.
type Quote struct {
	ID         uuid.UUID
	ClientID   uuid.UUID
	UserID     uuid.UUID
	AddressID  *uuid.UUID
	Status     domain.Status
	TotalCents int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// LineItem is one (service, quantity, frozen unit price) entry on a quote.
// ServiceName is joined from the catalog for display and never stored here.
type LineItem struct {
	QuoteID        uuid.UUID
	ServiceID      uuid.UUID
	ServiceName    string
	Quantity       int
	UnitPriceCents int64
	SubtotalCents  int64
}

// NewItem describes a line item to insert on the bulk-creation path.
type NewItem struct {
	ServiceID      uuid.UUID
	Quantity       int
	UnitPriceCents int64
}

// ListParams filters and paginates the quote listing.
type ListParams struct {
	ClientID *uuid.UUID
	Status   *domain.Status
	Offset   int
	Limit    int
}

// Repository is the persistence boundary of the quote workflow. Mutating
// methods serialize on the quote row (SELECT ... FOR UPDATE) and re-check the
// state guard inside the same transaction, so a concurrent finalize or
// conversion always forces the losing writer into a domain error instead of
// silent corruption.
type Repository interface {
	// CreateDraft persists an empty quote in Draft state.
	CreateDraft(ctx context.Context, quote *Quote) error
	// CreateWithItems persists a quote and its pre-merged line items atomically.
	CreateWithItems(ctx context.Context, quote *Quote, items []NewItem) ([]LineItem, error)

	// GetByID loads a quote and its line items.
	GetByID(ctx context.Context, id uuid.UUID) (Quote, []LineItem, error)
	// List returns quotes (newest first) with their items and the total count.
	List(ctx context.Context, params ListParams) ([]Quote, map[uuid.UUID][]LineItem, int, error)

	// AddOrMergeItem adds a line item or, when the service is already on the
	// quote, increments its quantity. The unit price is only used on insert.
	AddOrMergeItem(ctx context.Context, quoteID, serviceID uuid.UUID, quantity int, unitPriceCents int64) (Quote, []LineItem, error)
	// SetItemQuantity overwrites the quantity of an existing line item.
	SetItemQuantity(ctx context.Context, quoteID, serviceID uuid.UUID, quantity int) (Quote, []LineItem, error)
	// RemoveItem deletes a line item. Removing the last item is legal.
	RemoveItem(ctx context.Context, quoteID, serviceID uuid.UUID) (Quote, []LineItem, error)

	// Finalize moves Draft -> Submitted, requiring at least one line item.
	Finalize(ctx context.Context, quoteID uuid.UUID) (Quote, []LineItem, error)
	// SetDecision moves Submitted -> Approved|Rejected.
	SetDecision(ctx context.Context, quoteID uuid.UUID, target domain.Status) (Quote, []LineItem, error)
}
