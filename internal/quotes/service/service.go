// Package service implements the quote-drafting workflow: incremental line
// item construction, total caching, the status lifecycle and the read side.
package service

import (
	"context"

	"github.com/google/uuid"

	"orcamento_backend/internal/events"
	"orcamento_backend/internal/quotes/domain"
	"orcamento_backend/internal/quotes/repository"
	"orcamento_backend/internal/quotes/transport"
	"orcamento_backend/platform/apperr"
	"orcamento_backend/platform/logger"
)

// Service provides business logic for quotes.
type Service struct {
	repo    repository.Repository
	catalog CatalogGateway
	bus     events.Bus
	log     *logger.Logger
}

// New creates a new quotes service.
func New(repo repository.Repository, catalog CatalogGateway, log *logger.Logger) *Service {
	return &Service{repo: repo, catalog: catalog, log: log}
}

// SetEventBus injects the domain event bus. Without one, events are dropped.
func (s *Service) SetEventBus(bus events.Bus) {
	s.bus = bus
}

// StartDraft opens an empty draft quote for a client.
func (s *Service) StartDraft(ctx context.Context, userID uuid.UUID, req transport.StartDraftRequest) (transport.QuoteResponse, error) {
	exists, err := s.catalog.ResolveClient(ctx, req.ClientID)
	if err != nil {
		return transport.QuoteResponse{}, err
	}
	if !exists {
		return transport.QuoteResponse{}, domain.ErrUnknownClient
	}

	quote := repository.Quote{
		ID:        uuid.New(),
		ClientID:  req.ClientID,
		UserID:    userID,
		AddressID: req.AddressID,
	}
	if err := s.repo.CreateDraft(ctx, &quote); err != nil {
		return transport.QuoteResponse{}, err
	}

	s.log.Info("draft quote started", "quote_id", quote.ID, "client_id", quote.ClientID)
	return toQuoteResponse(quote, nil), nil
}

// Create persists a quote already populated with items. Duplicate services in
// the payload are merged before first persistence, so they sum instead of
// stacking as separate rows. The quote still lands in Draft.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req transport.CreateQuoteRequest) (transport.QuoteResponse, error) {
	exists, err := s.catalog.ResolveClient(ctx, req.ClientID)
	if err != nil {
		return transport.QuoteResponse{}, err
	}
	if !exists {
		return transport.QuoteResponse{}, domain.ErrUnknownClient
	}

	merged, err := MergeItemRequests(req.Items)
	if err != nil {
		return transport.QuoteResponse{}, err
	}

	newItems := make([]repository.NewItem, 0, len(merged))
	for _, item := range merged {
		info, ok, err := s.catalog.ResolveService(ctx, item.ServiceID)
		if err != nil {
			return transport.QuoteResponse{}, err
		}
		if !ok {
			return transport.QuoteResponse{}, domain.ErrUnknownService
		}
		newItems = append(newItems, repository.NewItem{
			ServiceID:      info.ID,
			Quantity:       item.Quantity,
			UnitPriceCents: info.UnitPriceCents,
		})
	}

	quote := repository.Quote{
		ID:        uuid.New(),
		ClientID:  req.ClientID,
		UserID:    userID,
		AddressID: req.AddressID,
	}
	items, err := s.repo.CreateWithItems(ctx, &quote, newItems)
	if err != nil {
		return transport.QuoteResponse{}, err
	}

	s.log.Info("quote created", "quote_id", quote.ID, "items", len(items), "total_cents", quote.TotalCents)
	return toQuoteResponse(quote, items), nil
}

// AddItem adds a service to a draft quote, merging with an existing line item
// for the same service by summing quantities. The unit price is frozen from
// the catalog at this instant and never re-resolved afterwards.
func (s *Service) AddItem(ctx context.Context, quoteID uuid.UUID, req transport.AddItemRequest) (transport.QuoteResponse, error) {
	if req.Quantity < 1 {
		return transport.QuoteResponse{}, domain.ErrInvalidQuantity
	}

	info, ok, err := s.catalog.ResolveService(ctx, req.ServiceID)
	if err != nil {
		return transport.QuoteResponse{}, err
	}
	if !ok {
		return transport.QuoteResponse{}, domain.ErrUnknownService
	}

	quote, items, err := s.repo.AddOrMergeItem(ctx, quoteID, info.ID, req.Quantity, info.UnitPriceCents)
	if err != nil {
		return transport.QuoteResponse{}, err
	}
	return toQuoteResponse(quote, items), nil
}

// SetQuantity overwrites the quantity of a line item (absolute, not additive).
func (s *Service) SetQuantity(ctx context.Context, quoteID, serviceID uuid.UUID, req transport.SetQuantityRequest) (transport.QuoteResponse, error) {
	if req.Quantity < 1 {
		return transport.QuoteResponse{}, domain.ErrInvalidQuantity
	}

	quote, items, err := s.repo.SetItemQuantity(ctx, quoteID, serviceID, req.Quantity)
	if err != nil {
		return transport.QuoteResponse{}, err
	}
	return toQuoteResponse(quote, items), nil
}

// RemoveItem removes a line item. Removing the last one leaves the quote at
// total zero, which is legal while it stays a draft.
func (s *Service) RemoveItem(ctx context.Context, quoteID, serviceID uuid.UUID) (transport.QuoteResponse, error) {
	quote, items, err := s.repo.RemoveItem(ctx, quoteID, serviceID)
	if err != nil {
		return transport.QuoteResponse{}, err
	}
	return toQuoteResponse(quote, items), nil
}

// Finalize submits a draft for a decision. Empty drafts are rejected.
func (s *Service) Finalize(ctx context.Context, quoteID, userID uuid.UUID) (transport.QuoteResponse, error) {
	quote, items, err := s.repo.Finalize(ctx, quoteID)
	if err != nil {
		return transport.QuoteResponse{}, err
	}

	s.publish(ctx, events.QuoteFinalized{
		BaseEvent:  events.NewBaseEvent(),
		QuoteID:    quote.ID,
		ClientID:   quote.ClientID,
		UserID:     userID,
		TotalCents: quote.TotalCents,
		ItemCount:  len(items),
	})
	s.log.Info("quote finalized", "quote_id", quote.ID, "total_cents", quote.TotalCents)
	return toQuoteResponse(quote, items), nil
}

// SetDecision approves or rejects a submitted quote. Any other target, or any
// other starting state, is an illegal transition.
func (s *Service) SetDecision(ctx context.Context, quoteID, userID uuid.UUID, req transport.DecisionRequest) (transport.QuoteResponse, error) {
	target, ok := domain.ParseStatus(req.Status)
	if !ok || !target.IsDecision() {
		return transport.QuoteResponse{}, domain.ErrIllegalTransition
	}

	quote, items, err := s.repo.SetDecision(ctx, quoteID, target)
	if err != nil {
		return transport.QuoteResponse{}, err
	}

	s.publish(ctx, events.QuoteDecided{
		BaseEvent: events.NewBaseEvent(),
		QuoteID:   quote.ID,
		ClientID:  quote.ClientID,
		UserID:    userID,
		Status:    quote.Status.String(),
	})
	s.log.Info("quote decided", "quote_id", quote.ID, "status", quote.Status)
	return toQuoteResponse(quote, items), nil
}

// GetByID returns the quote detail with its line items.
func (s *Service) GetByID(ctx context.Context, quoteID uuid.UUID) (transport.QuoteResponse, error) {
	quote, items, err := s.repo.GetByID(ctx, quoteID)
	if err != nil {
		return transport.QuoteResponse{}, err
	}
	return toQuoteResponse(quote, items), nil
}

// List returns quotes newest first with optional client/status filters.
func (s *Service) List(ctx context.Context, req transport.ListQuotesRequest) (transport.QuoteListResponse, error) {
	page := req.Page
	pageSize := req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	params := repository.ListParams{
		ClientID: req.ClientID,
		Offset:   (page - 1) * pageSize,
		Limit:    pageSize,
	}
	if req.Status != "" {
		status, ok := domain.ParseStatus(req.Status)
		if !ok {
			return transport.QuoteListResponse{}, apperr.Validation("unknown status filter")
		}
		params.Status = &status
	}

	quotes, itemsByQuote, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.QuoteListResponse{}, err
	}

	responses := make([]transport.QuoteResponse, 0, len(quotes))
	for _, quote := range quotes {
		responses = append(responses, toQuoteResponse(quote, itemsByQuote[quote.ID]))
	}
	return transport.QuoteListResponse{
		Quotes:   responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, event)
}

func toQuoteResponse(quote repository.Quote, items []repository.LineItem) transport.QuoteResponse {
	itemResponses := make([]transport.LineItemResponse, 0, len(items))
	for _, item := range items {
		itemResponses = append(itemResponses, transport.LineItemResponse{
			ServiceID:      item.ServiceID,
			ServiceName:    item.ServiceName,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			SubtotalCents:  item.SubtotalCents,
		})
	}
	return transport.QuoteResponse{
		ID:         quote.ID,
		ClientID:   quote.ClientID,
		UserID:     quote.UserID,
		AddressID:  quote.AddressID,
		Status:     quote.Status.String(),
		TotalCents: quote.TotalCents,
		Items:      itemResponses,
		CreatedAt:  quote.CreatedAt,
		UpdatedAt:  quote.UpdatedAt,
	}
}
