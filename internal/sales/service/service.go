// Package service implements the quote-to-sale conversion and sale read side.
package service

import (
	"context"

	"github.com/google/uuid"

	"orcamento_backend/internal/events"
	"orcamento_backend/internal/sales/repository"
	"orcamento_backend/internal/sales/transport"
	"orcamento_backend/platform/logger"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Service orchestrates sale conversion and lookups.
type Service struct {
	repo repository.Repository
	bus  events.Bus
	log  *logger.Logger
}

func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// SetEventBus wires the event bus for publishing domain events.
func (s *Service) SetEventBus(bus events.Bus) {
	s.bus = bus
}

// Convert turns an approved quote into an immutable sale. The repository
// holds the quote row lock for the whole conversion, so retries and
// concurrent calls surface AlreadyConverted or QuoteNotApproved instead of
// duplicating the sale.
func (s *Service) Convert(ctx context.Context, quoteID, userID uuid.UUID) (transport.SaleResponse, error) {
	sale, items, err := s.repo.Convert(ctx, quoteID, userID)
	if err != nil {
		return transport.SaleResponse{}, err
	}

	s.log.Info("quote converted to sale",
		"quote_id", quoteID, "sale_id", sale.ID, "sale_code", sale.Code, "total_cents", sale.TotalCents)

	s.publish(ctx, events.QuoteConverted{
		BaseEvent:  events.NewBaseEvent(),
		QuoteID:    quoteID,
		SaleID:     sale.ID,
		SaleCode:   sale.Code,
		ClientID:   sale.ClientID,
		UserID:     userID,
		TotalCents: sale.TotalCents,
	})

	return toSaleResponse(sale, items), nil
}

// GetByID returns a sale with its frozen snapshot.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.SaleResponse, error) {
	sale, items, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.SaleResponse{}, err
	}
	return toSaleResponse(sale, items), nil
}

// List returns a filtered, paginated sale listing.
func (s *Service) List(ctx context.Context, req transport.ListSalesRequest) (transport.SaleListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	params := repository.ListParams{
		ClientID: req.ClientID,
		QuoteID:  req.QuoteID,
		From:     req.From,
		To:       req.To,
		Offset:   (page - 1) * pageSize,
		Limit:    pageSize,
	}

	sales, itemsBySale, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.SaleListResponse{}, err
	}

	responses := make([]transport.SaleResponse, 0, len(sales))
	for _, sale := range sales {
		responses = append(responses, toSaleResponse(sale, itemsBySale[sale.ID]))
	}

	return transport.SaleListResponse{
		Sales:    responses,
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

func toSaleResponse(sale repository.Sale, items []repository.SaleItem) transport.SaleResponse {
	itemResponses := make([]transport.SaleItemResponse, 0, len(items))
	for _, item := range items {
		itemResponses = append(itemResponses, transport.SaleItemResponse{
			ServiceID:      item.ServiceID,
			ServiceName:    item.ServiceName,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			SubtotalCents:  item.SubtotalCents,
		})
	}
	return transport.SaleResponse{
		ID:         sale.ID,
		Code:       sale.Code,
		QuoteID:    sale.QuoteID,
		ClientID:   sale.ClientID,
		UserID:     sale.UserID,
		TotalCents: sale.TotalCents,
		Items:      itemResponses,
		CreatedAt:  sale.CreatedAt,
	}
}
