// Package service turns domain events into audit trail entries and serves
// the read side. Recording failures are logged and swallowed so the audit
// sink never breaks the workflow that emitted the event.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"orcamento_backend/internal/audit/repository"
	"orcamento_backend/internal/events"
	"orcamento_backend/platform/logger"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Service records and lists audit entries.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Subscribe attaches the audit handlers to every observed event type.
func (s *Service) Subscribe(bus events.Bus) {
	for _, name := range []string{
		events.QuoteFinalized{}.EventName(),
		events.QuoteDecided{}.EventName(),
		events.QuoteConverted{}.EventName(),
		events.CatalogMutated{}.EventName(),
		events.AppointmentChanged{}.EventName(),
	} {
		bus.Subscribe(name, events.HandlerFunc(s.record))
	}
}

func (s *Service) record(ctx context.Context, event events.Event) error {
	entry := repository.Entry{
		ID:         uuid.New(),
		EventName:  event.EventName(),
		OccurredAt: event.OccurredAt(),
	}

	switch e := event.(type) {
	case events.QuoteFinalized:
		entry.UserID = e.UserID
		entry.EntityID = e.QuoteID
		entry.Detail = fmt.Sprintf("quote submitted with %d items, total %d cents", e.ItemCount, e.TotalCents)
	case events.QuoteDecided:
		entry.UserID = e.UserID
		entry.EntityID = e.QuoteID
		entry.Detail = fmt.Sprintf("quote %s", e.Status)
	case events.QuoteConverted:
		entry.UserID = e.UserID
		entry.EntityID = e.QuoteID
		entry.Detail = fmt.Sprintf("converted to sale %s, total %d cents", e.SaleCode, e.TotalCents)
	case events.CatalogMutated:
		entry.UserID = e.UserID
		entry.EntityID = e.EntityID
		entry.Detail = fmt.Sprintf("%s %s %q", e.Entity, e.Action, e.Label)
	case events.AppointmentChanged:
		entry.UserID = e.UserID
		entry.EntityID = e.AppointmentID
		entry.Detail = fmt.Sprintf("appointment %s: %s", e.Action, e.Detail)
	default:
		entry.Detail = "unmapped event"
	}

	if err := s.repo.Append(ctx, &entry); err != nil {
		s.log.Error("audit append failed", "event", event.EventName(), "error", err)
		return err
	}
	return nil
}

// ListParams filters the audit listing.
type ListParams struct {
	EventName string
	UserID    *uuid.UUID
	EntityID  *uuid.UUID
	Page      int
	PageSize  int
}

// EntryResponse is one audit row on the wire.
type EntryResponse struct {
	ID         uuid.UUID `json:"id"`
	EventName  string    `json:"eventName"`
	UserID     uuid.UUID `json:"userId"`
	EntityID   uuid.UUID `json:"entityId"`
	Detail     string    `json:"detail"`
	OccurredAt string    `json:"occurredAt"`
}

// ListResponse is the paginated audit listing.
type ListResponse struct {
	Entries  []EntryResponse `json:"entries"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"pageSize"`
}

// List returns audit entries newest first.
func (s *Service) List(ctx context.Context, params ListParams) (ListResponse, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	entries, total, err := s.repo.List(ctx, repository.ListParams{
		EventName: params.EventName,
		UserID:    params.UserID,
		EntityID:  params.EntityID,
		Offset:    (page - 1) * pageSize,
		Limit:     pageSize,
	})
	if err != nil {
		return ListResponse{}, err
	}

	responses := make([]EntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, EntryResponse{
			ID:         entry.ID,
			EventName:  entry.EventName,
			UserID:     entry.UserID,
			EntityID:   entry.EntityID,
			Detail:     entry.Detail,
			OccurredAt: entry.OccurredAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return ListResponse{Entries: responses, Total: total, Page: page, PageSize: pageSize}, nil
}
