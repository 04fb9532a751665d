package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"orcamento_backend/internal/audit/repository"
	"orcamento_backend/internal/events"
	"orcamento_backend/platform/logger"
)

type memRepo struct {
	entries []repository.Entry
}

func (m *memRepo) Append(_ context.Context, entry *repository.Entry) error {
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memRepo) List(_ context.Context, params repository.ListParams) ([]repository.Entry, int, error) {
	filtered := make([]repository.Entry, 0, len(m.entries))
	for _, entry := range m.entries {
		if params.EventName != "" && entry.EventName != params.EventName {
			continue
		}
		filtered = append(filtered, entry)
	}
	return filtered, len(filtered), nil
}

var _ repository.Repository = (*memRepo)(nil)

func TestRecordMapsEventsToEntries(t *testing.T) {
	repo := &memRepo{}
	svc := New(repo, logger.New("development"))
	bus := events.NewInMemoryBus(logger.New("development"))
	svc.Subscribe(bus)

	quoteID := uuid.New()
	userID := uuid.New()

	if err := bus.PublishSync(context.Background(), events.QuoteFinalized{
		BaseEvent:  events.NewBaseEvent(),
		QuoteID:    quoteID,
		ClientID:   uuid.New(),
		UserID:     userID,
		TotalCents: 12345,
		ItemCount:  3,
	}); err != nil {
		t.Fatalf("PublishSync failed: %v", err)
	}
	if err := bus.PublishSync(context.Background(), events.QuoteConverted{
		BaseEvent:  events.NewBaseEvent(),
		QuoteID:    quoteID,
		SaleID:     uuid.New(),
		SaleCode:   "SO-2026-0001",
		ClientID:   uuid.New(),
		UserID:     userID,
		TotalCents: 12345,
	}); err != nil {
		t.Fatalf("PublishSync failed: %v", err)
	}

	if len(repo.entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(repo.entries))
	}

	first := repo.entries[0]
	if first.EventName != "quotes.quote.finalized" {
		t.Errorf("entry event = %s", first.EventName)
	}
	if first.EntityID != quoteID || first.UserID != userID {
		t.Errorf("entry ids = %+v", first)
	}
	if first.Detail == "" {
		t.Error("entry detail is empty")
	}

	result, err := svc.List(context.Background(), ListParams{EventName: "sales.quote.converted"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("filtered total = %d, want 1", result.Total)
	}
	if result.Entries[0].Detail != "converted to sale SO-2026-0001, total 12345 cents" {
		t.Errorf("detail = %q", result.Entries[0].Detail)
	}
}
