package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"orcamento_backend/internal/events"
	quotesdomain "orcamento_backend/internal/quotes/domain"
	"orcamento_backend/internal/sales/domain"
	"orcamento_backend/internal/sales/repository"
	"orcamento_backend/platform/logger"
)

// memRepo mirrors the transactional guards of the SQL repository: a quote can
// convert once, and only from Approved.
type memRepo struct {
	quoteStatus map[uuid.UUID]quotesdomain.Status
	quoteClient map[uuid.UUID]uuid.UUID
	quoteTotal  map[uuid.UUID]int64
	quoteItems  map[uuid.UUID][]repository.SaleItem

	sales       map[uuid.UUID]repository.Sale
	saleItems   map[uuid.UUID][]repository.SaleItem
	saleByQuote map[uuid.UUID]uuid.UUID
	seq         int64
}

func newMemRepo() *memRepo {
	return &memRepo{
		quoteStatus: make(map[uuid.UUID]quotesdomain.Status),
		quoteClient: make(map[uuid.UUID]uuid.UUID),
		quoteTotal:  make(map[uuid.UUID]int64),
		quoteItems:  make(map[uuid.UUID][]repository.SaleItem),
		sales:       make(map[uuid.UUID]repository.Sale),
		saleItems:   make(map[uuid.UUID][]repository.SaleItem),
		saleByQuote: make(map[uuid.UUID]uuid.UUID),
	}
}

func (m *memRepo) Convert(_ context.Context, quoteID, userID uuid.UUID) (repository.Sale, []repository.SaleItem, error) {
	status, ok := m.quoteStatus[quoteID]
	if !ok {
		return repository.Sale{}, nil, quotesdomain.ErrQuoteNotFound
	}
	if _, converted := m.saleByQuote[quoteID]; converted {
		return repository.Sale{}, nil, domain.ErrAlreadyConverted
	}
	if _, err := status.Settle(); err != nil {
		return repository.Sale{}, nil, err
	}

	m.seq++
	sale := repository.Sale{
		ID:         uuid.New(),
		Code:       fmt.Sprintf("SO-%d-%04d", time.Now().Year(), m.seq),
		QuoteID:    quoteID,
		ClientID:   m.quoteClient[quoteID],
		UserID:     userID,
		TotalCents: m.quoteTotal[quoteID],
		CreatedAt:  time.Now(),
	}

	items := make([]repository.SaleItem, len(m.quoteItems[quoteID]))
	copy(items, m.quoteItems[quoteID])
	for i := range items {
		items[i].SaleID = sale.ID
	}

	m.sales[sale.ID] = sale
	m.saleItems[sale.ID] = items
	m.saleByQuote[quoteID] = sale.ID
	m.quoteStatus[quoteID] = quotesdomain.StatusSettled
	return sale, items, nil
}

func (m *memRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Sale, []repository.SaleItem, error) {
	sale, ok := m.sales[id]
	if !ok {
		return repository.Sale{}, nil, domain.ErrSaleNotFound
	}
	return sale, m.saleItems[id], nil
}

func (m *memRepo) List(_ context.Context, params repository.ListParams) ([]repository.Sale, map[uuid.UUID][]repository.SaleItem, int, error) {
	sales := make([]repository.Sale, 0, len(m.sales))
	for _, sale := range m.sales {
		if params.ClientID != nil && sale.ClientID != *params.ClientID {
			continue
		}
		if params.QuoteID != nil && sale.QuoteID != *params.QuoteID {
			continue
		}
		sales = append(sales, sale)
	}
	return sales, m.saleItems, len(sales), nil
}

var _ repository.Repository = (*memRepo)(nil)

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}
func (b *recordingBus) PublishSync(_ context.Context, event events.Event) error { return nil }
func (b *recordingBus) Subscribe(string, events.Handler)                        {}

func newFixture() (*Service, *memRepo, *recordingBus) {
	repo := newMemRepo()
	bus := &recordingBus{}
	svc := New(repo, logger.New("development"))
	svc.SetEventBus(bus)
	return svc, repo, bus
}

func seedQuote(repo *memRepo, status quotesdomain.Status, totalCents int64) uuid.UUID {
	quoteID := uuid.New()
	repo.quoteStatus[quoteID] = status
	repo.quoteClient[quoteID] = uuid.New()
	repo.quoteTotal[quoteID] = totalCents
	repo.quoteItems[quoteID] = []repository.SaleItem{
		{ServiceID: uuid.New(), ServiceName: "instalacao", Quantity: 2, UnitPriceCents: totalCents / 2, SubtotalCents: totalCents},
	}
	return quoteID
}

func TestConvertApprovedQuote(t *testing.T) {
	svc, repo, bus := newFixture()
	quoteID := seedQuote(repo, quotesdomain.StatusApproved, 30000)
	userID := uuid.New()

	sale, err := svc.Convert(context.Background(), quoteID, userID)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	if sale.QuoteID != quoteID {
		t.Errorf("sale.QuoteID = %s, want %s", sale.QuoteID, quoteID)
	}
	if sale.TotalCents != 30000 {
		t.Errorf("sale total = %d, want 30000", sale.TotalCents)
	}
	if sale.Code == "" {
		t.Error("sale code is empty")
	}
	if len(sale.Items) != 1 {
		t.Fatalf("expected 1 copied item, got %d", len(sale.Items))
	}
	if repo.quoteStatus[quoteID] != quotesdomain.StatusSettled {
		t.Errorf("quote status = %s, want Settled", repo.quoteStatus[quoteID])
	}

	if len(bus.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(bus.published))
	}
	converted, ok := bus.published[0].(events.QuoteConverted)
	if !ok {
		t.Fatalf("event has type %T", bus.published[0])
	}
	if converted.SaleCode != sale.Code || converted.TotalCents != 30000 {
		t.Errorf("event payload = %+v", converted)
	}
}

func TestConvertIsOneWay(t *testing.T) {
	svc, repo, bus := newFixture()
	quoteID := seedQuote(repo, quotesdomain.StatusApproved, 10000)
	userID := uuid.New()

	if _, err := svc.Convert(context.Background(), quoteID, userID); err != nil {
		t.Fatalf("first Convert failed: %v", err)
	}
	_, err := svc.Convert(context.Background(), quoteID, userID)
	if !errors.Is(err, domain.ErrAlreadyConverted) {
		t.Fatalf("second Convert: got %v, want ErrAlreadyConverted", err)
	}
	if len(bus.published) != 1 {
		t.Errorf("expected a single event, got %d", len(bus.published))
	}
}

func TestConvertRequiresApprovedQuote(t *testing.T) {
	svc, repo, _ := newFixture()
	userID := uuid.New()

	for _, status := range []quotesdomain.Status{
		quotesdomain.StatusDraft,
		quotesdomain.StatusSubmitted,
		quotesdomain.StatusRejected,
		quotesdomain.StatusSettled,
	} {
		quoteID := seedQuote(repo, status, 5000)
		if _, err := svc.Convert(context.Background(), quoteID, userID); !errors.Is(err, quotesdomain.ErrQuoteNotApproved) {
			t.Errorf("status %s: got %v, want ErrQuoteNotApproved", status, err)
		}
	}

	if _, err := svc.Convert(context.Background(), uuid.New(), userID); !errors.Is(err, quotesdomain.ErrQuoteNotFound) {
		t.Errorf("missing quote: got %v, want ErrQuoteNotFound", err)
	}
}

func TestSaleSnapshotSurvivesQuoteLookup(t *testing.T) {
	svc, repo, _ := newFixture()
	quoteID := seedQuote(repo, quotesdomain.StatusApproved, 20000)

	sale, err := svc.Convert(context.Background(), quoteID, uuid.New())
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	// Mutating the quote-side source must not reach the stored sale.
	repo.quoteItems[quoteID][0].Quantity = 99

	fetched, err := svc.GetByID(context.Background(), sale.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched.Items[0].Quantity != 2 {
		t.Errorf("snapshot quantity = %d, want the frozen 2", fetched.Items[0].Quantity)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc, _, _ := newFixture()
	if _, err := svc.GetByID(context.Background(), uuid.New()); !errors.Is(err, domain.ErrSaleNotFound) {
		t.Fatalf("got %v, want ErrSaleNotFound", err)
	}
}
