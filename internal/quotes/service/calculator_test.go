package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"orcamento_backend/internal/quotes/domain"
	"orcamento_backend/internal/quotes/repository"
	"orcamento_backend/internal/quotes/transport"
)

func TestMergeItemRequests(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	merged, err := MergeItemRequests([]transport.QuoteItemRequest{
		{ServiceID: a, Quantity: 2},
		{ServiceID: b, Quantity: 1},
		{ServiceID: a, Quantity: 3},
	})
	if err != nil {
		t.Fatalf("MergeItemRequests failed: %v", err)
	}
	if len(merged) != 2 {
		t.Fatalf("expected 2 merged items, got %d", len(merged))
	}
	// First-seen order is preserved.
	if merged[0].ServiceID != a || merged[0].Quantity != 5 {
		t.Errorf("merged[0] = %+v, want service %s quantity 5", merged[0], a)
	}
	if merged[1].ServiceID != b || merged[1].Quantity != 1 {
		t.Errorf("merged[1] = %+v, want service %s quantity 1", merged[1], b)
	}
}

func TestMergeItemRequestsRejectsBadQuantity(t *testing.T) {
	for _, quantity := range []int{0, -1} {
		_, err := MergeItemRequests([]transport.QuoteItemRequest{
			{ServiceID: uuid.New(), Quantity: quantity},
		})
		if !errors.Is(err, domain.ErrInvalidQuantity) {
			t.Errorf("quantity %d: got %v, want ErrInvalidQuantity", quantity, err)
		}
	}
}

func TestMergeItemRequestsEmpty(t *testing.T) {
	merged, err := MergeItemRequests(nil)
	if err != nil {
		t.Fatalf("MergeItemRequests(nil) failed: %v", err)
	}
	if len(merged) != 0 {
		t.Errorf("expected empty result, got %d items", len(merged))
	}
}

func TestTotalCentsOrderIndependent(t *testing.T) {
	items := []repository.LineItem{
		{Quantity: 3, UnitPriceCents: 3333},
		{Quantity: 1, UnitPriceCents: 19990},
		{Quantity: 7, UnitPriceCents: 50},
	}
	want := int64(3*3333 + 19990 + 7*50)

	if got := TotalCents(items); got != want {
		t.Fatalf("TotalCents = %d, want %d", got, want)
	}

	reversed := []repository.LineItem{items[2], items[1], items[0]}
	if got := TotalCents(reversed); got != want {
		t.Errorf("TotalCents(reversed) = %d, want %d", got, want)
	}

	if got := TotalCents(nil); got != 0 {
		t.Errorf("TotalCents(nil) = %d, want 0", got)
	}
}
