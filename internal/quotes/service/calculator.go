package service

import (
	"github.com/google/uuid"

	"orcamento_backend/internal/quotes/domain"
	"orcamento_backend/internal/quotes/repository"
	"orcamento_backend/internal/quotes/transport"
)

// MergeItemRequests collapses duplicate services in a bulk-creation payload
// by summing quantities, preserving first-seen order. Quantities are
// validated before any persistence happens.
func MergeItemRequests(items []transport.QuoteItemRequest) ([]transport.QuoteItemRequest, error) {
	index := make(map[uuid.UUID]int, len(items))
	merged := make([]transport.QuoteItemRequest, 0, len(items))

	for _, item := range items {
		if item.Quantity < 1 {
			return nil, domain.ErrInvalidQuantity
		}
		if pos, seen := index[item.ServiceID]; seen {
			merged[pos].Quantity += item.Quantity
			continue
		}
		index[item.ServiceID] = len(merged)
		merged = append(merged, item)
	}
	return merged, nil
}

// TotalCents sums quantity x frozen unit price over the line items. Money is
// integer cents throughout, so the sum is exact regardless of item order.
func TotalCents(items []repository.LineItem) int64 {
	var total int64
	for _, item := range items {
		total += int64(item.Quantity) * item.UnitPriceCents
	}
	return total
}
