package transport

import (
	"time"

	"github.com/google/uuid"
)

// ListSalesRequest filters the sale listing. From and To bound created_at;
// To is exclusive.
type ListSalesRequest struct {
	ClientID *uuid.UUID `form:"clientId"`
	QuoteID  *uuid.UUID `form:"quoteId"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Page     int        `form:"page"`
	PageSize int        `form:"pageSize"`
}

// SaleItemResponse is a frozen line item on a sale.
type SaleItemResponse struct {
	ServiceID      uuid.UUID `json:"serviceId"`
	ServiceName    string    `json:"serviceName"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	SubtotalCents  int64     `json:"subtotalCents"`
}

// SaleResponse is the full sale detail.
type SaleResponse struct {
	ID         uuid.UUID          `json:"id"`
	Code       string             `json:"code"`
	QuoteID    uuid.UUID          `json:"quoteId"`
	ClientID   uuid.UUID          `json:"clientId"`
	UserID     uuid.UUID          `json:"userId"`
	TotalCents int64              `json:"totalCents"`
	Items      []SaleItemResponse `json:"items"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// SaleListResponse is the paginated sale listing.
type SaleListResponse struct {
	Sales    []SaleResponse `json:"sales"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}
