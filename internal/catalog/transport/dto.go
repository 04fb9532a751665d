package transport

import (
	"time"

	"github.com/google/uuid"
)

// ── Service requests ──────────────────────────────────────────────────────────

type CreateServiceRequest struct {
	Name           string `json:"name" validate:"required,min=2,max=120"`
	Description    string `json:"description" validate:"max=500"`
	UnitPriceCents int64  `json:"unitPriceCents" validate:"required"`
	Active         *bool  `json:"active"`
}

type UpdateServiceRequest struct {
	Name           string `json:"name" validate:"required,min=2,max=120"`
	Description    string `json:"description" validate:"max=500"`
	UnitPriceCents int64  `json:"unitPriceCents" validate:"required"`
	Active         bool   `json:"active"`
}

type ListServicesRequest struct {
	Search     string `form:"search"`
	ActiveOnly bool   `form:"activeOnly"`
}

// ── Client requests ───────────────────────────────────────────────────────────

type CreateClientRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"max=30"`
	Document string `json:"document" validate:"max=20"`
}

type UpdateClientRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"max=30"`
	Document string `json:"document" validate:"max=20"`
}

type ListClientsRequest struct {
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

// ── Address requests ──────────────────────────────────────────────────────────

type AddressRequest struct {
	Street     string `json:"street" validate:"required,max=200"`
	Number     string `json:"number" validate:"max=20"`
	Complement string `json:"complement" validate:"max=100"`
	District   string `json:"district" validate:"max=100"`
	City       string `json:"city" validate:"required,max=100"`
	State      string `json:"state" validate:"required,len=2"`
	PostalCode string `json:"postalCode" validate:"max=12"`
	IsDefault  bool   `json:"isDefault"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

type ServiceResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type ClientResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Document  string    `json:"document"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ClientListResponse struct {
	Clients  []ClientResponse `json:"clients"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
}

type AddressResponse struct {
	ID         uuid.UUID `json:"id"`
	ClientID   uuid.UUID `json:"clientId"`
	Street     string    `json:"street"`
	Number     string    `json:"number"`
	Complement string    `json:"complement"`
	District   string    `json:"district"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PostalCode string    `json:"postalCode"`
	IsDefault  bool      `json:"isDefault"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ── Company requests and responses ────────────────────────────────────────────

type CompanyRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=120"`
	CNPJ    string `json:"cnpj" validate:"required"`
	Phone   string `json:"phone" validate:"max=30"`
	Email   string `json:"email" validate:"required,email"`
	Address string `json:"address" validate:"max=200"`
	LogoURL string `json:"logoUrl" validate:"omitempty,url,max=500"`
}

type CompanyResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CNPJ      string    `json:"cnpj"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	LogoURL   string    `json:"logoUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CompanyListResponse struct {
	Companies []CompanyResponse `json:"companies"`
	Total     int               `json:"total"`
}
