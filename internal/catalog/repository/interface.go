package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service is a priced catalog entry quotes can reference.
type Service struct {
	ID             uuid.UUID
	Name           string
	Description    string
	UnitPriceCents int64
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Client is a customer that owns quotes and sales.
type Client struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Phone     string
	Document  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Address belongs to a client; quotes may pin one.
type Address struct {
	ID         uuid.UUID
	ClientID   uuid.UUID
	Street     string
	Number     string
	Complement string
	District   string
	City       string
	State      string
	PostalCode string
	IsDefault  bool
	CreatedAt  time.Time
}

// Company is an issuing business profile; the oldest one brands quote
// documents and emails.
type Company struct {
	ID        uuid.UUID
	Name      string
	CNPJ      string
	Phone     string
	Email     string
	Address   string
	LogoURL   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ListServicesParams filters the service listing.
type ListServicesParams struct {
	Search     string
	ActiveOnly bool
}

// ListClientsParams filters the paginated client listing.
type ListClientsParams struct {
	Search string
	Offset int
	Limit  int
}

// Repository is the persistence port for the catalog.
type Repository interface {
	CreateService(ctx context.Context, svc *Service) error
	UpdateService(ctx context.Context, svc *Service) error
	// DeleteService fails with ErrServiceInUse when quote or sale items
	// reference the service.
	DeleteService(ctx context.Context, id uuid.UUID) error
	GetService(ctx context.Context, id uuid.UUID) (Service, error)
	ListServices(ctx context.Context, params ListServicesParams) ([]Service, error)

	CreateClient(ctx context.Context, client *Client) error
	UpdateClient(ctx context.Context, client *Client) error
	// DeleteClient fails with ErrClientHasQuotes when the client owns quotes.
	DeleteClient(ctx context.Context, id uuid.UUID) error
	GetClient(ctx context.Context, id uuid.UUID) (Client, error)
	ListClients(ctx context.Context, params ListClientsParams) ([]Client, int, error)

	CreateAddress(ctx context.Context, addr *Address) error
	UpdateAddress(ctx context.Context, addr *Address) error
	DeleteAddress(ctx context.Context, clientID, id uuid.UUID) error
	ListAddresses(ctx context.Context, clientID uuid.UUID) ([]Address, error)

	CreateCompany(ctx context.Context, company *Company) error
	UpdateCompany(ctx context.Context, company *Company) error
	DeleteCompany(ctx context.Context, id uuid.UUID) error
	GetCompany(ctx context.Context, id uuid.UUID) (Company, error)
	ListCompanies(ctx context.Context) ([]Company, error)
	// DefaultCompany returns the oldest registered company, if any.
	DefaultCompany(ctx context.Context) (Company, bool, error)
}
