package service

import (
	"context"

	"github.com/google/uuid"
)

// ServiceInfo is the read-only view of a catalog service the quote workflow
// needs: the display name and the current unit price, captured at the moment
// a line item is added.
type ServiceInfo struct {
	ID             uuid.UUID
	Name           string
	UnitPriceCents int64
}

// ClientInfo carries the client details printed on quote documents.
type ClientInfo struct {
	ID    uuid.UUID
	Name  string
	Email string
	Phone string
}

// CompanyInfo is the issuing-company identity stamped on quote documents.
type CompanyInfo struct {
	Name    string
	CNPJ    string
	Address string
	Phone   string
	Email   string
	LogoURL string
}

// CatalogGateway is the read-only port into the catalog. The catalog module
// provides the production implementation; tests substitute their own.
type CatalogGateway interface {
	// ResolveService returns the service and whether it exists.
	ResolveService(ctx context.Context, id uuid.UUID) (ServiceInfo, bool, error)
	// ResolveClient reports whether the client exists.
	ResolveClient(ctx context.Context, id uuid.UUID) (bool, error)
	// ClientContact returns the client contact details for documents.
	ClientContact(ctx context.Context, id uuid.UUID) (ClientInfo, bool, error)
	// CompanyProfile returns the registered issuing company, if any.
	CompanyProfile(ctx context.Context) (CompanyInfo, bool, error)
}
