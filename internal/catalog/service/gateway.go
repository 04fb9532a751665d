package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	apptsvc "orcamento_backend/internal/appointments/service"
	"orcamento_backend/internal/catalog/domain"
	quotesvc "orcamento_backend/internal/quotes/service"
)

// Gateway adapts the catalog to the read-only port the quote workflow
// depends on. Inactive services stay resolvable so existing drafts keep
// working; only the listing hides them.
type Gateway struct {
	svc *Service
}

// NewGateway creates the catalog gateway for the quotes module.
func NewGateway(svc *Service) *Gateway {
	return &Gateway{svc: svc}
}

var _ quotesvc.CatalogGateway = (*Gateway)(nil)

func (g *Gateway) ResolveService(ctx context.Context, id uuid.UUID) (quotesvc.ServiceInfo, bool, error) {
	svc, err := g.svc.repo.GetService(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrServiceNotFound) {
			return quotesvc.ServiceInfo{}, false, nil
		}
		return quotesvc.ServiceInfo{}, false, err
	}
	return quotesvc.ServiceInfo{
		ID:             svc.ID,
		Name:           svc.Name,
		UnitPriceCents: svc.UnitPriceCents,
	}, true, nil
}

func (g *Gateway) ResolveClient(ctx context.Context, id uuid.UUID) (bool, error) {
	if _, err := g.svc.repo.GetClient(ctx, id); err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (g *Gateway) ClientContact(ctx context.Context, id uuid.UUID) (quotesvc.ClientInfo, bool, error) {
	client, err := g.svc.repo.GetClient(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return quotesvc.ClientInfo{}, false, nil
		}
		return quotesvc.ClientInfo{}, false, err
	}
	return quotesvc.ClientInfo{
		ID:    client.ID,
		Name:  client.Name,
		Email: client.Email,
		Phone: client.Phone,
	}, true, nil
}

// CompanyProfile exposes the oldest registered company as the issuing
// identity on quote documents.
func (g *Gateway) CompanyProfile(ctx context.Context) (quotesvc.CompanyInfo, bool, error) {
	company, found, err := g.svc.repo.DefaultCompany(ctx)
	if err != nil || !found {
		return quotesvc.CompanyInfo{}, false, err
	}
	return quotesvc.CompanyInfo{
		Name:    company.Name,
		CNPJ:    company.CNPJ,
		Address: company.Address,
		Phone:   company.Phone,
		Email:   company.Email,
		LogoURL: company.LogoURL,
	}, true, nil
}

// AppointmentGateway adapts the catalog to the snapshot port the scheduling
// workflow depends on. It is a separate type because the appointments module
// wants the service price under its own snapshot shape.
type AppointmentGateway struct {
	svc *Service
}

// NewAppointmentGateway creates the catalog gateway for the appointments
// module.
func NewAppointmentGateway(svc *Service) *AppointmentGateway {
	return &AppointmentGateway{svc: svc}
}

var _ apptsvc.CatalogGateway = (*AppointmentGateway)(nil)

func (g *AppointmentGateway) ResolveService(ctx context.Context, id uuid.UUID) (apptsvc.ServiceSnapshot, bool, error) {
	svc, err := g.svc.repo.GetService(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrServiceNotFound) {
			return apptsvc.ServiceSnapshot{}, false, nil
		}
		return apptsvc.ServiceSnapshot{}, false, err
	}
	return apptsvc.ServiceSnapshot{
		ID:         svc.ID,
		Name:       svc.Name,
		PriceCents: svc.UnitPriceCents,
	}, true, nil
}
