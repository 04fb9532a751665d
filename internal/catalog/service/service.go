// Package service implements the catalog business logic: priced services,
// clients and their addresses.
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"orcamento_backend/internal/catalog/domain"
	"orcamento_backend/internal/catalog/repository"
	"orcamento_backend/internal/catalog/transport"
	"orcamento_backend/internal/events"
	"orcamento_backend/platform/logger"
	"orcamento_backend/platform/phone"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Service orchestrates catalog mutations and lookups.
type Service struct {
	repo repository.Repository
	bus  events.Bus
	log  *logger.Logger
}

func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// SetEventBus wires the event bus for publishing catalog mutations.
func (s *Service) SetEventBus(bus events.Bus) {
	s.bus = bus
}

// ── Services ──────────────────────────────────────────────────────────────────

func (s *Service) CreateService(ctx context.Context, userID uuid.UUID, req transport.CreateServiceRequest) (transport.ServiceResponse, error) {
	if req.UnitPriceCents <= 0 {
		return transport.ServiceResponse{}, domain.ErrInvalidPrice
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	svc := repository.Service{
		ID:             uuid.New(),
		Name:           req.Name,
		Description:    req.Description,
		UnitPriceCents: req.UnitPriceCents,
		Active:         active,
	}
	if err := s.repo.CreateService(ctx, &svc); err != nil {
		return transport.ServiceResponse{}, err
	}

	s.mutated(ctx, "service", svc.ID, "created", userID, svc.Name)
	return toServiceResponse(svc), nil
}

func (s *Service) UpdateService(ctx context.Context, userID, id uuid.UUID, req transport.UpdateServiceRequest) (transport.ServiceResponse, error) {
	if req.UnitPriceCents <= 0 {
		return transport.ServiceResponse{}, domain.ErrInvalidPrice
	}

	svc := repository.Service{
		ID:             id,
		Name:           req.Name,
		Description:    req.Description,
		UnitPriceCents: req.UnitPriceCents,
		Active:         req.Active,
	}
	if err := s.repo.UpdateService(ctx, &svc); err != nil {
		return transport.ServiceResponse{}, err
	}

	s.mutated(ctx, "service", id, "updated", userID, svc.Name)
	return toServiceResponse(svc), nil
}

// DeleteService removes an unreferenced service. Services already on quotes
// or sales stay put; deactivate them instead.
func (s *Service) DeleteService(ctx context.Context, userID, id uuid.UUID) error {
	svc, err := s.repo.GetService(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteService(ctx, id); err != nil {
		return err
	}
	s.mutated(ctx, "service", id, "deleted", userID, svc.Name)
	return nil
}

func (s *Service) GetService(ctx context.Context, id uuid.UUID) (transport.ServiceResponse, error) {
	svc, err := s.repo.GetService(ctx, id)
	if err != nil {
		return transport.ServiceResponse{}, err
	}
	return toServiceResponse(svc), nil
}

func (s *Service) ListServices(ctx context.Context, req transport.ListServicesRequest) ([]transport.ServiceResponse, error) {
	services, err := s.repo.ListServices(ctx, repository.ListServicesParams{
		Search:     req.Search,
		ActiveOnly: req.ActiveOnly,
	})
	if err != nil {
		return nil, err
	}

	responses := make([]transport.ServiceResponse, 0, len(services))
	for _, svc := range services {
		responses = append(responses, toServiceResponse(svc))
	}
	return responses, nil
}

// ── Clients ───────────────────────────────────────────────────────────────────

func (s *Service) CreateClient(ctx context.Context, userID uuid.UUID, req transport.CreateClientRequest) (transport.ClientResponse, error) {
	client := repository.Client{
		ID:       uuid.New(),
		Name:     req.Name,
		Email:    req.Email,
		Phone:    phone.NormalizeE164(req.Phone),
		Document: req.Document,
	}
	if err := s.repo.CreateClient(ctx, &client); err != nil {
		return transport.ClientResponse{}, err
	}

	s.mutated(ctx, "client", client.ID, "created", userID, client.Name)
	return toClientResponse(client), nil
}

func (s *Service) UpdateClient(ctx context.Context, userID, id uuid.UUID, req transport.UpdateClientRequest) (transport.ClientResponse, error) {
	client := repository.Client{
		ID:       id,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    phone.NormalizeE164(req.Phone),
		Document: req.Document,
	}
	if err := s.repo.UpdateClient(ctx, &client); err != nil {
		return transport.ClientResponse{}, err
	}

	s.mutated(ctx, "client", id, "updated", userID, client.Name)
	return toClientResponse(client), nil
}

func (s *Service) DeleteClient(ctx context.Context, userID, id uuid.UUID) error {
	client, err := s.repo.GetClient(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteClient(ctx, id); err != nil {
		return err
	}
	s.mutated(ctx, "client", id, "deleted", userID, client.Name)
	return nil
}

func (s *Service) GetClient(ctx context.Context, id uuid.UUID) (transport.ClientResponse, error) {
	client, err := s.repo.GetClient(ctx, id)
	if err != nil {
		return transport.ClientResponse{}, err
	}
	return toClientResponse(client), nil
}

func (s *Service) ListClients(ctx context.Context, req transport.ListClientsRequest) (transport.ClientListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	clients, total, err := s.repo.ListClients(ctx, repository.ListClientsParams{
		Search: req.Search,
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	})
	if err != nil {
		return transport.ClientListResponse{}, err
	}

	responses := make([]transport.ClientResponse, 0, len(clients))
	for _, client := range clients {
		responses = append(responses, toClientResponse(client))
	}
	return transport.ClientListResponse{
		Clients:  responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// ── Addresses ─────────────────────────────────────────────────────────────────

func (s *Service) CreateAddress(ctx context.Context, userID, clientID uuid.UUID, req transport.AddressRequest) (transport.AddressResponse, error) {
	if _, err := s.repo.GetClient(ctx, clientID); err != nil {
		return transport.AddressResponse{}, err
	}

	addr := repository.Address{
		ID:         uuid.New(),
		ClientID:   clientID,
		Street:     req.Street,
		Number:     req.Number,
		Complement: req.Complement,
		District:   req.District,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		IsDefault:  req.IsDefault,
	}
	if err := s.repo.CreateAddress(ctx, &addr); err != nil {
		return transport.AddressResponse{}, err
	}

	s.mutated(ctx, "address", addr.ID, "created", userID, addr.Street)
	return toAddressResponse(addr), nil
}

func (s *Service) UpdateAddress(ctx context.Context, userID, clientID, id uuid.UUID, req transport.AddressRequest) (transport.AddressResponse, error) {
	addr := repository.Address{
		ID:         id,
		ClientID:   clientID,
		Street:     req.Street,
		Number:     req.Number,
		Complement: req.Complement,
		District:   req.District,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		IsDefault:  req.IsDefault,
	}
	if err := s.repo.UpdateAddress(ctx, &addr); err != nil {
		return transport.AddressResponse{}, err
	}

	s.mutated(ctx, "address", id, "updated", userID, addr.Street)
	return toAddressResponse(addr), nil
}

func (s *Service) DeleteAddress(ctx context.Context, userID, clientID, id uuid.UUID) error {
	if err := s.repo.DeleteAddress(ctx, clientID, id); err != nil {
		return err
	}
	s.mutated(ctx, "address", id, "deleted", userID, "")
	return nil
}

func (s *Service) ListAddresses(ctx context.Context, clientID uuid.UUID) ([]transport.AddressResponse, error) {
	if _, err := s.repo.GetClient(ctx, clientID); err != nil {
		return nil, err
	}

	addresses, err := s.repo.ListAddresses(ctx, clientID)
	if err != nil {
		return nil, err
	}
	responses := make([]transport.AddressResponse, 0, len(addresses))
	for _, addr := range addresses {
		responses = append(responses, toAddressResponse(addr))
	}
	return responses, nil
}

// ── Companies ─────────────────────────────────────────────────────────────────

func (s *Service) CreateCompany(ctx context.Context, userID uuid.UUID, req transport.CompanyRequest) (transport.CompanyResponse, error) {
	cnpj, err := normalizeCNPJ(req.CNPJ)
	if err != nil {
		return transport.CompanyResponse{}, err
	}

	company := repository.Company{
		ID:      uuid.New(),
		Name:    req.Name,
		CNPJ:    cnpj,
		Phone:   phone.NormalizeE164(req.Phone),
		Email:   req.Email,
		Address: req.Address,
		LogoURL: req.LogoURL,
	}
	if err := s.repo.CreateCompany(ctx, &company); err != nil {
		return transport.CompanyResponse{}, err
	}

	s.mutated(ctx, "company", company.ID, "created", userID, company.Name)
	return toCompanyResponse(company), nil
}

func (s *Service) UpdateCompany(ctx context.Context, userID, id uuid.UUID, req transport.CompanyRequest) (transport.CompanyResponse, error) {
	cnpj, err := normalizeCNPJ(req.CNPJ)
	if err != nil {
		return transport.CompanyResponse{}, err
	}

	company := repository.Company{
		ID:      id,
		Name:    req.Name,
		CNPJ:    cnpj,
		Phone:   phone.NormalizeE164(req.Phone),
		Email:   req.Email,
		Address: req.Address,
		LogoURL: req.LogoURL,
	}
	if err := s.repo.UpdateCompany(ctx, &company); err != nil {
		return transport.CompanyResponse{}, err
	}

	s.mutated(ctx, "company", id, "updated", userID, company.Name)
	return toCompanyResponse(company), nil
}

func (s *Service) DeleteCompany(ctx context.Context, userID, id uuid.UUID) error {
	company, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteCompany(ctx, id); err != nil {
		return err
	}

	s.mutated(ctx, "company", id, "deleted", userID, company.Name)
	return nil
}

func (s *Service) GetCompany(ctx context.Context, id uuid.UUID) (transport.CompanyResponse, error) {
	company, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		return transport.CompanyResponse{}, err
	}
	return toCompanyResponse(company), nil
}

func (s *Service) ListCompanies(ctx context.Context) (transport.CompanyListResponse, error) {
	companies, err := s.repo.ListCompanies(ctx)
	if err != nil {
		return transport.CompanyListResponse{}, err
	}

	responses := make([]transport.CompanyResponse, 0, len(companies))
	for _, company := range companies {
		responses = append(responses, toCompanyResponse(company))
	}
	return transport.CompanyListResponse{Companies: responses, Total: len(responses)}, nil
}

// normalizeCNPJ strips punctuation and requires the 14 digits of a CNPJ.
func normalizeCNPJ(input string) (string, error) {
	var digits strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() != 14 {
		return "", domain.ErrInvalidCNPJ
	}
	return digits.String(), nil
}

func (s *Service) mutated(ctx context.Context, entity string, entityID uuid.UUID, action string, userID uuid.UUID, label string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, events.CatalogMutated{
		BaseEvent: events.NewBaseEvent(),
		Entity:    entity,
		EntityID:  entityID,
		Action:    action,
		UserID:    userID,
		Label:     label,
	})
}

func toServiceResponse(svc repository.Service) transport.ServiceResponse {
	return transport.ServiceResponse{
		ID:             svc.ID,
		Name:           svc.Name,
		Description:    svc.Description,
		UnitPriceCents: svc.UnitPriceCents,
		Active:         svc.Active,
		CreatedAt:      svc.CreatedAt,
		UpdatedAt:      svc.UpdatedAt,
	}
}

func toClientResponse(client repository.Client) transport.ClientResponse {
	return transport.ClientResponse{
		ID:        client.ID,
		Name:      client.Name,
		Email:     client.Email,
		Phone:     client.Phone,
		Document:  client.Document,
		CreatedAt: client.CreatedAt,
		UpdatedAt: client.UpdatedAt,
	}
}

func toAddressResponse(addr repository.Address) transport.AddressResponse {
	return transport.AddressResponse{
		ID:         addr.ID,
		ClientID:   addr.ClientID,
		Street:     addr.Street,
		Number:     addr.Number,
		Complement: addr.Complement,
		District:   addr.District,
		City:       addr.City,
		State:      addr.State,
		PostalCode: addr.PostalCode,
		IsDefault:  addr.IsDefault,
		CreatedAt:  addr.CreatedAt,
	}
}

func toCompanyResponse(company repository.Company) transport.CompanyResponse {
	return transport.CompanyResponse{
		ID:        company.ID,
		Name:      company.Name,
		CNPJ:      company.CNPJ,
		Phone:     company.Phone,
		Email:     company.Email,
		Address:   company.Address,
		LogoURL:   company.LogoURL,
		CreatedAt: company.CreatedAt,
		UpdatedAt: company.UpdatedAt,
	}
}
