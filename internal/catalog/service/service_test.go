package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"orcamento_backend/internal/catalog/domain"
	"orcamento_backend/internal/catalog/repository"
	"orcamento_backend/internal/catalog/transport"
	"orcamento_backend/internal/events"
	"orcamento_backend/platform/logger"
)

type memRepo struct {
	services  map[uuid.UUID]repository.Service
	clients   map[uuid.UUID]repository.Client
	addresses map[uuid.UUID]repository.Address
	companies map[uuid.UUID]repository.Company

	// ids of services referenced by quote or sale items and clients that
	// own quotes, mimicking the SQL reference checks.
	referencedServices map[uuid.UUID]bool
	clientsWithQuotes  map[uuid.UUID]bool
}

func newMemRepo() *memRepo {
	return &memRepo{
		services:           make(map[uuid.UUID]repository.Service),
		clients:            make(map[uuid.UUID]repository.Client),
		addresses:          make(map[uuid.UUID]repository.Address),
		companies:          make(map[uuid.UUID]repository.Company),
		referencedServices: make(map[uuid.UUID]bool),
		clientsWithQuotes:  make(map[uuid.UUID]bool),
	}
}

func (m *memRepo) CreateService(_ context.Context, svc *repository.Service) error {
	for _, existing := range m.services {
		if existing.Name == svc.Name {
			return domain.ErrServiceNameTaken
		}
	}
	svc.CreatedAt = time.Now()
	svc.UpdatedAt = svc.CreatedAt
	m.services[svc.ID] = *svc
	return nil
}

func (m *memRepo) UpdateService(_ context.Context, svc *repository.Service) error {
	if _, ok := m.services[svc.ID]; !ok {
		return domain.ErrServiceNotFound
	}
	svc.UpdatedAt = time.Now()
	m.services[svc.ID] = *svc
	return nil
}

func (m *memRepo) DeleteService(_ context.Context, id uuid.UUID) error {
	if _, ok := m.services[id]; !ok {
		return domain.ErrServiceNotFound
	}
	if m.referencedServices[id] {
		return domain.ErrServiceInUse
	}
	delete(m.services, id)
	return nil
}

func (m *memRepo) GetService(_ context.Context, id uuid.UUID) (repository.Service, error) {
	svc, ok := m.services[id]
	if !ok {
		return repository.Service{}, domain.ErrServiceNotFound
	}
	return svc, nil
}

func (m *memRepo) ListServices(_ context.Context, params repository.ListServicesParams) ([]repository.Service, error) {
	services := make([]repository.Service, 0, len(m.services))
	for _, svc := range m.services {
		if params.ActiveOnly && !svc.Active {
			continue
		}
		services = append(services, svc)
	}
	return services, nil
}

func (m *memRepo) CreateClient(_ context.Context, client *repository.Client) error {
	client.CreatedAt = time.Now()
	client.UpdatedAt = client.CreatedAt
	m.clients[client.ID] = *client
	return nil
}

func (m *memRepo) UpdateClient(_ context.Context, client *repository.Client) error {
	if _, ok := m.clients[client.ID]; !ok {
		return domain.ErrClientNotFound
	}
	client.UpdatedAt = time.Now()
	m.clients[client.ID] = *client
	return nil
}

func (m *memRepo) DeleteClient(_ context.Context, id uuid.UUID) error {
	if _, ok := m.clients[id]; !ok {
		return domain.ErrClientNotFound
	}
	if m.clientsWithQuotes[id] {
		return domain.ErrClientHasQuotes
	}
	delete(m.clients, id)
	return nil
}

func (m *memRepo) GetClient(_ context.Context, id uuid.UUID) (repository.Client, error) {
	client, ok := m.clients[id]
	if !ok {
		return repository.Client{}, domain.ErrClientNotFound
	}
	return client, nil
}

func (m *memRepo) ListClients(_ context.Context, _ repository.ListClientsParams) ([]repository.Client, int, error) {
	clients := make([]repository.Client, 0, len(m.clients))
	for _, client := range m.clients {
		clients = append(clients, client)
	}
	return clients, len(clients), nil
}

func (m *memRepo) CreateAddress(_ context.Context, addr *repository.Address) error {
	addr.CreatedAt = time.Now()
	if addr.IsDefault {
		m.clearDefault(addr.ClientID, addr.ID)
	}
	m.addresses[addr.ID] = *addr
	return nil
}

func (m *memRepo) UpdateAddress(_ context.Context, addr *repository.Address) error {
	existing, ok := m.addresses[addr.ID]
	if !ok || existing.ClientID != addr.ClientID {
		return domain.ErrAddressNotFound
	}
	if addr.IsDefault {
		m.clearDefault(addr.ClientID, addr.ID)
	}
	m.addresses[addr.ID] = *addr
	return nil
}

func (m *memRepo) clearDefault(clientID, except uuid.UUID) {
	for id, other := range m.addresses {
		if other.ClientID == clientID && id != except && other.IsDefault {
			other.IsDefault = false
			m.addresses[id] = other
		}
	}
}

func (m *memRepo) DeleteAddress(_ context.Context, clientID, id uuid.UUID) error {
	existing, ok := m.addresses[id]
	if !ok || existing.ClientID != clientID {
		return domain.ErrAddressNotFound
	}
	delete(m.addresses, id)
	return nil
}

func (m *memRepo) ListAddresses(_ context.Context, clientID uuid.UUID) ([]repository.Address, error) {
	addresses := make([]repository.Address, 0)
	for _, addr := range m.addresses {
		if addr.ClientID == clientID {
			addresses = append(addresses, addr)
		}
	}
	return addresses, nil
}

func (m *memRepo) CreateCompany(_ context.Context, company *repository.Company) error {
	for _, other := range m.companies {
		if other.CNPJ == company.CNPJ {
			return domain.ErrCompanyCNPJTaken
		}
	}
	company.CreatedAt = time.Now()
	company.UpdatedAt = company.CreatedAt
	m.companies[company.ID] = *company
	return nil
}

func (m *memRepo) UpdateCompany(_ context.Context, company *repository.Company) error {
	existing, ok := m.companies[company.ID]
	if !ok {
		return domain.ErrCompanyNotFound
	}
	for id, other := range m.companies {
		if id != company.ID && other.CNPJ == company.CNPJ {
			return domain.ErrCompanyCNPJTaken
		}
	}
	company.CreatedAt = existing.CreatedAt
	company.UpdatedAt = time.Now()
	m.companies[company.ID] = *company
	return nil
}

func (m *memRepo) DeleteCompany(_ context.Context, id uuid.UUID) error {
	if _, ok := m.companies[id]; !ok {
		return domain.ErrCompanyNotFound
	}
	delete(m.companies, id)
	return nil
}

func (m *memRepo) GetCompany(_ context.Context, id uuid.UUID) (repository.Company, error) {
	company, ok := m.companies[id]
	if !ok {
		return repository.Company{}, domain.ErrCompanyNotFound
	}
	return company, nil
}

func (m *memRepo) ListCompanies(_ context.Context) ([]repository.Company, error) {
	companies := make([]repository.Company, 0)
	for _, company := range m.companies {
		companies = append(companies, company)
	}
	return companies, nil
}

func (m *memRepo) DefaultCompany(_ context.Context) (repository.Company, bool, error) {
	var oldest repository.Company
	found := false
	for _, company := range m.companies {
		if !found || company.CreatedAt.Before(oldest.CreatedAt) {
			oldest = company
			found = true
		}
	}
	return oldest, found, nil
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

func TestCreateServiceRejectsNonPositivePrice(t *testing.T) {
	svc, _, _ := newFixture()
	for _, price := range []int64{0, -100} {
		_, err := svc.CreateService(context.Background(), uuid.New(), transport.CreateServiceRequest{
			Name:           "limpeza",
			UnitPriceCents: price,
		})
		if !errors.Is(err, domain.ErrInvalidPrice) {
			t.Errorf("price %d: got %v, want ErrInvalidPrice", price, err)
		}
	}
}

func TestDeleteServiceInUse(t *testing.T) {
	svc, repo, _ := newFixture()
	userID := uuid.New()

	created, err := svc.CreateService(context.Background(), userID, transport.CreateServiceRequest{
		Name:           "pintura",
		UnitPriceCents: 15000,
	})
	if err != nil {
		t.Fatalf("CreateService failed: %v", err)
	}

	repo.referencedServices[created.ID] = true
	if err := svc.DeleteService(context.Background(), userID, created.ID); !errors.Is(err, domain.ErrServiceInUse) {
		t.Fatalf("got %v, want ErrServiceInUse", err)
	}

	// Unreferenced services delete fine.
	repo.referencedServices[created.ID] = false
	if err := svc.DeleteService(context.Background(), userID, created.ID); err != nil {
		t.Fatalf("DeleteService failed: %v", err)
	}
}

func TestDeleteClientWithQuotes(t *testing.T) {
	svc, repo, _ := newFixture()
	userID := uuid.New()

	client, err := svc.CreateClient(context.Background(), userID, transport.CreateClientRequest{Name: "Maria Silva"})
	if err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}

	repo.clientsWithQuotes[client.ID] = true
	if err := svc.DeleteClient(context.Background(), userID, client.ID); !errors.Is(err, domain.ErrClientHasQuotes) {
		t.Fatalf("got %v, want ErrClientHasQuotes", err)
	}
}

func TestCreateClientNormalizesPhone(t *testing.T) {
	svc, _, _ := newFixture()

	client, err := svc.CreateClient(context.Background(), uuid.New(), transport.CreateClientRequest{
		Name:  "Joao Souza",
		Phone: "(11) 98765-4321",
	})
	if err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}
	if client.Phone != "+5511987654321" {
		t.Errorf("phone = %q, want E.164 +5511987654321", client.Phone)
	}
}

func TestCatalogMutationsPublishEvents(t *testing.T) {
	svc, _, bus := newFixture()
	userID := uuid.New()

	created, err := svc.CreateService(context.Background(), userID, transport.CreateServiceRequest{
		Name:           "jardinagem",
		UnitPriceCents: 8000,
	})
	if err != nil {
		t.Fatalf("CreateService failed: %v", err)
	}
	if _, err := svc.UpdateService(context.Background(), userID, created.ID, transport.UpdateServiceRequest{
		Name:           "jardinagem",
		UnitPriceCents: 9000,
		Active:         true,
	}); err != nil {
		t.Fatalf("UpdateService failed: %v", err)
	}

	if len(bus.published) != 2 {
		t.Fatalf("expected 2 events, got %d", len(bus.published))
	}
	first, ok := bus.published[0].(events.CatalogMutated)
	if !ok {
		t.Fatalf("event has type %T", bus.published[0])
	}
	if first.Entity != "service" || first.Action != "created" || first.EntityID != created.ID {
		t.Errorf("event payload = %+v", first)
	}
}

func TestAddressLifecycle(t *testing.T) {
	svc, _, _ := newFixture()
	userID := uuid.New()

	client, err := svc.CreateClient(context.Background(), userID, transport.CreateClientRequest{Name: "Ana Lima"})
	if err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}

	addr, err := svc.CreateAddress(context.Background(), userID, client.ID, transport.AddressRequest{
		Street: "Rua das Flores",
		Number: "100",
		City:   "Sao Paulo",
		State:  "SP",
	})
	if err != nil {
		t.Fatalf("CreateAddress failed: %v", err)
	}

	// Addresses are scoped to their client.
	if _, err := svc.UpdateAddress(context.Background(), userID, uuid.New(), addr.ID, transport.AddressRequest{
		Street: "Outra Rua",
		City:   "Campinas",
		State:  "SP",
	}); !errors.Is(err, domain.ErrAddressNotFound) {
		t.Errorf("update with wrong client: got %v, want ErrAddressNotFound", err)
	}

	if err := svc.DeleteAddress(context.Background(), userID, client.ID, addr.ID); err != nil {
		t.Fatalf("DeleteAddress failed: %v", err)
	}
	addresses, err := svc.ListAddresses(context.Background(), client.ID)
	if err != nil {
		t.Fatalf("ListAddresses failed: %v", err)
	}
	if len(addresses) != 0 {
		t.Errorf("expected no addresses, got %d", len(addresses))
	}

	// Address creation requires an existing client.
	if _, err := svc.CreateAddress(context.Background(), userID, uuid.New(), transport.AddressRequest{
		Street: "Rua X",
		City:   "Rio",
		State:  "RJ",
	}); !errors.Is(err, domain.ErrClientNotFound) {
		t.Errorf("got %v, want ErrClientNotFound", err)
	}
}

func TestDefaultAddressIsExclusive(t *testing.T) {
	svc, _, _ := newFixture()
	userID := uuid.New()

	client, err := svc.CreateClient(context.Background(), userID, transport.CreateClientRequest{Name: "Bruno Costa"})
	if err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}

	first, err := svc.CreateAddress(context.Background(), userID, client.ID, transport.AddressRequest{
		Street:    "Rua Um",
		City:      "Sao Paulo",
		State:     "SP",
		IsDefault: true,
	})
	if err != nil {
		t.Fatalf("CreateAddress failed: %v", err)
	}
	if !first.IsDefault {
		t.Fatal("first address should be default")
	}

	// Marking a second address as default demotes the first.
	second, err := svc.CreateAddress(context.Background(), userID, client.ID, transport.AddressRequest{
		Street:    "Rua Dois",
		City:      "Sao Paulo",
		State:     "SP",
		IsDefault: true,
	})
	if err != nil {
		t.Fatalf("CreateAddress failed: %v", err)
	}

	addresses, err := svc.ListAddresses(context.Background(), client.ID)
	if err != nil {
		t.Fatalf("ListAddresses failed: %v", err)
	}
	defaults := 0
	for _, addr := range addresses {
		if addr.IsDefault {
			defaults++
			if addr.ID != second.ID {
				t.Errorf("default moved to %s, want %s", addr.ID, second.ID)
			}
		}
	}
	if defaults != 1 {
		t.Errorf("expected exactly one default address, got %d", defaults)
	}
}

func TestCreateCompanyNormalizesCNPJ(t *testing.T) {
	svc, repo, _ := newFixture()

	company, err := svc.CreateCompany(context.Background(), uuid.New(), transport.CompanyRequest{
		Name:  "Obras Silva Ltda",
		CNPJ:  "12.345.678/0001-95",
		Email: "contato@obrassilva.com",
		Phone: "(11) 98765-4321",
	})
	if err != nil {
		t.Fatalf("CreateCompany failed: %v", err)
	}
	if company.CNPJ != "12345678000195" {
		t.Errorf("cnpj = %q, want digits only", company.CNPJ)
	}
	if stored := repo.companies[company.ID]; stored.Phone != "+5511987654321" {
		t.Errorf("phone = %q, want E.164", stored.Phone)
	}
}

func TestCreateCompanyRejectsShortCNPJ(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.CreateCompany(context.Background(), uuid.New(), transport.CompanyRequest{
		Name:  "Obras Silva Ltda",
		CNPJ:  "123456",
		Email: "contato@obrassilva.com",
	})
	if !errors.Is(err, domain.ErrInvalidCNPJ) {
		t.Errorf("got %v, want ErrInvalidCNPJ", err)
	}
}

func TestCreateCompanyRejectsDuplicateCNPJ(t *testing.T) {
	svc, _, _ := newFixture()
	userID := uuid.New()

	req := transport.CompanyRequest{
		Name:  "Obras Silva Ltda",
		CNPJ:  "12345678000195",
		Email: "contato@obrassilva.com",
	}
	if _, err := svc.CreateCompany(context.Background(), userID, req); err != nil {
		t.Fatalf("CreateCompany failed: %v", err)
	}

	req.Name = "Outra Empresa"
	if _, err := svc.CreateCompany(context.Background(), userID, req); !errors.Is(err, domain.ErrCompanyCNPJTaken) {
		t.Errorf("got %v, want ErrCompanyCNPJTaken", err)
	}
}

func TestCompanyProfileUsesOldestCompany(t *testing.T) {
	svc, repo, _ := newFixture()
	gateway := NewGateway(svc)

	if _, found, err := gateway.CompanyProfile(context.Background()); err != nil || found {
		t.Fatalf("empty catalog: found=%v err=%v, want no profile", found, err)
	}

	first := repository.Company{ID: uuid.New(), Name: "Primeira", CNPJ: "11111111000111", CreatedAt: time.Now().Add(-time.Hour)}
	second := repository.Company{ID: uuid.New(), Name: "Segunda", CNPJ: "22222222000122", CreatedAt: time.Now()}
	repo.companies[first.ID] = first
	repo.companies[second.ID] = second

	profile, found, err := gateway.CompanyProfile(context.Background())
	if err != nil || !found {
		t.Fatalf("CompanyProfile failed: found=%v err=%v", found, err)
	}
	if profile.Name != "Primeira" {
		t.Errorf("profile = %q, want oldest company", profile.Name)
	}
}
