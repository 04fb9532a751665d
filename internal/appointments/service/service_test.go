package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"orcamento_backend/internal/appointments/domain"
	"orcamento_backend/internal/appointments/repository"
	"orcamento_backend/internal/appointments/transport"
	"orcamento_backend/internal/events"
	"orcamento_backend/platform/logger"
)

type memRepo struct {
	appointments map[uuid.UUID]repository.Appointment
}

func newMemRepo() *memRepo {
	return &memRepo{appointments: make(map[uuid.UUID]repository.Appointment)}
}

func (m *memRepo) Create(_ context.Context, appt *repository.Appointment) error {
	appt.CreatedAt = time.Now()
	appt.UpdatedAt = appt.CreatedAt
	m.appointments[appt.ID] = *appt
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Appointment, error) {
	appt, ok := m.appointments[id]
	if !ok {
		return repository.Appointment{}, domain.ErrAppointmentNotFound
	}
	return appt, nil
}

func (m *memRepo) List(_ context.Context, params repository.ListParams) ([]repository.Appointment, error) {
	appointments := make([]repository.Appointment, 0, len(m.appointments))
	for _, appt := range m.appointments {
		if params.Status != "" && appt.Status != params.Status {
			continue
		}
		appointments = append(appointments, appt)
	}
	return appointments, nil
}

func (m *memRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.Status) (repository.Appointment, error) {
	appt, ok := m.appointments[id]
	if !ok {
		return repository.Appointment{}, domain.ErrAppointmentNotFound
	}
	appt.Status = status
	appt.UpdatedAt = time.Now()
	m.appointments[id] = appt
	return appt, nil
}

func (m *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.appointments[id]; !ok {
		return domain.ErrAppointmentNotFound
	}
	delete(m.appointments, id)
	return nil
}

var _ repository.Repository = (*memRepo)(nil)

type fakeCatalog struct {
	services map[uuid.UUID]ServiceSnapshot
}

func (f *fakeCatalog) ResolveService(_ context.Context, id uuid.UUID) (ServiceSnapshot, bool, error) {
	snapshot, ok := f.services[id]
	return snapshot, ok, nil
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}
func (b *recordingBus) PublishSync(_ context.Context, event events.Event) error { return nil }
func (b *recordingBus) Subscribe(string, events.Handler)                        {}

func newFixture() (*Service, *memRepo, *fakeCatalog, *recordingBus) {
	repo := newMemRepo()
	catalog := &fakeCatalog{services: make(map[uuid.UUID]ServiceSnapshot)}
	bus := &recordingBus{}
	svc := New(repo, catalog, logger.New("development"))
	svc.SetEventBus(bus)
	return svc, repo, catalog, bus
}

func addService(catalog *fakeCatalog, name string, priceCents int64) uuid.UUID {
	id := uuid.New()
	catalog.services[id] = ServiceSnapshot{ID: id, Name: name, PriceCents: priceCents}
	return id
}

func TestCreateSnapshotsServicePrice(t *testing.T) {
	svc, _, catalog, _ := newFixture()
	serviceID := addService(catalog, "limpeza", 12000)

	appt, err := svc.Create(context.Background(), uuid.New(), transport.CreateAppointmentRequest{
		ServiceID:   serviceID,
		ScheduledAt: time.Now().Add(24 * time.Hour),
		Notes:       "portão lateral",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if appt.PriceCents != 12000 {
		t.Errorf("price = %d, want 12000", appt.PriceCents)
	}
	if appt.ServiceName != "limpeza" {
		t.Errorf("service name = %q, want limpeza", appt.ServiceName)
	}
	if appt.Status != domain.StatusScheduled.String() {
		t.Errorf("status = %q, want Scheduled", appt.Status)
	}

	// A later catalog price change leaves the booking untouched.
	catalog.services[serviceID] = ServiceSnapshot{ID: serviceID, Name: "limpeza", PriceCents: 15000}
	got, err := svc.Get(context.Background(), appt.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.PriceCents != 12000 {
		t.Errorf("price after catalog change = %d, want 12000", got.PriceCents)
	}
}

func TestCreateRejectsPastSchedule(t *testing.T) {
	svc, _, catalog, _ := newFixture()
	serviceID := addService(catalog, "pintura", 20000)

	_, err := svc.Create(context.Background(), uuid.New(), transport.CreateAppointmentRequest{
		ServiceID:   serviceID,
		ScheduledAt: time.Now().Add(-time.Hour),
	})
	if !errors.Is(err, domain.ErrPastSchedule) {
		t.Fatalf("got %v, want ErrPastSchedule", err)
	}
}

func TestCreateRejectsUnknownService(t *testing.T) {
	svc, _, _, _ := newFixture()

	_, err := svc.Create(context.Background(), uuid.New(), transport.CreateAppointmentRequest{
		ServiceID:   uuid.New(),
		ScheduledAt: time.Now().Add(time.Hour),
	})
	if !errors.Is(err, domain.ErrUnknownService) {
		t.Fatalf("got %v, want ErrUnknownService", err)
	}
}

func TestSetStatusValidatesLabel(t *testing.T) {
	svc, _, catalog, _ := newFixture()
	serviceID := addService(catalog, "jardinagem", 8000)
	userID := uuid.New()

	appt, err := svc.Create(context.Background(), userID, transport.CreateAppointmentRequest{
		ServiceID:   serviceID,
		ScheduledAt: time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.SetStatus(context.Background(), userID, appt.ID, transport.SetStatusRequest{Status: "Postponed"}); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("got %v, want ErrInvalidStatus", err)
	}

	updated, err := svc.SetStatus(context.Background(), userID, appt.ID, transport.SetStatusRequest{Status: "Completed"})
	if err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if updated.Status != domain.StatusCompleted.String() {
		t.Errorf("status = %q, want Completed", updated.Status)
	}
}

func TestListFiltersByStatus(t *testing.T) {
	svc, _, catalog, _ := newFixture()
	serviceID := addService(catalog, "eletrica", 30000)
	userID := uuid.New()

	first, err := svc.Create(context.Background(), userID, transport.CreateAppointmentRequest{
		ServiceID:   serviceID,
		ScheduledAt: time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Create(context.Background(), userID, transport.CreateAppointmentRequest{
		ServiceID:   serviceID,
		ScheduledAt: time.Now().Add(2 * time.Hour),
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.SetStatus(context.Background(), userID, first.ID, transport.SetStatusRequest{Status: "Cancelled"}); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	result, err := svc.List(context.Background(), transport.ListAppointmentsRequest{Status: "Scheduled"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("total = %d, want 1", result.Total)
	}

	if _, err := svc.List(context.Background(), transport.ListAppointmentsRequest{Status: "Whenever"}); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("got %v, want ErrInvalidStatus", err)
	}
}

func TestAppointmentChangesPublishEvents(t *testing.T) {
	svc, _, catalog, bus := newFixture()
	serviceID := addService(catalog, "telhado", 50000)
	userID := uuid.New()

	appt, err := svc.Create(context.Background(), userID, transport.CreateAppointmentRequest{
		ServiceID:   serviceID,
		ScheduledAt: time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := svc.Delete(context.Background(), userID, appt.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if len(bus.published) != 2 {
		t.Fatalf("expected 2 events, got %d", len(bus.published))
	}
	booked, ok := bus.published[0].(events.AppointmentChanged)
	if !ok {
		t.Fatalf("event has type %T", bus.published[0])
	}
	if booked.Action != "booked" || booked.AppointmentID != appt.ID || booked.UserID != userID {
		t.Errorf("event payload = %+v", booked)
	}
	deleted := bus.published[1].(events.AppointmentChanged)
	if deleted.Action != "deleted" || deleted.Detail != "telhado" {
		t.Errorf("event payload = %+v", deleted)
	}
}
