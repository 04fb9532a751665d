// Package service implements the scheduling business logic: booking a
// catalog service for a future moment with its price frozen at booking time.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"orcamento_backend/internal/appointments/domain"
	"orcamento_backend/internal/appointments/repository"
	"orcamento_backend/internal/appointments/transport"
	"orcamento_backend/internal/events"
	"orcamento_backend/platform/logger"
)

// Service orchestrates appointment bookings and status changes.
type Service struct {
	repo    repository.Repository
	catalog CatalogGateway
	bus     events.Bus
	log     *logger.Logger
}

func New(repo repository.Repository, catalog CatalogGateway, log *logger.Logger) *Service {
	return &Service{repo: repo, catalog: catalog, log: log}
}

// SetEventBus wires the event bus for publishing appointment changes.
func (s *Service) SetEventBus(bus events.Bus) {
	s.bus = bus
}

// Create books a service. The scheduled moment must lie in the future and the
// service price is snapshotted onto the appointment.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req transport.CreateAppointmentRequest) (transport.AppointmentResponse, error) {
	if !req.ScheduledAt.After(time.Now()) {
		return transport.AppointmentResponse{}, domain.ErrPastSchedule
	}

	snapshot, found, err := s.catalog.ResolveService(ctx, req.ServiceID)
	if err != nil {
		return transport.AppointmentResponse{}, err
	}
	if !found {
		return transport.AppointmentResponse{}, domain.ErrUnknownService
	}

	appt := repository.Appointment{
		ID:          uuid.New(),
		ServiceID:   snapshot.ID,
		ServiceName: snapshot.Name,
		UserID:      userID,
		ScheduledAt: req.ScheduledAt,
		PriceCents:  snapshot.PriceCents,
		Status:      domain.StatusScheduled,
		Notes:       req.Notes,
	}
	if err := s.repo.Create(ctx, &appt); err != nil {
		return transport.AppointmentResponse{}, err
	}

	s.changed(ctx, appt.ID, userID, "booked", fmt.Sprintf("%s at %s", appt.ServiceName, appt.ScheduledAt.Format(time.RFC3339)))
	return toResponse(appt), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.AppointmentResponse, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.AppointmentResponse{}, err
	}
	return toResponse(appt), nil
}

func (s *Service) List(ctx context.Context, req transport.ListAppointmentsRequest) (transport.AppointmentListResponse, error) {
	var status domain.Status
	if req.Status != "" {
		parsed, ok := domain.ParseStatus(req.Status)
		if !ok {
			return transport.AppointmentListResponse{}, domain.ErrInvalidStatus
		}
		status = parsed
	}

	appointments, err := s.repo.List(ctx, repository.ListParams{Status: status, Search: req.Search})
	if err != nil {
		return transport.AppointmentListResponse{}, err
	}

	responses := make([]transport.AppointmentResponse, 0, len(appointments))
	for _, appt := range appointments {
		responses = append(responses, toResponse(appt))
	}
	return transport.AppointmentListResponse{Appointments: responses, Total: len(responses)}, nil
}

// SetStatus moves an appointment to Scheduled, Completed or Cancelled.
func (s *Service) SetStatus(ctx context.Context, userID, id uuid.UUID, req transport.SetStatusRequest) (transport.AppointmentResponse, error) {
	status, ok := domain.ParseStatus(req.Status)
	if !ok {
		return transport.AppointmentResponse{}, domain.ErrInvalidStatus
	}

	appt, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return transport.AppointmentResponse{}, err
	}

	s.changed(ctx, id, userID, "status changed", fmt.Sprintf("%s now %s", appt.ServiceName, status))
	return toResponse(appt), nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.changed(ctx, id, userID, "deleted", appt.ServiceName)
	return nil
}

func (s *Service) changed(ctx context.Context, apptID, userID uuid.UUID, action, detail string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, events.AppointmentChanged{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: apptID,
		UserID:        userID,
		Action:        action,
		Detail:        detail,
	})
}

func toResponse(appt repository.Appointment) transport.AppointmentResponse {
	return transport.AppointmentResponse{
		ID:          appt.ID,
		ServiceID:   appt.ServiceID,
		ServiceName: appt.ServiceName,
		UserID:      appt.UserID,
		ScheduledAt: appt.ScheduledAt,
		PriceCents:  appt.PriceCents,
		Status:      appt.Status.String(),
		Notes:       appt.Notes,
		CreatedAt:   appt.CreatedAt,
		UpdatedAt:   appt.UpdatedAt,
	}
}
