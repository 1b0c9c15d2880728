package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/arnela/gabinete-booking/internal/domain"
	appointmentRepo "github.com/arnela/gabinete-booking/internal/infra/storage/appointment"
	"github.com/arnela/gabinete-booking/internal/service/appointments/models"
)

// Service сервис для работы с записями, клиентами и сотрудниками
type Service struct {
	appointmentRepo AppointmentRepository
	clientRepo      ClientRepository
	employeeRepo    EmployeeRepository
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	clientRepo ClientRepository,
	employeeRepo EmployeeRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		clientRepo:      clientRepo,
		employeeRepo:    employeeRepo,
		txManager:       txManager,
		timeProvider:    realTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id string) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%s", id)

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError("GetByID", id, err)
	}

	return models.FromDomainAppointment(appointment), nil
}

// List получает записи с фильтрацией по специалисту, клиенту, статусу и периоду
func (s *Service) List(ctx context.Context, req *models.ListRequest) ([]models.AppointmentResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		s.logger.Warn("List: invalid period %s - %s", filter.From, filter.To)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, domain.NewValidationError("from", "el periodo no es válido"))
	}

	appointments, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d appointments", len(appointments))
	return models.FromDomainAppointmentList(appointments), nil
}

// Confirm подтверждает ожидающую запись
// Подтвердить можно только запись в статусе pending
func (s *Service) Confirm(ctx context.Context, id string, req *models.ConfirmRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Confirm: confirming appointment id=%s", id)

	notes := normalizeOptional(req.Notes)
	if notes != nil && len([]rune(*notes)) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput,
			domain.NewValidationError("notes", fmt.Sprintf("las notas no pueden superar %d caracteres", domain.MaxNotesLength)))
	}

	var result *domain.Appointment
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		appointment, err := s.appointmentRepo.GetByID(txCtx, id)
		if err != nil {
			return s.mapRepoError("Confirm", id, err)
		}

		if !appointment.CanConfirm() {
			s.logger.Warn("Confirm: appointment id=%s cannot be confirmed, status=%s", id, appointment.Status)
			return ErrCannotConfirm
		}

		confirmed, err := s.appointmentRepo.Confirm(txCtx, id, notes, s.timeProvider.Now().UTC())
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrStatusConflict) {
				return ErrCannotConfirm
			}
			return s.mapRepoError("Confirm", id, err)
		}

		result = confirmed
		return nil
	})
	if err != nil {
		return nil, s.wrapTxError("Confirm", err)
	}

	s.logger.Info("Confirm: appointment id=%s confirmed", id)
	return models.FromDomainAppointment(result), nil
}

// Cancel отменяет запись с указанием причины
// Причина обязательна; отменить можно только будущую нетерминальную запись
func (s *Service) Cancel(ctx context.Context, id string, req *models.CancelRequest) (*models.MessageResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%s", id)

	if err := domain.ValidateCancellationReason(req.Reason); err != nil {
		s.logger.Warn("Cancel: invalid reason for appointment id=%s", id)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	reason := strings.TrimSpace(req.Reason)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		appointment, err := s.appointmentRepo.GetByID(txCtx, id)
		if err != nil {
			return s.mapRepoError("Cancel", id, err)
		}

		now := s.timeProvider.Now()
		if !appointment.CanCancel(now) {
			s.logger.Warn("Cancel: appointment id=%s cannot be cancelled, status=%s, start=%s",
				id, appointment.Status, appointment.StartTime)
			return ErrCannotCancel
		}

		if _, err := s.appointmentRepo.Cancel(txCtx, id, reason, now.UTC()); err != nil {
			if errors.Is(err, appointmentRepo.ErrStatusConflict) {
				return ErrCannotCancel
			}
			return s.mapRepoError("Cancel", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, s.wrapTxError("Cancel", err)
	}

	s.logger.Info("Cancel: appointment id=%s cancelled", id)
	return &models.MessageResponse{Message: models.CancelledMessage}, nil
}

// SearchClients ищет активных клиентов; запрос короче минимальной длины даёт пустой список
func (s *Service) SearchClients(ctx context.Context, term string) ([]models.ClientSummaryResponse, error) {
	term = strings.TrimSpace(term)
	if len([]rune(term)) < domain.MinSearchLength {
		return []models.ClientSummaryResponse{}, nil
	}

	clients, err := s.clientRepo.Search(ctx, term, 0)
	if err != nil {
		s.logger.Error("SearchClients: repository error: %v", err)
		return nil, fmt.Errorf("%w: SearchClients - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("SearchClients: %d clients for %q", len(clients), term)
	return models.FromDomainClients(clients), nil
}

// ListEmployees возвращает сотрудников
func (s *Service) ListEmployees(ctx context.Context, activeOnly bool) ([]models.EmployeeResponse, error) {
	employees, err := s.employeeRepo.List(ctx, activeOnly)
	if err != nil {
		s.logger.Error("ListEmployees: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListEmployees - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainEmployees(employees), nil
}

// Вспомогательные методы

func (s *Service) mapRepoError(op, id string, err error) error {
	if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
		s.logger.Warn("%s: appointment id=%s not found", op, id)
		return ErrAppointmentNotFound
	}
	s.logger.Error("%s: repository error for appointment id=%s: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

// wrapTxError оставляет ошибки сервиса как есть, ошибки транзакции считает внутренними
func (s *Service) wrapTxError(op string, err error) error {
	switch {
	case errors.Is(err, ErrAppointmentNotFound),
		errors.Is(err, ErrCannotConfirm),
		errors.Is(err, ErrCannotCancel),
		errors.Is(err, ErrInternal):
		return err
	default:
		s.logger.Error("%s: transaction error: %v", op, err)
		return fmt.Errorf("%w: %s - transaction error: %v", ErrInternal, op, err)
	}
}

func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
