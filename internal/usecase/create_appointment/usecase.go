package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/arnela/gabinete-booking/internal/domain"
	"github.com/arnela/gabinete-booking/internal/infra/lock"
	clientRepo "github.com/arnela/gabinete-booking/internal/infra/storage/client"
	employeeRepo "github.com/arnela/gabinete-booking/internal/infra/storage/employee"
)

// UseCase use case для создания записи на приём
type UseCase struct {
	appointmentRepo AppointmentRepository
	employeeRepo    EmployeeRepository
	clientRepo      ClientRepository
	locker          Locker
	txManager       TransactionManager
	schedule        domain.ClinicSchedule
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	employeeRepo EmployeeRepository,
	clientRepo ClientRepository,
	locker Locker,
	txManager TransactionManager,
	schedule domain.ClinicSchedule,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		employeeRepo:    employeeRepo,
		clientRepo:      clientRepo,
		locker:          locker,
		txManager:       txManager,
		schedule:        schedule,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи
// Проверка пересечений и вставка выполняются под блокировкой расписания специалиста
// в сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: user=%s, provider=%s, start=%s, duration=%d",
		req.UserID, req.ProviderID, req.StartTime.Format("2006-01-02T15:04Z07:00"), req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()
	start := req.StartTime.In(uc.schedule.Location)
	date := domain.DateOnly(start)
	today := domain.DateOnly(now.In(uc.schedule.Location))

	// 3. Проверяем дату и время приёма
	if err := domain.CheckBookableDate(date, today); err != nil {
		uc.logger.Warn("CreateAppointment: date validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	if !uc.schedule.IsOnGrid(start, req.DurationMinutes) {
		uc.logger.Warn("CreateAppointment: start %s is outside working hours or off grid", start.Format(domain.TimeFormat))
		return nil, ErrInvalidTimeSlot
	}
	if start.Before(uc.schedule.EarliestStart(now)) {
		uc.logger.Warn("CreateAppointment: start %s violates minimum notice", start.Format(domain.TimeFormat))
		return nil, ErrTooLateToBook
	}

	// 4. Проверяем специалиста
	if err := uc.checkProvider(ctx, req.ProviderID); err != nil {
		return nil, err
	}

	// 5. Определяем клиента
	client, err := uc.resolveClient(ctx, req)
	if err != nil {
		return nil, err
	}

	appointment := &domain.Appointment{
		ID:              uuid.NewString(),
		ClientID:        client.ID,
		ProviderID:      req.ProviderID,
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		Room:            req.Room,
		StartTime:       req.StartTime.UTC(),
		DurationMinutes: req.DurationMinutes,
		Status:          domain.StatusPending,
		CreatedBy:       req.UserID,
	}
	appointment.Normalize()

	var result *domain.Appointment

	// 6. Под блокировкой расписания проверяем пересечения и сохраняем запись
	err = uc.locker.WithLock(ctx, lock.ScheduleKey(req.ProviderID, date), func(lockCtx context.Context) error {
		return uc.txManager.DoSerializable(lockCtx, func(txCtx context.Context) error {
			// 6.1. Активные записи специалиста на эту дату (FOR UPDATE)
			dayStart := date
			dayEnd := date.AddDate(0, 0, 1)
			existing, err := uc.appointmentRepo.List(txCtx, domain.AppointmentsFilter{
				ProviderID: &req.ProviderID,
				From:       &dayStart,
				To:         &dayEnd,
				ActiveOnly: true,
			})
			if err != nil {
				uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
				return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
			}

			// 6.2. Проверяем пересечение
			busy := make([]domain.Interval, 0, len(existing))
			for _, a := range existing {
				if a.IsActive() {
					busy = append(busy, a.Interval())
				}
			}
			if appointment.Interval().OverlapsAny(busy) {
				uc.logger.Warn("CreateAppointment: slot %s overlaps an active appointment of provider=%s",
					start.Format(domain.TimeFormat), req.ProviderID)
				return ErrSlotNotAvailable
			}

			// 6.3. Сохраняем запись
			created, err := uc.appointmentRepo.Create(txCtx, appointment)
			if err != nil {
				uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
				return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
			}

			result = created
			return nil
		})
	})

	if errors.Is(err, lock.ErrNotAcquired) {
		uc.logger.Warn("CreateAppointment: schedule of provider=%s is locked", req.ProviderID)
		return nil, ErrScheduleBusy
	}
	if err != nil {
		if errors.Is(err, ErrSlotNotAvailable) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		uc.logger.Error("CreateAppointment: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%s", result.ID)

	return &Response{Appointment: result}, nil
}

func (uc *UseCase) checkProvider(ctx context.Context, providerID string) error {
	employee, err := uc.employeeRepo.GetByID(ctx, providerID)
	if err != nil {
		if errors.Is(err, employeeRepo.ErrEmployeeNotFound) {
			uc.logger.Warn("CreateAppointment: provider id=%s not found", providerID)
			return ErrProviderNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get provider id=%s: %v", providerID, err)
		return fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
	}
	if !employee.IsActive {
		uc.logger.Warn("CreateAppointment: provider id=%s is inactive", providerID)
		return ErrProviderNotFound
	}
	return nil
}

// resolveClient возвращает клиента из запроса или клиента, связанного с пользователем
func (uc *UseCase) resolveClient(ctx context.Context, req *Request) (*domain.Client, error) {
	var (
		client *domain.Client
		err    error
	)
	if req.ClientID != nil {
		client, err = uc.clientRepo.GetByID(ctx, *req.ClientID)
	} else {
		client, err = uc.clientRepo.GetByUserID(ctx, req.UserID)
	}

	if err != nil {
		if errors.Is(err, clientRepo.ErrClientNotFound) {
			uc.logger.Warn("CreateAppointment: client not found for user=%s", req.UserID)
			return nil, ErrClientNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get client: %v", err)
		return nil, fmt.Errorf("%w: failed to get client: %v", ErrInternal, err)
	}
	if !client.IsActive {
		uc.logger.Warn("CreateAppointment: client id=%s is inactive", client.ID)
		return nil, ErrClientNotFound
	}

	return client, nil
}

// validateRequest валидирует входные данные запроса
// Ошибки полей возвращаются как domain.ValidationError, обёрнутые в ErrInvalidInput
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.UserID) == "" {
		return fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.ProviderID) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidInput, domain.NewValidationError("providerId", "debe seleccionar un profesional"))
	}
	if req.ClientID != nil && strings.TrimSpace(*req.ClientID) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidInput, domain.NewValidationError("clientId", "debe seleccionar un cliente"))
	}
	if err := domain.ValidateTitle(req.Title); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if req.Description != nil && len([]rune(*req.Description)) > domain.MaxDescriptionLength {
		return fmt.Errorf("%w: %w", ErrInvalidInput,
			domain.NewValidationError("description", fmt.Sprintf("la descripción no puede superar %d caracteres", domain.MaxDescriptionLength)))
	}
	if err := domain.ValidateDuration(req.DurationMinutes); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: %w", ErrInvalidInput, domain.NewValidationError("startTime", "debe seleccionar un horario"))
	}
	return nil
}
