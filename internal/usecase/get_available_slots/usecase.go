package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/arnela/gabinete-booking/internal/domain"
	employeeRepo "github.com/arnela/gabinete-booking/internal/infra/storage/employee"
)

// UseCase use case для получения доступных слотов специалиста
type UseCase struct {
	appointmentRepo AppointmentRepository
	employeeRepo    EmployeeRepository
	schedule        domain.ClinicSchedule
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	employeeRepo EmployeeRepository,
	schedule domain.ClinicSchedule,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		employeeRepo:    employeeRepo,
		schedule:        schedule,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
// Пустой список не является ошибкой: выходной день или все слоты заняты
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: provider=%s, date=%s, duration=%d",
		req.ProviderID, req.Date.Format(domain.DateFormat), req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	date := domain.DateOnly(req.Date.In(uc.schedule.Location))
	today := domain.DateOnly(now.In(uc.schedule.Location))

	// 2. Прошедшие даты и даты за горизонтом записи
	if date.Before(today) || date.After(domain.LastBookableDate(today)) {
		uc.logger.Warn("GetAvailableSlots: date %s is outside the booking window", date.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	// 3. Проверяем специалиста
	employee, err := uc.employeeRepo.GetByID(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, employeeRepo.ErrEmployeeNotFound) {
			uc.logger.Warn("GetAvailableSlots: provider id=%s not found", req.ProviderID)
			return nil, ErrProviderNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get provider id=%s: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
	}
	if !employee.IsActive {
		uc.logger.Warn("GetAvailableSlots: provider id=%s is inactive", req.ProviderID)
		return nil, ErrProviderNotFound
	}

	// 4. Получаем активные записи специалиста на эту дату
	dayStart := date
	dayEnd := date.AddDate(0, 0, 1)
	appointments, err := uc.appointmentRepo.List(ctx, domain.AppointmentsFilter{
		ProviderID: &req.ProviderID,
		From:       &dayStart,
		To:         &dayEnd,
		ActiveOnly: true,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 5. Генерируем свободные слоты
	slots := generateSlots(uc.schedule, date, req.DurationMinutes, now, appointments)

	uc.logger.Info("GetAvailableSlots: %d free slots for provider=%s, date=%s",
		len(slots), req.ProviderID, date.Format(domain.DateFormat))

	return &Response{
		ProviderID:      req.ProviderID,
		Date:            date,
		DurationMinutes: req.DurationMinutes,
		Slots:           slots,
	}, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.ProviderID) == "" {
		return fmt.Errorf("%w: providerId is required", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if !domain.IsAllowedDuration(req.DurationMinutes) {
		return fmt.Errorf("%w: duration must be 45 or 60", ErrInvalidInput)
	}
	return nil
}

