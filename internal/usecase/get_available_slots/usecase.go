package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/service/slots"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

// UseCase use case для получения свободных слотов специалиста на дату
type UseCase struct {
	availabilityRepo AvailabilityRepository
	appointmentRepo  AppointmentRepository
	rules            domain.BookingRules
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	availabilityRepo AvailabilityRepository,
	appointmentRepo AppointmentRepository,
	rules domain.BookingRules,
	logger Logger,
) *UseCase {
	return &UseCase{
		availabilityRepo: availabilityRepo,
		appointmentRepo:  appointmentRepo,
		rules:            rules,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case получения свободных слотов
// Занятые слоты и слоты ближе MinNoticeMinutes к текущему моменту в ответ не попадают
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: owner=%d, date=%s", req.OwnerID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	loc := uc.rules.Loc()
	now := uc.timeProvider.Now()
	date := uc.rules.Day(req.Date)

	// 2. Валидация даты
	if err := validateDate(uc.rules, date, now); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	response := &Response{
		OwnerID:  req.OwnerID,
		Date:     date,
		Timezone: loc.String(),
		Slots:    []Slot{},
	}

	// 3. Окно приема на день недели
	availability, err := uc.availabilityRepo.GetByOwnerAndDay(ctx, req.OwnerID, date.Weekday())
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrAvailabilityNotFound) {
			uc.logger.Info("GetAvailableSlots: owner=%d has no availability on %s", req.OwnerID, date.Weekday())
			return response, nil
		}
		uc.logger.Error("GetAvailableSlots: failed to get availability: %v", err)
		return nil, fmt.Errorf("%w: failed to get availability: %w", ErrInternal, err)
	}

	if !availability.IsActive {
		uc.logger.Info("GetAvailableSlots: availability id=%d is inactive", availability.ID)
		return response, nil
	}

	// 4. Активные записи на эту дату
	dayStart, dayEnd := uc.rules.DayBounds(date)
	appointments, err := uc.appointmentRepo.ListByOwner(ctx, domain.OwnerAppointmentsFilter{
		OwnerID:    req.OwnerID,
		From:       ptr.Ptr(dayStart),
		To:         ptr.Ptr(dayEnd),
		ActiveOnly: true,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %w", ErrInternal, err)
	}

	// 5. Генерация слотов
	seq := slots.NotBefore(
		slots.Generate(availability, date, appointments, loc),
		uc.rules.NoticeCutoff(now),
		loc,
	)
	for slot := range seq {
		response.Slots = append(response.Slots, Slot{
			StartTime:       slot.StartTime,
			EndTime:         slot.EndTime,
			DurationMinutes: slot.DurationMinutes(),
		})
	}

	uc.logger.Info("GetAvailableSlots: %d free slots for owner=%d, date=%s",
		len(response.Slots), req.OwnerID, date.Format(domain.DateFormat))

	return response, nil
}
