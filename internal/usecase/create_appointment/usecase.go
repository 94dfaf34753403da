package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/lock"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	availabilityRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/service/slots"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

// UseCase use case для записи пациента на слот специалиста
//
// Проверка свободного слота и вставка выполняются в одной сериализуемой транзакции
// под блокировкой расписания специалиста на дату. Из двух конкурентных запросов
// на пересекающиеся слоты успешен ровно один.
type UseCase struct {
	availabilityRepo AvailabilityRepository
	appointmentRepo  AppointmentRepository
	txManager        TransactionManager
	locker           Locker
	recorder         OutcomeRecorder
	rules            domain.BookingRules
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
// locker и recorder опциональны
func NewUseCase(
	availabilityRepo AvailabilityRepository,
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	locker Locker,
	recorder OutcomeRecorder,
	rules domain.BookingRules,
	logger Logger,
) *UseCase {
	if locker == nil {
		locker = lock.NoopLocker{}
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &UseCase{
		availabilityRepo: availabilityRepo,
		appointmentRepo:  appointmentRepo,
		txManager:        txManager,
		locker:           locker,
		recorder:         recorder,
		rules:            rules,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case создания записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: owner=%d, patient=%d, date=%s, %s-%s",
		req.OwnerID, req.PatientID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	appointment, err := uc.execute(ctx, req)
	uc.recorder.IncBookingOutcome(outcomeOf(err))
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: appointment id=%d created for owner=%d at %s",
		appointment.ID, appointment.OwnerID, appointment.ScheduledAt.Format("2006-01-02T15:04"))

	return toResponse(appointment), nil
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*domain.Appointment, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	date := uc.rules.Day(req.Date)

	// 2. Валидация даты
	if err := validateDate(uc.rules, date, now); err != nil {
		uc.logger.Warn("CreateAppointment: date validation failed: %v", err)
		return nil, err
	}

	// 3. Блокировка + сериализуемая транзакция
	var created *domain.Appointment
	err := uc.locker.WithLock(ctx, lock.OwnerDateKey(req.OwnerID, date), func(ctx context.Context) error {
		return uc.txManager.DoSerializable(ctx, func(ctx context.Context) error {
			appointment, err := uc.book(ctx, req, date)
			if err != nil {
				return err
			}
			created = appointment
			return nil
		})
	})
	if err != nil {
		switch {
		case errors.Is(err, lock.ErrLockNotAcquired):
			uc.logger.Warn("CreateAppointment: schedule of owner=%d is locked by another request", req.OwnerID)
			return nil, fmt.Errorf("%w: %v", ErrScheduleBusy, err)
		case txmanager.IsSerializationFailure(err):
			uc.logger.Warn("CreateAppointment: serialization failure: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrScheduleBusy, err)
		case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrConflict):
			return nil, err
		default:
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			if errors.Is(err, ErrInternal) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %w", ErrInternal, err)
		}
	}

	return created, nil
}

// book проверяет слот и создает запись внутри транзакции
func (uc *UseCase) book(ctx context.Context, req *Request, date time.Time) (*domain.Appointment, error) {
	loc := uc.rules.Loc()

	availability, err := uc.availabilityRepo.GetByOwnerAndDay(ctx, req.OwnerID, date.Weekday())
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrAvailabilityNotFound) {
			uc.logger.Warn("CreateAppointment: owner=%d has no availability on %s", req.OwnerID, date.Weekday())
			return nil, ErrSlotUnavailable
		}
		return nil, fmt.Errorf("%w: failed to get availability: %w", ErrInternal, err)
	}

	dayStart, dayEnd := uc.rules.DayBounds(date)
	existing, err := uc.appointmentRepo.ListByOwner(ctx, domain.OwnerAppointmentsFilter{
		OwnerID:    req.OwnerID,
		From:       ptr.Ptr(dayStart),
		To:         ptr.Ptr(dayEnd),
		ActiveOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get appointments: %w", ErrInternal, err)
	}

	free := slots.NotBefore(
		slots.Generate(availability, date, existing, loc),
		uc.rules.NoticeCutoff(uc.timeProvider.Now()),
		loc,
	)
	if !slots.Contains(free, req.StartTime, req.EndTime) {
		uc.logger.Warn("CreateAppointment: slot %s-%s is not available for owner=%d on %s",
			req.StartTime, req.EndTime, req.OwnerID, date.Format(domain.DateFormat))
		return nil, ErrSlotUnavailable
	}

	appointmentType := req.Type
	if appointmentType == "" {
		appointmentType = domain.DefaultAppointmentType
	}

	created, err := uc.appointmentRepo.Create(ctx, &domain.Appointment{
		OwnerID:     req.OwnerID,
		PatientID:   req.PatientID,
		ScheduledAt: req.StartTime.OnDate(date, loc),
		EndsAt:      req.EndTime.OnDate(date, loc),
		Status:      domain.StatusPending,
		Type:        appointmentType,
		Reason:      req.Reason,
	})
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrOverlap) {
			uc.logger.Warn("CreateAppointment: overlap rejected by storage: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrConcurrentBooking, err)
		}
		// конфликт сериализации разбирается после отката транзакции
		if txmanager.IsSerializationFailure(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: failed to save appointment: %w", ErrInternal, err)
	}

	return created, nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeCreated
	case errors.Is(err, domain.ErrValidation):
		return outcomeInvalid
	case errors.Is(err, domain.ErrSlotUnavailable):
		return outcomeSlotUnavailable
	case errors.Is(err, domain.ErrConflict):
		return outcomeConflict
	default:
		return outcomeError
	}
}

func toResponse(a *domain.Appointment) *Response {
	return &Response{
		ID:          a.ID,
		OwnerID:     a.OwnerID,
		PatientID:   a.PatientID,
		ScheduledAt: a.ScheduledAt,
		EndsAt:      a.EndsAt,
		Status:      string(a.Status),
		Type:        a.Type,
		Reason:      a.Reason,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
