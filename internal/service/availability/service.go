package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability/models"
)

// Service сервис управления еженедельными окнами приема
type Service struct {
	repo      AvailabilityRepository
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса окон приема
func NewService(repo AvailabilityRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		logger:    logger,
	}
}

// Create создает окно приема на день недели
// Доступно только самому специалисту; новое окно всегда активно
// Если окно на этот день уже есть (активное или нет), возвращается ErrAlreadyExists
func (s *Service) Create(ctx context.Context, req *models.CreateAvailabilityRequest) (*models.AvailabilityResponse, error) {
	s.logger.Info("Create: owner=%d, day=%d, %s-%s, slot=%d min by user=%d",
		req.OwnerID, req.DayOfWeek, req.StartTime, req.EndTime, req.SlotDurationMinutes, req.ActorID)

	// 1. Валидация входных данных
	if err := validateCreate(req.OwnerID, req.DayOfWeek); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	start, err := parseTime("startTime", req.StartTime)
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}
	end, err := parseTime("endTime", req.EndTime)
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	if err := validateWindow(start, end, req.SlotDurationMinutes); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем права доступа
	if req.ActorID != req.OwnerID {
		s.logger.Warn("Create: user=%d is not owner=%d", req.ActorID, req.OwnerID)
		return nil, ErrAccessDenied
	}

	// 3. Условная вставка: уникальность (owner, day) гарантирует база
	created, err := s.repo.Create(ctx, &domain.WeeklyAvailability{
		OwnerID:             req.OwnerID,
		DayOfWeek:           time.Weekday(req.DayOfWeek),
		StartTime:           start,
		EndTime:             end,
		SlotDurationMinutes: req.SlotDurationMinutes,
		IsActive:            true,
	})
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrAlreadyExists) {
			s.logger.Warn("Create: availability for owner=%d day=%d already exists", req.OwnerID, req.DayOfWeek)
			return nil, ErrAlreadyExists
		}
		if errors.Is(err, availabilityRepo.ErrConstraintViolation) {
			s.logger.Warn("Create: constraint violated: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created availability id=%d", created.ID)
	return models.FromDomainAvailability(created), nil
}

// GetByID получает окно по ID
// Публичный метод - доступен всем
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AvailabilityResponse, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrAvailabilityNotFound) {
			s.logger.Warn("GetByID: availability id=%d not found", id)
			return nil, ErrAvailabilityNotFound
		}
		s.logger.Error("GetByID: repository error for availability id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainAvailability(a), nil
}

// ListForOwner возвращает неделю специалиста: 7 элементов по дням недели, nil для дней без окна
// Публичный метод - доступен всем
func (s *Service) ListForOwner(ctx context.Context, ownerID int64) (*models.WeekScheduleResponse, error) {
	s.logger.Info("ListForOwner: fetching availability for owner=%d", ownerID)

	if ownerID <= 0 {
		return nil, fmt.Errorf("%w: ownerID must be positive", ErrInvalidInput)
	}

	week, err := s.Week(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return models.FromDomainWeek(ownerID, week), nil
}

// Week возвращает окна специалиста, индексированные днем недели
func (s *Service) Week(ctx context.Context, ownerID int64) (domain.WeekSchedule, error) {
	var week domain.WeekSchedule

	list, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("Week: repository error for owner=%d: %v", ownerID, err)
		return week, fmt.Errorf("%w: ListByOwner - repository error: %w", ErrInternal, err)
	}

	for _, a := range list {
		if domain.IsValidWeekday(int(a.DayOfWeek)) {
			week[a.DayOfWeek] = a
		}
	}

	return week, nil
}

// Update частично обновляет окно
// Итоговое окно проверяется целиком; чтение и запись идут в одной транзакции
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateAvailabilityRequest) (*models.AvailabilityResponse, error) {
	s.logger.Info("Update: updating availability id=%d by user=%d", id, req.ActorID)

	var result *domain.WeeklyAvailability

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		current, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, availabilityRepo.ErrAvailabilityNotFound) {
				s.logger.Warn("Update: availability id=%d not found", id)
				return ErrAvailabilityNotFound
			}
			s.logger.Error("Update: repository error for availability id=%d: %v", id, err)
			return fmt.Errorf("%w: GetByID - repository error: %w", ErrInternal, err)
		}

		if !current.IsOwnedBy(req.ActorID) {
			s.logger.Warn("Update: user=%d is not owner of availability id=%d", req.ActorID, id)
			return ErrAccessDenied
		}

		merged, err := mergeUpdate(current, req)
		if err != nil {
			s.logger.Warn("Update: validation failed: %v", err)
			return err
		}

		updated, err := s.repo.Update(txCtx, merged)
		if err != nil {
			if errors.Is(err, availabilityRepo.ErrAvailabilityNotFound) {
				return ErrAvailabilityNotFound
			}
			if errors.Is(err, availabilityRepo.ErrConstraintViolation) {
				return fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			s.logger.Error("Update: repository error for availability id=%d: %v", id, err)
			return fmt.Errorf("%w: Update - repository error: %w", ErrInternal, err)
		}

		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Update: successfully updated availability id=%d", id)
	return models.FromDomainAvailability(result), nil
}

// Delete удаляет окно
// Уже созданные записи на прием не затрагиваются
func (s *Service) Delete(ctx context.Context, id int64, actorID int64) error {
	s.logger.Info("Delete: deleting availability id=%d by user=%d", id, actorID)

	return s.txManager.Do(ctx, func(txCtx context.Context) error {
		current, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, availabilityRepo.ErrAvailabilityNotFound) {
				s.logger.Warn("Delete: availability id=%d not found", id)
				return ErrAvailabilityNotFound
			}
			s.logger.Error("Delete: repository error for availability id=%d: %v", id, err)
			return fmt.Errorf("%w: GetByID - repository error: %w", ErrInternal, err)
		}

		if !current.IsOwnedBy(actorID) {
			s.logger.Warn("Delete: user=%d is not owner of availability id=%d", actorID, id)
			return ErrAccessDenied
		}

		if err := s.repo.Delete(txCtx, id); err != nil {
			if errors.Is(err, availabilityRepo.ErrAvailabilityNotFound) {
				return ErrAvailabilityNotFound
			}
			s.logger.Error("Delete: repository error for availability id=%d: %v", id, err)
			return fmt.Errorf("%w: Delete - repository error: %w", ErrInternal, err)
		}

		s.logger.Info("Delete: successfully deleted availability id=%d", id)
		return nil
	})
}

func mergeUpdate(current *domain.WeeklyAvailability, req *models.UpdateAvailabilityRequest) (*domain.WeeklyAvailability, error) {
	merged := *current

	if req.StartTime != nil {
		start, err := parseTime("startTime", *req.StartTime)
		if err != nil {
			return nil, err
		}
		merged.StartTime = start
	}
	if req.EndTime != nil {
		end, err := parseTime("endTime", *req.EndTime)
		if err != nil {
			return nil, err
		}
		merged.EndTime = end
	}
	if req.SlotDurationMinutes != nil {
		merged.SlotDurationMinutes = *req.SlotDurationMinutes
	}
	if req.IsActive != nil {
		merged.IsActive = *req.IsActive
	}

	if err := validateWindow(merged.StartTime, merged.EndTime, merged.SlotDurationMinutes); err != nil {
		return nil, err
	}

	return &merged, nil
}
