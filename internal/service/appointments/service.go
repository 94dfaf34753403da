package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
)

// Service сервис жизненного цикла записей: просмотр, отмена, смена статуса и заметки
type Service struct {
	repo      AppointmentRepository
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(repo AppointmentRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		logger:    logger,
	}
}

// GetByID получает запись по ID
// Запись видят только специалист и пациент
func (s *Service) GetByID(ctx context.Context, id int64, actorID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, actorID)

	appointment, err := s.get(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if !appointment.IsParticipant(actorID) {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", actorID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainAppointment(appointment), nil
}

// ListForOwner возвращает записи специалиста с фильтрацией по периоду и статусу
// Доступно только самому специалисту
func (s *Service) ListForOwner(ctx context.Context, req *models.GetOwnerAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListForOwner: fetching appointments for owner=%d by user=%d", req.OwnerID, req.ActorID)

	if req.OwnerID <= 0 {
		return nil, fmt.Errorf("%w: ownerID must be positive", ErrInvalidInput)
	}
	if req.ActorID != req.OwnerID {
		s.logger.Warn("ListForOwner: user=%d is not owner=%d", req.ActorID, req.OwnerID)
		return nil, ErrAccessDenied
	}
	if req.From != nil && req.To != nil && !req.To.After(*req.From) {
		return nil, fmt.Errorf("%w: 'to' must be after 'from'", ErrInvalidInput)
	}

	filter := domain.OwnerAppointmentsFilter{
		OwnerID:    req.OwnerID,
		From:       req.From,
		To:         req.To,
		ActiveOnly: req.ActiveOnly,
	}
	if req.Status != nil {
		status, ok := models.ToDomainStatus(*req.Status)
		if !ok {
			s.logger.Warn("ListForOwner: invalid status=%s", *req.Status)
			return nil, ErrInvalidStatus
		}
		filter.Status = &status
	}

	appointments, err := s.repo.ListByOwner(ctx, filter)
	if err != nil {
		s.logger.Error("ListForOwner: repository error for owner=%d: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: ListForOwner - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("ListForOwner: fetched %d appointments for owner=%d", len(appointments), req.OwnerID)
	return models.FromDomainAppointmentList(appointments), nil
}

// ListForPatient возвращает историю записей пациента
// Доступно только самому пациенту
func (s *Service) ListForPatient(ctx context.Context, req *models.GetPatientAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListForPatient: fetching appointments for patient=%d, status=%v", req.PatientID, req.Status)

	if req.PatientID <= 0 {
		return nil, fmt.Errorf("%w: patientID must be positive", ErrInvalidInput)
	}
	if req.ActorID != req.PatientID {
		s.logger.Warn("ListForPatient: user=%d is not patient=%d", req.ActorID, req.PatientID)
		return nil, ErrAccessDenied
	}

	var status *domain.AppointmentStatus
	if req.Status != nil {
		st, ok := models.ToDomainStatus(*req.Status)
		if !ok {
			s.logger.Warn("ListForPatient: invalid status=%s", *req.Status)
			return nil, ErrInvalidStatus
		}
		status = &st
	}

	appointments, err := s.repo.ListByPatient(ctx, req.PatientID, status)
	if err != nil {
		s.logger.Error("ListForPatient: repository error for patient=%d: %v", req.PatientID, err)
		return nil, fmt.Errorf("%w: ListForPatient - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainAppointmentList(appointments), nil
}

// Cancel отменяет запись
// Отменить может специалист или пациент записи; только pending и confirmed
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelAppointmentRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d", id, req.ActorID)

	reason := req.CancellationReason
	if reason != nil {
		trimmed := strings.TrimSpace(*reason)
		if len([]rune(trimmed)) > domain.MaxCancellationReasonLength {
			return nil, fmt.Errorf("%w: cancellation reason is longer than %d characters",
				ErrInvalidInput, domain.MaxCancellationReasonLength)
		}
		if trimmed == "" {
			reason = nil
		} else {
			reason = &trimmed
		}
	}

	var cancelled *domain.Appointment
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		appointment, err := s.get(ctx, "Cancel", id)
		if err != nil {
			return err
		}

		if !appointment.IsParticipant(req.ActorID) {
			s.logger.Warn("Cancel: user=%d has no access to appointment id=%d", req.ActorID, id)
			return ErrAccessDenied
		}

		if !appointment.CanBeCancelled() {
			s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", id, appointment.Status)
			return ErrCannotCancel
		}

		cancelled, err = s.repo.Cancel(ctx, id, appointment.Status, reason)
		if err != nil {
			return s.mapWriteError("Cancel", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: appointment id=%d cancelled by user=%d", id, req.ActorID)
	return models.FromDomainAppointment(cancelled), nil
}

// UpdateStatus меняет статус записи по таблице переходов
// Доступно только специалисту; отмена выполняется через Cancel
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: appointment id=%d -> %s by user=%d", id, req.Status, req.ActorID)

	next, ok := models.ToDomainStatus(req.Status)
	if !ok {
		s.logger.Warn("UpdateStatus: invalid status=%s", req.Status)
		return nil, ErrInvalidStatus
	}

	var updated *domain.Appointment
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		appointment, err := s.get(ctx, "UpdateStatus", id)
		if err != nil {
			return err
		}

		if appointment.OwnerID != req.ActorID {
			s.logger.Warn("UpdateStatus: user=%d is not owner of appointment id=%d", req.ActorID, id)
			return ErrAccessDenied
		}

		if !appointment.Status.CanTransitionTo(next) {
			s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for appointment id=%d",
				appointment.Status, next, id)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appointment.Status, next)
		}

		if next == domain.StatusCancelled {
			updated, err = s.repo.Cancel(ctx, id, appointment.Status, nil)
		} else {
			updated, err = s.repo.UpdateStatus(ctx, id, appointment.Status, next)
		}
		if err != nil {
			return s.mapWriteError("UpdateStatus", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateStatus: appointment id=%d is now %s", id, updated.Status)
	return models.FromDomainAppointment(updated), nil
}

// AddNote дописывает заметку к записи
// Заметки только добавляются; доступно специалисту и пациенту при любом статусе
func (s *Service) AddNote(ctx context.Context, id int64, req *models.AddNoteRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("AddNote: appointment id=%d by user=%d", id, req.ActorID)

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: note text is required", ErrInvalidInput)
	}
	if len([]rune(text)) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: note is longer than %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	appointment, err := s.get(ctx, "AddNote", id)
	if err != nil {
		return nil, err
	}
	if !appointment.IsParticipant(req.ActorID) {
		s.logger.Warn("AddNote: user=%d has no access to appointment id=%d", req.ActorID, id)
		return nil, ErrAccessDenied
	}

	updated, err := s.repo.AddNote(ctx, id, text)
	if err != nil {
		return nil, s.mapWriteError("AddNote", id, err)
	}

	return models.FromDomainAppointment(updated), nil
}

func (s *Service) get(ctx context.Context, op string, id int64) (*domain.Appointment, error) {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
	}
	return appointment, nil
}

func (s *Service) mapWriteError(op string, id int64, err error) error {
	switch {
	case errors.Is(err, appointmentRepo.ErrStatusChanged):
		s.logger.Warn("%s: appointment id=%d changed concurrently", op, id)
		return ErrStatusChanged
	case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
		return ErrAppointmentNotFound
	default:
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
	}
}
