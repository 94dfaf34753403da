package create_appointment

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid input data", domain.ErrValidation)

	// ErrInvalidDate возвращается, когда дата записи в прошлом
	ErrInvalidDate = fmt.Errorf("%w: appointment date is in the past", domain.ErrValidation)

	// ErrDateTooFarInFuture возвращается, когда дата дальше горизонта записи
	ErrDateTooFarInFuture = fmt.Errorf("%w: appointment date is too far in the future", domain.ErrValidation)

	// ErrSlotUnavailable возвращается, когда запрошенного слота нет среди свободных
	ErrSlotUnavailable = fmt.Errorf("%w: requested slot is not available", domain.ErrSlotUnavailable)

	// ErrConcurrentBooking возвращается, когда слот занят конкурентным запросом во время записи
	ErrConcurrentBooking = fmt.Errorf("%w: slot was booked concurrently", domain.ErrConflict)

	// ErrScheduleBusy возвращается, когда расписание специалиста меняет другой запрос; слот при этом мог остаться свободным
	ErrScheduleBusy = fmt.Errorf("%w: owner schedule is being changed by another request", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)

// Значения метки outcome метрики бронирований
const (
	outcomeCreated         = "created"
	outcomeInvalid         = "invalid"
	outcomeSlotUnavailable = "slot_unavailable"
	outcomeConflict        = "conflict"
	outcomeError           = "error"
)
