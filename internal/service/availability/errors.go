package availability

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrAvailabilityNotFound возвращается, когда окно приема не найдено
	ErrAvailabilityNotFound = fmt.Errorf("%w: availability not found", domain.ErrNotFound)

	// ErrAlreadyExists возвращается, когда у специалиста уже есть окно на этот день недели
	ErrAlreadyExists = fmt.Errorf("%w: availability for this day already exists", domain.ErrConflict)

	// ErrAccessDenied возвращается, когда окно меняет не его владелец
	ErrAccessDenied = fmt.Errorf("%w: only the owner can manage availability", domain.ErrForbidden)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid availability input", domain.ErrValidation)

	// ErrInvalidTime возвращается при некорректном формате времени
	ErrInvalidTime = fmt.Errorf("%w: invalid time, expected H:MM or HH:MM", domain.ErrValidation)

	// ErrInvalidTimeRange возвращается, когда окончание окна не позже начала
	ErrInvalidTimeRange = fmt.Errorf("%w: end time must be after start time", domain.ErrValidation)

	// ErrInvalidSlotDuration возвращается при недопустимой длительности слота
	ErrInvalidSlotDuration = fmt.Errorf("%w: invalid slot duration", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability.service: internal error")
)
