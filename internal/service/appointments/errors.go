package appointments

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = fmt.Errorf("%w: appointment not found", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда у пользователя нет прав на запись
	ErrAccessDenied = fmt.Errorf("%w: access denied", domain.ErrForbidden)

	// ErrCannotCancel возвращается, когда запись уже завершена или отменена
	ErrCannotCancel = fmt.Errorf("%w: appointment cannot be cancelled", domain.ErrConflict)

	// ErrInvalidTransition возвращается при недопустимой смене статуса
	ErrInvalidTransition = fmt.Errorf("%w: status transition is not allowed", domain.ErrConflict)

	// ErrStatusChanged возвращается, когда статус изменился конкурентным запросом
	ErrStatusChanged = fmt.Errorf("%w: appointment status changed concurrently", domain.ErrConflict)

	// ErrInvalidStatus возвращается при неизвестном статусе
	ErrInvalidStatus = fmt.Errorf("%w: invalid appointment status", domain.ErrValidation)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid input data", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("appointments.service: internal error")
)
