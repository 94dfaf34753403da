package availability

import "errors"

var (
	// ErrAvailabilityNotFound возвращается, когда окно приема не найдено
	ErrAvailabilityNotFound = errors.New("availability.repository: availability not found")

	// ErrAlreadyExists возвращается, когда у специалиста уже есть окно на этот день недели
	ErrAlreadyExists = errors.New("availability.repository: availability for owner and day already exists")

	// ErrConstraintViolation возвращается, когда строка нарушает CHECK ограничение таблицы
	ErrConstraintViolation = errors.New("availability.repository: check constraint violated")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("availability.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("availability.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("availability.repository: failed to scan row")
)
