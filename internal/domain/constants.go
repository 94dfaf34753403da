package domain

// Ограничения бизнес-валидации
const (
	DaysPerWeek = 7

	MinSlotDurationMinutes      = 1
	MaxSlotDurationMinutes      = 480 // 8 часов
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxReasonLength             = 500
	MaxTypeLength               = 64
)

// DefaultAppointmentType тип записи, если клиент его не передал
const DefaultAppointmentType = "consultation"

// DateFormat формат даты в запросах: YYYY-MM-DD
const DateFormat = "2006-01-02"

// ActiveStatuses статусы, которые занимают время специалиста
// Используется при поиске пересечений и генерации слотов
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}
