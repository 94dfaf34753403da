package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Request модель запроса на получение свободных слотов
type Request struct {
	OwnerID int64     // ID специалиста
	Date    time.Time // Дата (время суток игнорируется)
}

// Response модель ответа со списком свободных слотов
type Response struct {
	OwnerID  int64
	Date     time.Time
	Timezone string
	Slots    []Slot
}

// Slot свободный интервал
type Slot struct {
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
}
