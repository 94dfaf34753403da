package domain

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Slot свободный интервал для записи, вычисляется из окна приема и не хранится
type Slot struct {
	OwnerID   int64
	Date      time.Time // дата без времени
	StartTime types.TimeString
	EndTime   types.TimeString
}

// StartAt момент начала слота в локации loc
func (s Slot) StartAt(loc *time.Location) time.Time {
	return s.StartTime.OnDate(s.Date, loc)
}

// EndAt момент окончания слота в локации loc
func (s Slot) EndAt(loc *time.Location) time.Time {
	return s.EndTime.OnDate(s.Date, loc)
}

// DurationMinutes длительность слота
func (s Slot) DurationMinutes() int {
	return types.DiffMinutes(s.StartTime, s.EndTime)
}
