package domain

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// WeeklyAvailability еженедельное окно приема специалиста на один день недели
// На пару (OwnerID, DayOfWeek) существует не более одной записи
type WeeklyAvailability struct {
	ID                  int64
	OwnerID             int64
	DayOfWeek           time.Weekday // 0 - воскресенье
	StartTime           types.TimeString
	EndTime             types.TimeString
	SlotDurationMinutes int
	IsActive            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// WindowMinutes длина окна в минутах
func (a *WeeklyAvailability) WindowMinutes() int {
	return types.DiffMinutes(a.StartTime, a.EndTime)
}

// IsOwnedBy возвращает true, если окно принадлежит пользователю
func (a *WeeklyAvailability) IsOwnedBy(userID int64) bool {
	return a.OwnerID == userID
}

// AppliesTo возвращает true, если окно действует в указанную дату
func (a *WeeklyAvailability) AppliesTo(date time.Time) bool {
	return a.IsActive && a.DayOfWeek == date.Weekday()
}

// WeekSchedule окна специалиста, индексированные днем недели; nil - окно не задано
type WeekSchedule [DaysPerWeek]*WeeklyAvailability

// IsValidWeekday проверяет, что день недели в диапазоне 0..6
func IsValidWeekday(day int) bool {
	return day >= int(time.Sunday) && day <= int(time.Saturday)
}
