package domain

import "time"

// AppointmentStatus статус записи на прием
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// transitions допустимые переходы статусов
var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// IsValid проверяет, что статус известен
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsActive возвращает true для статусов, которые занимают время специалиста
func (s AppointmentStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// CanTransitionTo проверяет допустимость перехода из s в next
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Appointment запись пациента к специалисту
type Appointment struct {
	ID          int64
	OwnerID     int64 // специалист
	PatientID   int64
	ScheduledAt time.Time
	EndsAt      time.Time
	Status      AppointmentStatus
	Type        string
	Reason      *string
	Notes       []string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive возвращает true, если запись занимает время специалиста
func (a *Appointment) IsActive() bool {
	return a.Status.IsActive()
}

// CanBeCancelled возвращает true, если запись еще можно отменить
func (a *Appointment) CanBeCancelled() bool {
	return a.Status.CanTransitionTo(StatusCancelled)
}

// IsParticipant возвращает true, если пользователь - специалист или пациент записи
func (a *Appointment) IsParticipant(userID int64) bool {
	return a.OwnerID == userID || a.PatientID == userID
}

// DurationMinutes длительность записи в минутах
func (a *Appointment) DurationMinutes() int {
	return int(a.EndsAt.Sub(a.ScheduledAt) / time.Minute)
}

// OwnerAppointmentsFilter фильтр записей специалиста
type OwnerAppointmentsFilter struct {
	OwnerID int64
	From    *time.Time // включительно
	To      *time.Time // не включительно
	Status  *AppointmentStatus
	// ActiveOnly только pending/confirmed; игнорируется, если задан Status
	ActiveOnly bool
}
