package models

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модели

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	ActorID            int64
	CancellationReason *string
}

// UpdateStatusRequest запрос на смену статуса записи
type UpdateStatusRequest struct {
	ActorID int64
	Status  string
}

// AddNoteRequest запрос на добавление заметки
type AddNoteRequest struct {
	ActorID int64
	Text    string
}

// GetOwnerAppointmentsRequest запрос записей специалиста
type GetOwnerAppointmentsRequest struct {
	ActorID    int64
	OwnerID    int64
	From       *time.Time // Начало периода включительно (опционально)
	To         *time.Time // Конец периода не включительно (опционально)
	Status     *string    // Фильтр по статусу (опционально)
	ActiveOnly bool       // Только pending и confirmed
}

// GetPatientAppointmentsRequest запрос записей пациента
type GetPatientAppointmentsRequest struct {
	ActorID   int64
	PatientID int64
	Status    *string
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              int64     `json:"id"`
	OwnerID         int64     `json:"ownerId"`
	PatientID       int64     `json:"patientId"`
	ScheduledAt     time.Time `json:"scheduledAt"`
	EndsAt          time.Time `json:"endsAt"`
	DurationMinutes int       `json:"durationMinutes"`
	Status          string    `json:"status"`
	Type            string    `json:"type"`
	Reason          *string   `json:"reason,omitempty"`
	Notes           []string  `json:"notes"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	notes := a.Notes
	if notes == nil {
		notes = []string{}
	}

	resp := &AppointmentResponse{
		ID:                 a.ID,
		OwnerID:            a.OwnerID,
		PatientID:          a.PatientID,
		ScheduledAt:        a.ScheduledAt,
		EndsAt:             a.EndsAt,
		DurationMinutes:    a.DurationMinutes(),
		Status:             string(a.Status),
		Type:               a.Type,
		Reason:             a.Reason,
		Notes:              notes,
		CancellationReason: a.CancellationReason,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	if a.CancelledAt != nil {
		cancelled := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelled
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}
	for _, a := range appointments {
		if r := FromDomainAppointment(a); r != nil {
			resp.Appointments = append(resp.Appointments, *r)
		}
	}
	return resp
}

// ToDomainStatus конвертирует строку в domain.AppointmentStatus с валидацией
func ToDomainStatus(status string) (domain.AppointmentStatus, bool) {
	s := domain.AppointmentStatus(status)
	return s, s.IsValid()
}
