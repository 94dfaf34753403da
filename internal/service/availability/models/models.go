package models

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// CreateAvailabilityRequest запрос на создание окна приема
// Время передается строкой и строго парсится сервисом
type CreateAvailabilityRequest struct {
	ActorID             int64
	OwnerID             int64
	DayOfWeek           int // 0 - воскресенье
	StartTime           string
	EndTime             string
	SlotDurationMinutes int
}

// UpdateAvailabilityRequest частичное обновление окна
// Изменяются только переданные поля; день недели не меняется
type UpdateAvailabilityRequest struct {
	ActorID             int64
	StartTime           *string
	EndTime             *string
	SlotDurationMinutes *int
	IsActive            *bool
}

// AvailabilityResponse окно приема
type AvailabilityResponse struct {
	ID                  int64     `json:"id"`
	OwnerID             int64     `json:"ownerId"`
	DayOfWeek           int       `json:"dayOfWeek"`
	DayName             string    `json:"dayName"`
	StartTime           string    `json:"startTime"`
	EndTime             string    `json:"endTime"`
	SlotDurationMinutes int       `json:"slotDurationMinutes"`
	IsActive            bool      `json:"isActive"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// WeekScheduleResponse неделя специалиста: ровно 7 элементов, индекс - день недели, null - окно не задано
type WeekScheduleResponse struct {
	OwnerID int64                   `json:"ownerId"`
	Days    []*AvailabilityResponse `json:"days"`
}

// FromDomainAvailability конвертирует domain модель в DTO
func FromDomainAvailability(a *domain.WeeklyAvailability) *AvailabilityResponse {
	if a == nil {
		return nil
	}

	return &AvailabilityResponse{
		ID:                  a.ID,
		OwnerID:             a.OwnerID,
		DayOfWeek:           int(a.DayOfWeek),
		DayName:             a.DayOfWeek.String(),
		StartTime:           a.StartTime.String(),
		EndTime:             a.EndTime.String(),
		SlotDurationMinutes: a.SlotDurationMinutes,
		IsActive:            a.IsActive,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}
}

// FromDomainWeek конвертирует неделю в DTO
func FromDomainWeek(ownerID int64, week domain.WeekSchedule) *WeekScheduleResponse {
	days := make([]*AvailabilityResponse, domain.DaysPerWeek)
	for i, a := range week {
		days[i] = FromDomainAvailability(a)
	}
	return &WeekScheduleResponse{OwnerID: ownerID, Days: days}
}
