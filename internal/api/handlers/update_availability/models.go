package update_availability

import "github.com/m04kA/SMC-SchedulingService/internal/service/availability/models"

// UpdateAvailabilityRequest HTTP request model
// Все поля опциональны; день недели не меняется
type UpdateAvailabilityRequest struct {
	StartTime           *string `json:"startTime,omitempty"`
	EndTime             *string `json:"endTime,omitempty"`
	SlotDurationMinutes *int    `json:"slotDurationMinutes,omitempty"`
	IsActive            *bool   `json:"isActive,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateAvailabilityRequest) ToServiceRequest(actorID int64) *models.UpdateAvailabilityRequest {
	return &models.UpdateAvailabilityRequest{
		ActorID:             actorID,
		StartTime:           r.StartTime,
		EndTime:             r.EndTime,
		SlotDurationMinutes: r.SlotDurationMinutes,
		IsActive:            r.IsActive,
	}
}
