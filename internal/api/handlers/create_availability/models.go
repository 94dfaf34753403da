package create_availability

import "github.com/m04kA/SMC-SchedulingService/internal/service/availability/models"

// CreateAvailabilityRequest HTTP request model
type CreateAvailabilityRequest struct {
	DayOfWeek           *int   `json:"dayOfWeek"` // 0 - воскресенье, 6 - суббота
	StartTime           string `json:"startTime"` // "9:00" или "09:00"
	EndTime             string `json:"endTime"`
	SlotDurationMinutes int    `json:"slotDurationMinutes"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateAvailabilityRequest) ToServiceRequest(actorID, ownerID int64) *models.CreateAvailabilityRequest {
	day := -1
	if r.DayOfWeek != nil {
		day = *r.DayOfWeek
	}

	return &models.CreateAvailabilityRequest{
		ActorID:             actorID,
		OwnerID:             ownerID,
		DayOfWeek:           day,
		StartTime:           r.StartTime,
		EndTime:             r.EndTime,
		SlotDurationMinutes: r.SlotDurationMinutes,
	}
}
