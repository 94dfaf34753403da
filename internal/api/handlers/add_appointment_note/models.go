package add_appointment_note

import "github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"

// AddNoteRequest HTTP request model
type AddNoteRequest struct {
	Text string `json:"text"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *AddNoteRequest) ToServiceRequest(actorID int64) *models.AddNoteRequest {
	return &models.AddNoteRequest{
		ActorID: actorID,
		Text:    r.Text,
	}
}
