package cancel_appointment

import "github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"

// CancelAppointmentRequest HTTP request model
type CancelAppointmentRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CancelAppointmentRequest) ToServiceRequest(actorID int64) *models.CancelAppointmentRequest {
	return &models.CancelAppointmentRequest{
		ActorID:            actorID,
		CancellationReason: r.CancellationReason,
	}
}
