package create_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	createAppointment "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// CreateAppointmentRequest HTTP request model
// Пациент берется из X-User-ID
type CreateAppointmentRequest struct {
	OwnerID   int64   `json:"ownerId"`
	Date      string  `json:"date"`      // "2026-03-09"
	StartTime string  `json:"startTime"` // "9:00" или "09:00"
	EndTime   string  `json:"endTime"`
	Type      string  `json:"type,omitempty"`
	Reason    *string `json:"reason,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID          int64   `json:"id"`
	OwnerID     int64   `json:"ownerId"`
	PatientID   int64   `json:"patientId"`
	ScheduledAt string  `json:"scheduledAt"`
	EndsAt      string  `json:"endsAt"`
	Status      string  `json:"status"`
	Type        string  `json:"type"`
	Reason      *string `json:"reason,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

type parseError struct {
	field string
	err   error
}

func (e *parseError) Error() string {
	return fmt.Sprintf("%s: %v", e.field, e.err)
}

func (e *parseError) Unwrap() error {
	return e.err
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(patientID int64) (*createAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, &parseError{field: "date", err: err}
	}

	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, &parseError{field: "startTime", err: err}
	}

	end, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, &parseError{field: "endTime", err: err}
	}

	return &createAppointment.Request{
		OwnerID:   r.OwnerID,
		PatientID: patientID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Type:      r.Type,
		Reason:    r.Reason,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:          resp.ID,
		OwnerID:     resp.OwnerID,
		PatientID:   resp.PatientID,
		ScheduledAt: resp.ScheduledAt.Format(time.RFC3339),
		EndsAt:      resp.EndsAt.Format(time.RFC3339),
		Status:      resp.Status,
		Type:        resp.Type,
		Reason:      resp.Reason,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   resp.UpdatedAt.Format(time.RFC3339),
	}
}
