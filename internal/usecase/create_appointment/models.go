package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Request модель запроса на запись к специалисту
type Request struct {
	OwnerID   int64            // ID специалиста
	PatientID int64            // ID пациента
	Date      time.Time        // Дата записи (время суток игнорируется)
	StartTime types.TimeString // Начало слота
	EndTime   types.TimeString // Конец слота
	Type      string           // Тип приема (по умолчанию consultation)
	Reason    *string          // Причина обращения (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID          int64
	OwnerID     int64
	PatientID   int64
	ScheduledAt time.Time
	EndsAt      time.Time
	Status      string
	Type        string
	Reason      *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
