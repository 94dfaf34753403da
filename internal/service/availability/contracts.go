package availability

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// AvailabilityRepository интерфейс репозитория окон приема
type AvailabilityRepository interface {
	Create(ctx context.Context, a *domain.WeeklyAvailability) (*domain.WeeklyAvailability, error)
	GetByID(ctx context.Context, id int64) (*domain.WeeklyAvailability, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*domain.WeeklyAvailability, error)
	Update(ctx context.Context, a *domain.WeeklyAvailability) (*domain.WeeklyAvailability, error)
	Delete(ctx context.Context, id int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
