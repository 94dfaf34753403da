package availability

import (
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

func parseTime(field, value string) (types.TimeString, error) {
	t, err := types.NewTimeStringFromString(value)
	if err != nil {
		return "", fmt.Errorf("%w: %s=%q", ErrInvalidTime, field, value)
	}
	return t, nil
}

// validateWindow проверяет инварианты окна: конец позже начала, 0 < длительность <= длины окна
func validateWindow(start, end types.TimeString, slotDuration int) error {
	if !end.IsAfter(start) {
		return fmt.Errorf("%w: start=%s end=%s", ErrInvalidTimeRange, start, end)
	}

	if slotDuration < domain.MinSlotDurationMinutes || slotDuration > domain.MaxSlotDurationMinutes {
		return fmt.Errorf("%w: must be in %d..%d minutes, got %d",
			ErrInvalidSlotDuration, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes, slotDuration)
	}

	if window := types.DiffMinutes(start, end); slotDuration > window {
		return fmt.Errorf("%w: %d minutes exceeds window of %d minutes", ErrInvalidSlotDuration, slotDuration, window)
	}

	return nil
}

func validateCreate(ownerID int64, day int) error {
	if ownerID <= 0 {
		return fmt.Errorf("%w: ownerID must be positive", ErrInvalidInput)
	}
	if !domain.IsValidWeekday(day) {
		return fmt.Errorf("%w: dayOfWeek must be in 0..6, got %d", ErrInvalidInput, day)
	}
	return nil
}
