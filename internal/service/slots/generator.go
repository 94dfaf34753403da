package slots

import (
	"iter"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Generate возвращает слоты окна availability на дату date
//
// Слоты идут подряд с шагом SlotDurationMinutes от StartTime; хвост короче шага отбрасывается.
// Слоты, реальная длительность которых в loc отличается от шага (переход на летнее/зимнее время), пропускаются.
// Пустая последовательность, если день недели не совпадает или окно выключено.
// Слоты, пересекающиеся с активными записями того же специалиста из existing, пропускаются.
// Последовательность ленивая и может перебираться повторно.
func Generate(
	availability *domain.WeeklyAvailability,
	date time.Time,
	existing []*domain.Appointment,
	loc *time.Location,
) iter.Seq[domain.Slot] {
	return func(yield func(domain.Slot) bool) {
		if availability == nil || !availability.AppliesTo(date) {
			return
		}
		step := availability.SlotDurationMinutes
		if step <= 0 {
			return
		}

		day := dateOnly(date)
		length := time.Duration(step) * time.Minute
		busy := busyIntervals(availability.OwnerID, existing, loc)

		for cursor := availability.StartTime; ; {
			next, err := cursor.AddMinutes(step)
			if err != nil || next.IsAfter(availability.EndTime) {
				return
			}
			slot := domain.Slot{
				OwnerID:   availability.OwnerID,
				Date:      day,
				StartTime: cursor,
				EndTime:   next,
			}
			cursor = next

			// при переводе часов слот короче или длиннее шага
			startAt, endAt := slot.StartAt(loc), slot.EndAt(loc)
			if endAt.Sub(startAt) != length {
				continue
			}
			if isBusy(startAt, endAt, busy) {
				continue
			}
			if !yield(slot) {
				return
			}
		}
	}
}

// NotBefore пропускает слоты, которые начинаются раньше cutoff
func NotBefore(seq iter.Seq[domain.Slot], cutoff time.Time, loc *time.Location) iter.Seq[domain.Slot] {
	return func(yield func(domain.Slot) bool) {
		for slot := range seq {
			if slot.StartAt(loc).Before(cutoff) {
				continue
			}
			if !yield(slot) {
				return
			}
		}
	}
}

// Contains ищет слот с точно такими границами
func Contains(seq iter.Seq[domain.Slot], start, end types.TimeString) bool {
	for slot := range seq {
		if slot.StartTime.Equal(start) && slot.EndTime.Equal(end) {
			return true
		}
	}
	return false
}

// Overlaps проверяет пересечение полуинтервалов [aStart, aEnd) и [bStart, bEnd)
// Интервалы, которые только соприкасаются границей, не пересекаются
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

type interval struct {
	start, end time.Time
}

func busyIntervals(ownerID int64, existing []*domain.Appointment, loc *time.Location) []interval {
	busy := make([]interval, 0, len(existing))
	for _, a := range existing {
		if a == nil || a.OwnerID != ownerID || !a.IsActive() {
			continue
		}
		busy = append(busy, interval{start: a.ScheduledAt.In(loc), end: a.EndsAt.In(loc)})
	}
	return busy
}

func isBusy(start, end time.Time, busy []interval) bool {
	for _, b := range busy {
		if Overlaps(start, end, b.start, b.end) {
			return true
		}
	}
	return false
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
