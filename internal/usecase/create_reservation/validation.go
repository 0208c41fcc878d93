package create_reservation

import (
	"fmt"
	"time"

	"github.com/campusrec/court-booking-service/internal/domain"
)

const minutesPerDay = 24 * 60

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.CourtID <= 0 {
		return fmt.Errorf("%w: courtID must be positive", ErrInvalidInput)
	}

	if req.Start.IsZero() {
		return fmt.Errorf("%w: start is required", ErrInvalidInput)
	}

	if req.DurationMinutes <= 0 {
		return fmt.Errorf("%w: durationMinutes must be positive", ErrInvalidInput)
	}

	if req.RequesterName == "" {
		return fmt.Errorf("%w: requesterName is required", ErrInvalidInput)
	}

	return nil
}

// validateSlotAlignment проверяет, что локальное время начала лежит
// на сетке слотов корта, а длительность кратна размеру слота.
// localStart — момент начала, уже переведённый в зону корта.
func validateSlotAlignment(localStart time.Time, durationMinutes, slotMinutes int) error {
	// Схема БД гарантирует положительный размер слота, но деление ниже
	// не должно зависеть от этого
	if slotMinutes <= 0 {
		return fmt.Errorf("%w: slot size %d is not positive", ErrInternal, slotMinutes)
	}

	if localStart.Second() != 0 || localStart.Nanosecond() != 0 {
		return fmt.Errorf("%w: start has sub-minute precision", ErrUnalignedStart)
	}

	if localStart.Minute()%slotMinutes != 0 {
		return fmt.Errorf("%w: start minute %02d is not a multiple of %d",
			ErrUnalignedStart, localStart.Minute(), slotMinutes)
	}

	if durationMinutes%slotMinutes != 0 {
		return fmt.Errorf("%w: duration %d is not a multiple of %d",
			ErrInvalidDuration, durationMinutes, slotMinutes)
	}

	return nil
}

// validateOperatingHours проверяет, что интервал целиком помещается
// хотя бы в одно окно работы локального дня недели.
// Интервал, пересекающий локальную полночь, отклоняется до проверки окон.
func validateOperatingHours(localStart time.Time, durationMinutes int, windows []domain.OpenWindow) error {
	startMinute := localStart.Hour()*60 + localStart.Minute()
	endMinute := startMinute + durationMinutes

	if endMinute > minutesPerDay {
		return ErrCrossesMidnight
	}

	for _, window := range windows {
		openMinute, err := window.Open.Minutes()
		if err != nil {
			return fmt.Errorf("%w: bad open time %q: %v", ErrInternal, window.Open, err)
		}
		closeMinute, err := window.Close.Minutes()
		if err != nil {
			return fmt.Errorf("%w: bad close time %q: %v", ErrInternal, window.Close, err)
		}

		if startMinute >= openMinute && endMinute <= closeMinute {
			return nil
		}
	}

	return ErrOutsideOpenHours
}

// localDayBounds возвращает границы локального календарного дня,
// которому принадлежит localStart. Используется для ограничения
// выборки блокировок одним днём.
func localDayBounds(localStart time.Time) (time.Time, time.Time) {
	year, month, day := localStart.Date()
	dayStart := time.Date(year, month, day, 0, 0, 0, 0, localStart.Location())
	return dayStart, dayStart.AddDate(0, 0, 1)
}

// findBlackoutOverlap возвращает первую блокировку, пересекающую
// интервал [start, end), либо nil
func findBlackoutOverlap(blackouts []*domain.Blackout, start, end time.Time) *domain.Blackout {
	for _, blackout := range blackouts {
		if blackout.Overlaps(start, end) {
			return blackout
		}
	}
	return nil
}
