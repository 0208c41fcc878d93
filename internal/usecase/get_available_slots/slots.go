package get_available_slots

import (
	"fmt"
	"time"

	"github.com/campusrec/court-booking-service/internal/domain"
	"github.com/campusrec/court-booking-service/pkg/types"
)

// timeSlot кандидат-слот: локальное время начала и абсолютный интервал
type timeSlot struct {
	startTime types.TimeString
	start     time.Time
	end       time.Time
}

// generateTimeSlots генерирует все слоты локального дня корта.
// Слоты идут с фиксированным шагом slotMinutes внутри каждого окна работы;
// начало каждого слота подтягивается вперёд до сетки корта (минута внутри
// часа кратна slotMinutes) — те же требования предъявляет валидация
// создания бронирования, поэтому невыровненный слот предлагать нельзя.
// Слот, не помещающийся до закрытия окна, отбрасывается.
// Слоты, чей конец не позже now + grace, отфильтровываются — это
// автоматически даёт пустой список для прошедших дат.
func generateTimeSlots(
	windows []domain.OpenWindow,
	slotMinutes int,
	date time.Time,
	loc *time.Location,
	now time.Time,
	graceMinutes int,
) ([]timeSlot, error) {
	if slotMinutes <= 0 {
		return nil, fmt.Errorf("slot size %d is not positive", slotMinutes)
	}

	year, month, day := date.Date()
	cutoff := now.Add(time.Duration(graceMinutes) * time.Minute)

	slots := make([]timeSlot, 0)

	for _, window := range windows {
		current := window.Open

		for current.IsBefore(window.Close) {
			// Ошибка выравнивания означает выход за полночь - слотов больше нет
			aligned, err := alignToSlotGrid(current, slotMinutes)
			if err != nil {
				break
			}
			current = aligned
			if !current.IsBefore(window.Close) {
				break
			}

			// Ошибка AddMinutes означает выход за полночь - слот не помещается
			slotEnd, err := current.AddMinutes(slotMinutes)
			if err != nil {
				break
			}
			// Слот не помещается до закрытия окна
			if slotEnd.IsAfter(window.Close) {
				break
			}

			startMinute, err := current.Minutes()
			if err != nil {
				return nil, err
			}

			start := time.Date(year, month, day, startMinute/60, startMinute%60, 0, 0, loc)
			end := start.Add(time.Duration(slotMinutes) * time.Minute)

			if end.After(cutoff) {
				slots = append(slots, timeSlot{
					startTime: current,
					start:     start,
					end:       end,
				})
			}

			current = slotEnd
		}
	}

	return slots, nil
}

// alignToSlotGrid продвигает t вперёд до ближайшего времени, чья минута
// внутри часа кратна slotMinutes. Окно работы может открываться вне сетки
// слотов (например, 08:30 при часовых слотах) - такое начало забронировать
// нельзя, поэтому первый слот сдвигается к сетке.
func alignToSlotGrid(t types.TimeString, slotMinutes int) (types.TimeString, error) {
	for {
		m, err := t.Minutes()
		if err != nil {
			return "", err
		}
		if (m%60)%slotMinutes == 0 {
			return t, nil
		}

		next, err := t.AddMinutes(1)
		if err != nil {
			return "", err
		}
		t = next
	}
}

// calculateAvailableSpots вычисляет доступность каждого слота.
// Слот, пересекающий блокировку, получает 0 свободных мест; иначе
// свободные места = maxConcurrent минус число активных пересекающихся
// бронирований.
func calculateAvailableSpots(
	candidates []timeSlot,
	slotMinutes int,
	reservations []*domain.Reservation,
	blackouts []*domain.Blackout,
	maxConcurrent int,
) []Slot {
	result := make([]Slot, len(candidates))

	for i, candidate := range candidates {
		availableSpots := maxConcurrent

		if isBlackedOut(candidate, blackouts) {
			availableSpots = 0
		} else {
			overlapping := countOverlappingReservations(candidate, reservations)
			availableSpots = maxConcurrent - overlapping
			if availableSpots < 0 {
				availableSpots = 0
			}
		}

		result[i] = Slot{
			StartTime:       candidate.startTime,
			StartDate:       candidate.start,
			DurationMinutes: slotMinutes,
			AvailableSpots:  availableSpots,
			TotalSpots:      maxConcurrent,
		}
	}

	return result
}

// countOverlappingReservations подсчитывает активные бронирования,
// пересекающиеся со слотом. Интервалы полуоткрытые: бронирование,
// заканчивающееся ровно в начале слота, пересечением не считается.
func countOverlappingReservations(candidate timeSlot, reservations []*domain.Reservation) int {
	count := 0

	for _, reservation := range reservations {
		if !reservation.IsActive() {
			continue
		}
		if reservation.Overlaps(candidate.start, candidate.end) {
			count++
		}
	}

	return count
}

// isBlackedOut проверяет, пересекает ли слот какую-либо блокировку
func isBlackedOut(candidate timeSlot, blackouts []*domain.Blackout) bool {
	for _, blackout := range blackouts {
		if blackout.Overlaps(candidate.start, candidate.end) {
			return true
		}
	}
	return false
}
