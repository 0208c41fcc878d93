package domain

import "time"

// ReservationStatus represents the status of a court reservation
type ReservationStatus string

const (
	StatusBooked    ReservationStatus = "booked"
	StatusCancelled ReservationStatus = "cancelled"
)

// Reservation represents a court reservation.
// Reservations are never deleted; a cancelled reservation stays in the
// store for history. There is no "completed" status: a reservation whose
// end instant is in the past is history by definition.
type Reservation struct {
	ID      int64
	CourtID int64
	UserID  int64

	// Display metadata carried for notifications and listings,
	// never consulted by conflict logic
	RequesterName       string
	RequesterExternalID *string

	StartDate       time.Time
	EndDate         time.Time
	DurationMinutes int
	Status          ReservationStatus

	CancelledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the reservation still occupies its slot
func (r *Reservation) IsActive() bool {
	return r.Status == StatusBooked
}

// IsCancelled returns true if the reservation has been cancelled
func (r *Reservation) IsCancelled() bool {
	return r.Status == StatusCancelled
}

// HasEnded reports whether the reservation interval is fully in the past
func (r *Reservation) HasEnded(now time.Time) bool {
	return !r.EndDate.After(now)
}

// Overlaps reports whether the reservation interval intersects
// [start, end) using half-open semantics: intervals that merely touch
// at a boundary do not overlap.
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return r.StartDate.Before(end) && r.EndDate.After(start)
}

// CourtReservationsFilter фильтр для выборки бронирований корта
type CourtReservationsFilter struct {
	CourtID          int64              // Обязательный параметр
	StartDate        *time.Time         // Начало периода (опционально)
	EndDate          *time.Time         // Конец периода (опционально)
	Status           *ReservationStatus // Фильтр по статусу (опционально)
	IncludeCancelled bool               // Включать ли отменённые бронирования
}
