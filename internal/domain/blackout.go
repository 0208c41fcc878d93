package domain

import "time"

// Blackout is an administrator-defined interval during which a court
// cannot be booked (maintenance, holiday, facility event)
type Blackout struct {
	ID        int64
	CourtID   int64
	StartDate time.Time
	EndDate   time.Time
	Reason    *string
	CreatedAt time.Time
}

// Overlaps reports whether the blackout intersects [start, end)
// using the same half-open semantics as reservations
func (b *Blackout) Overlaps(start, end time.Time) bool {
	return b.StartDate.Before(end) && b.EndDate.After(start)
}
