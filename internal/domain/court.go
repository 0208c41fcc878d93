package domain

import (
	"time"

	"github.com/campusrec/court-booking-service/pkg/types"
)

// OpenWindow is a single operating-hours window within one weekday,
// expressed in the court's local wall-clock time
type OpenWindow struct {
	Open  types.TimeString
	Close types.TimeString
}

// Court represents a bookable court with its scheduling configuration.
// All wall-clock computations for a court (weekday, operating hours,
// slot alignment) happen in the court's own time zone, which may differ
// from the server's.
type Court struct {
	ID   int64
	Name string

	// Timezone is an IANA zone name; nil means the facility default applies
	Timezone *string

	// SlotMinutes granularity of the booking grid, always > 0
	SlotMinutes int

	// MaxConcurrent maximum number of simultaneous booked reservations, always >= 1
	MaxConcurrent int

	// OpenHours configured windows per weekday; a weekday with no entry
	// falls back to the default window
	OpenHours map[time.Weekday][]OpenWindow

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ZoneName returns the court's IANA zone name or the given fallback
func (c *Court) ZoneName(fallback string) string {
	if c.Timezone != nil && *c.Timezone != "" {
		return *c.Timezone
	}
	return fallback
}

// Location resolves the court's time zone, falling back to the facility default
func (c *Court) Location(fallback string) (*time.Location, error) {
	return time.LoadLocation(c.ZoneName(fallback))
}

// WindowsFor returns the operating-hours windows for the weekday.
// Weekdays without configured windows get the default window; weekdays
// with windows use exactly what is configured.
func (c *Court) WindowsFor(day time.Weekday) []OpenWindow {
	if windows, ok := c.OpenHours[day]; ok && len(windows) > 0 {
		return windows
	}
	return []OpenWindow{{Open: DefaultOpenTime, Close: DefaultCloseTime}}
}

// IsExclusive returns true if the court permits a single reservation at a time
func (c *Court) IsExclusive() bool {
	return c.MaxConcurrent == 1
}
