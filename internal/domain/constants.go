package domain

import "github.com/campusrec/court-booking-service/pkg/types"

// Default configuration values
const (
	DefaultSlotMinutes   = 60
	DefaultMaxConcurrent = 1

	// Default operating-hours window applied to weekdays
	// without configured windows
	DefaultOpenTime  types.TimeString = "08:00"
	DefaultCloseTime types.TimeString = "22:00"
)

// Business validation constants for court configuration updates
const (
	MinSlotMinutes   = 5
	MaxSlotMinutes   = 480 // 8 hours
	MinMaxConcurrent = 1
	MaxMaxConcurrent = 100
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
