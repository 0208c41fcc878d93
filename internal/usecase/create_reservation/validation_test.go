package create_reservation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/campusrec/court-booking-service/internal/domain"
)

func TestValidateSlotAlignment(t *testing.T) {
	day := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		start    time.Time
		duration int
		slot     int
		wantErr  error
	}{
		{name: "aligned on the hour", start: day.Add(9 * time.Hour), duration: 60, slot: 60},
		{name: "aligned half hour", start: day.Add(9*time.Hour + 30*time.Minute), duration: 30, slot: 30},
		{name: "sub-minute precision", start: day.Add(9*time.Hour + 15*time.Second), duration: 30, slot: 30, wantErr: ErrUnalignedStart},
		{name: "off grid minute", start: day.Add(9*time.Hour + 10*time.Minute), duration: 30, slot: 30, wantErr: ErrUnalignedStart},
		{name: "duration not multiple", start: day.Add(9 * time.Hour), duration: 45, slot: 30, wantErr: ErrInvalidDuration},
		{name: "double slot duration", start: day.Add(9 * time.Hour), duration: 60, slot: 30},
		{name: "zero slot size", start: day.Add(9 * time.Hour), duration: 60, slot: 0, wantErr: ErrInternal},
		{name: "negative slot size", start: day.Add(9 * time.Hour), duration: 60, slot: -30, wantErr: ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSlotAlignment(tt.start, tt.duration, tt.slot)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateOperatingHours(t *testing.T) {
	day := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)

	// Две смены: утро и вечер
	windows := []domain.OpenWindow{
		{Open: "08:00", Close: "12:00"},
		{Open: "14:00", Close: "22:00"},
	}

	tests := []struct {
		name     string
		start    time.Time
		duration int
		wantErr  error
	}{
		{name: "inside morning window", start: day.Add(9 * time.Hour), duration: 60},
		{name: "ends at morning close", start: day.Add(11 * time.Hour), duration: 60},
		{name: "inside evening window", start: day.Add(15 * time.Hour), duration: 120},
		{name: "spans the lunch gap", start: day.Add(11 * time.Hour), duration: 240, wantErr: ErrOutsideOpenHours},
		{name: "before opening", start: day.Add(7 * time.Hour), duration: 60, wantErr: ErrOutsideOpenHours},
		{name: "past closing", start: day.Add(21*time.Hour + 30*time.Minute), duration: 60, wantErr: ErrOutsideOpenHours},
		{name: "crosses midnight", start: day.Add(23 * time.Hour), duration: 120, wantErr: ErrCrossesMidnight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateOperatingHours(tt.start, tt.duration, windows)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLocalDayBounds(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	assert.NoError(t, err)

	start := time.Date(2025, 11, 3, 21, 30, 0, 0, loc)
	dayStart, dayEnd := localDayBounds(start)

	assert.Equal(t, time.Date(2025, 11, 3, 0, 0, 0, 0, loc), dayStart)
	assert.Equal(t, time.Date(2025, 11, 4, 0, 0, 0, 0, loc), dayEnd)
}

func TestFindBlackoutOverlap(t *testing.T) {
	day := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)

	blackout := &domain.Blackout{
		ID:        1,
		CourtID:   7,
		StartDate: day.Add(9 * time.Hour),
		EndDate:   day.Add(12 * time.Hour),
	}

	// Пересечение
	found := findBlackoutOverlap([]*domain.Blackout{blackout}, day.Add(11*time.Hour), day.Add(13*time.Hour))
	assert.Equal(t, blackout, found)

	// Граничащий интервал пересечением не считается
	found = findBlackoutOverlap([]*domain.Blackout{blackout}, day.Add(12*time.Hour), day.Add(13*time.Hour))
	assert.Nil(t, found)
}
