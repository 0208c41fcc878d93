package models

import (
	"time"

	"github.com/campusrec/court-booking-service/internal/domain"
	"github.com/campusrec/court-booking-service/pkg/types"
)

// Request модели

// OpenWindow окно работы корта в локальном времени
type OpenWindow struct {
	Open  string `json:"open"`  // "08:00"
	Close string `json:"close"` // "22:00"
}

// WeekSchedule расписание работы корта по дням недели
// Отсутствующий день означает "использовать окно по умолчанию"
type WeekSchedule struct {
	Monday    []OpenWindow `json:"monday,omitempty"`
	Tuesday   []OpenWindow `json:"tuesday,omitempty"`
	Wednesday []OpenWindow `json:"wednesday,omitempty"`
	Thursday  []OpenWindow `json:"thursday,omitempty"`
	Friday    []OpenWindow `json:"friday,omitempty"`
	Saturday  []OpenWindow `json:"saturday,omitempty"`
	Sunday    []OpenWindow `json:"sunday,omitempty"`
}

// UpdateConfigRequest запрос на обновление конфигурации корта
type UpdateConfigRequest struct {
	SlotMinutes   int           `json:"slotMinutes"`
	MaxConcurrent int           `json:"maxConcurrent"`
	OpenHours     *WeekSchedule `json:"openHours,omitempty"` // nil - расписание не меняется
}

// CreateBlackoutRequest запрос на создание блокировки корта
type CreateBlackoutRequest struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Reason    *string   `json:"reason,omitempty"`
}

// Response модели

// CourtConfigResponse ответ с конфигурацией корта
type CourtConfigResponse struct {
	ID            int64        `json:"id"`
	Name          string       `json:"name"`
	Timezone      *string      `json:"timezone,omitempty"`
	SlotMinutes   int          `json:"slotMinutes"`
	MaxConcurrent int          `json:"maxConcurrent"`
	OpenHours     WeekSchedule `json:"openHours"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// BlackoutResponse ответ с данными блокировки
type BlackoutResponse struct {
	ID        int64     `json:"id"`
	CourtID   int64     `json:"courtId"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Reason    *string   `json:"reason,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// BlackoutListResponse ответ со списком блокировок
type BlackoutListResponse struct {
	Blackouts []BlackoutResponse `json:"blackouts"`
}

// Методы конвертации

// ToDomainOpenHours конвертирует расписание в domain представление
func (w *WeekSchedule) ToDomainOpenHours() (map[time.Weekday][]domain.OpenWindow, error) {
	result := make(map[time.Weekday][]domain.OpenWindow)

	days := []struct {
		weekday time.Weekday
		windows []OpenWindow
	}{
		{time.Monday, w.Monday},
		{time.Tuesday, w.Tuesday},
		{time.Wednesday, w.Wednesday},
		{time.Thursday, w.Thursday},
		{time.Friday, w.Friday},
		{time.Saturday, w.Saturday},
		{time.Sunday, w.Sunday},
	}

	for _, day := range days {
		if len(day.windows) == 0 {
			continue
		}

		windows := make([]domain.OpenWindow, 0, len(day.windows))
		for _, window := range day.windows {
			open, err := types.NewTimeStringFromString(window.Open)
			if err != nil {
				return nil, err
			}
			close, err := types.NewTimeStringFromString(window.Close)
			if err != nil {
				return nil, err
			}
			windows = append(windows, domain.OpenWindow{Open: open, Close: close})
		}
		result[day.weekday] = windows
	}

	return result, nil
}

// FromDomainOpenHours конвертирует domain расписание в DTO
func FromDomainOpenHours(openHours map[time.Weekday][]domain.OpenWindow) WeekSchedule {
	convert := func(windows []domain.OpenWindow) []OpenWindow {
		if len(windows) == 0 {
			return nil
		}
		result := make([]OpenWindow, 0, len(windows))
		for _, window := range windows {
			result = append(result, OpenWindow{
				Open:  window.Open.String(),
				Close: window.Close.String(),
			})
		}
		return result
	}

	return WeekSchedule{
		Monday:    convert(openHours[time.Monday]),
		Tuesday:   convert(openHours[time.Tuesday]),
		Wednesday: convert(openHours[time.Wednesday]),
		Thursday:  convert(openHours[time.Thursday]),
		Friday:    convert(openHours[time.Friday]),
		Saturday:  convert(openHours[time.Saturday]),
		Sunday:    convert(openHours[time.Sunday]),
	}
}

// FromDomainCourt конвертирует domain модель корта в DTO
func FromDomainCourt(c *domain.Court) *CourtConfigResponse {
	if c == nil {
		return nil
	}

	return &CourtConfigResponse{
		ID:            c.ID,
		Name:          c.Name,
		Timezone:      c.Timezone,
		SlotMinutes:   c.SlotMinutes,
		MaxConcurrent: c.MaxConcurrent,
		OpenHours:     FromDomainOpenHours(c.OpenHours),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// FromDomainBlackout конвертирует domain модель блокировки в DTO
func FromDomainBlackout(b *domain.Blackout) *BlackoutResponse {
	if b == nil {
		return nil
	}

	return &BlackoutResponse{
		ID:        b.ID,
		CourtID:   b.CourtID,
		StartDate: b.StartDate,
		EndDate:   b.EndDate,
		Reason:    b.Reason,
		CreatedAt: b.CreatedAt,
	}
}

// FromDomainBlackoutList конвертирует список domain моделей в DTO
func FromDomainBlackoutList(blackouts []*domain.Blackout) *BlackoutListResponse {
	if blackouts == nil {
		return &BlackoutListResponse{
			Blackouts: []BlackoutResponse{},
		}
	}

	resp := &BlackoutListResponse{
		Blackouts: make([]BlackoutResponse, 0, len(blackouts)),
	}

	for _, blackout := range blackouts {
		resp.Blackouts = append(resp.Blackouts, *FromDomainBlackout(blackout))
	}

	return resp
}
