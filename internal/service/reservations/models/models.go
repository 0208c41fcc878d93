package models

import (
	"errors"
	"time"

	"github.com/campusrec/court-booking-service/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid reservation status")
)

// Request модели

// GetUserReservationsRequest запрос на получение бронирований пользователя
type GetUserReservationsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// GetCourtReservationsRequest запрос на получение бронирований корта
type GetCourtReservationsRequest struct {
	CourtID          int64      `json:"courtId"`
	StartDate        *time.Time `json:"startDate,omitempty"`        // Начало периода (опционально)
	EndDate          *time.Time `json:"endDate,omitempty"`          // Конец периода (опционально)
	Status           *string    `json:"status,omitempty"`           // Фильтр по статусу (опционально)
	IncludeCancelled bool       `json:"includeCancelled,omitempty"` // Включить отменённые бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetCourtReservationsRequest) ToDomainFilter() (domain.CourtReservationsFilter, error) {
	filter := domain.CourtReservationsFilter{
		CourtID:          r.CourtID,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		IncludeCancelled: r.IncludeCancelled,
	}

	if r.Status != nil {
		status, err := ToDomainReservationStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID                  int64     `json:"id"`
	UserID              int64     `json:"userId"`
	CourtID             int64     `json:"courtId"`
	StartDate           time.Time `json:"startDate"` // ISO 8601 с зоной
	EndDate             time.Time `json:"endDate"`
	DurationMinutes     int       `json:"durationMinutes"`
	Status              string    `json:"status"`
	RequesterName       string    `json:"requesterName"`
	RequesterExternalID *string   `json:"requesterExternalId,omitempty"`
	CancelledAt         *string   `json:"cancelledAt,omitempty"` // ISO 8601 format
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	resp := &ReservationResponse{
		ID:                  r.ID,
		UserID:              r.UserID,
		CourtID:             r.CourtID,
		StartDate:           r.StartDate,
		EndDate:             r.EndDate,
		DurationMinutes:     r.DurationMinutes,
		Status:              string(r.Status),
		RequesterName:       r.RequesterName,
		RequesterExternalID: r.RequesterExternalID,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}

	if r.CancelledAt != nil {
		cancelledStr := r.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(reservations []*domain.Reservation) *ReservationListResponse {
	if reservations == nil {
		return &ReservationListResponse{
			Reservations: []ReservationResponse{},
		}
	}

	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, 0, len(reservations)),
	}

	for _, reservation := range reservations {
		resp.Reservations = append(resp.Reservations, *FromDomainReservation(reservation))
	}

	return resp
}

// ToDomainReservationStatus конвертирует строку в domain статус
func ToDomainReservationStatus(s string) (domain.ReservationStatus, error) {
	switch domain.ReservationStatus(s) {
	case domain.StatusBooked:
		return domain.StatusBooked, nil
	case domain.StatusCancelled:
		return domain.StatusCancelled, nil
	default:
		return "", ErrInvalidStatus
	}
}
