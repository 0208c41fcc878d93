package create_reservation

import (
	"time"

	createReservation "github.com/campusrec/court-booking-service/internal/usecase/create_reservation"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	CourtID             int64   `json:"courtId"`
	Start               string  `json:"start"` // RFC 3339, например "2025-11-03T09:00:00-03:00"
	DurationMinutes     int     `json:"durationMinutes"`
	RequesterName       string  `json:"requesterName"`
	RequesterExternalID *string `json:"requesterExternalId,omitempty"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID                  int64   `json:"id"`
	UserID              int64   `json:"userId"`
	CourtID             int64   `json:"courtId"`
	StartDate           string  `json:"startDate"`
	EndDate             string  `json:"endDate"`
	DurationMinutes     int     `json:"durationMinutes"`
	Status              string  `json:"status"`
	RequesterName       string  `json:"requesterName"`
	RequesterExternalID *string `json:"requesterExternalId,omitempty"`
	CreatedAt           string  `json:"createdAt"`
	UpdatedAt           string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(userID int64) (*createReservation.Request, error) {
	start, err := time.Parse(time.RFC3339, r.Start)
	if err != nil {
		return nil, err
	}

	return &createReservation.Request{
		UserID:              userID,
		CourtID:             r.CourtID,
		Start:               start,
		DurationMinutes:     r.DurationMinutes,
		RequesterName:       r.RequesterName,
		RequesterExternalID: r.RequesterExternalID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
	return &ReservationResponse{
		ID:                  resp.ID,
		UserID:              resp.UserID,
		CourtID:             resp.CourtID,
		StartDate:           resp.StartDate.Format(time.RFC3339),
		EndDate:             resp.EndDate.Format(time.RFC3339),
		DurationMinutes:     resp.DurationMinutes,
		Status:              resp.Status,
		RequesterName:       resp.RequesterName,
		RequesterExternalID: resp.RequesterExternalID,
		CreatedAt:           resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           resp.UpdatedAt.Format(time.RFC3339),
	}
}
