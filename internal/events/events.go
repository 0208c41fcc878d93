// Package events описывает события жизненного цикла бронирования,
// публикуемые в RabbitMQ для сервисов уведомлений и отчётности.
package events

import "time"

// Routing keys публикуемых событий
const (
	RKReservationCreated   = "reservation.created"
	RKReservationCancelled = "reservation.cancelled"
)

// ReservationCreated публикуется после успешного создания бронирования
type ReservationCreated struct {
	ReservationID int64     `json:"reservation_id"`
	CourtID       int64     `json:"court_id"`
	UserID        int64     `json:"user_id"`
	RequesterName string    `json:"requester_name"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
}

// ReservationCancelled публикуется после отмены бронирования
type ReservationCancelled struct {
	ReservationID int64     `json:"reservation_id"`
	CourtID       int64     `json:"court_id"`
	UserID        int64     `json:"user_id"`
	RequesterName string    `json:"requester_name"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	CancelledAt   time.Time `json:"cancelled_at"`
}
