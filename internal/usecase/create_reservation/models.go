package create_reservation

import "time"

// Request модель запроса на создание бронирования
type Request struct {
	UserID              int64     // ID пользователя-владельца
	CourtID             int64     // ID корта
	Start               time.Time // Абсолютный момент начала слота
	DurationMinutes     int       // Длительность в минутах
	RequesterName       string    // Отображаемое имя для уведомлений
	RequesterExternalID *string   // Внешний ID пользователя (опционально)
}

// Policy настройки политики бронирования
type Policy struct {
	// DefaultTimezone зона площадки для кортов без собственной зоны
	DefaultTimezone string
	// CreateGraceMinutes допуск при проверке "слот уже прошёл"
	CreateGraceMinutes int
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID                  int64
	UserID              int64
	CourtID             int64
	StartDate           time.Time
	EndDate             time.Time
	DurationMinutes     int
	Status              string
	RequesterName       string
	RequesterExternalID *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
