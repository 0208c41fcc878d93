package get_available_slots

import (
	"time"

	"github.com/campusrec/court-booking-service/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	CourtID int64     // ID корта
	Date    time.Time // Локальная дата корта, на которую запрашиваются слоты
}

// Policy настройки политики бронирования
type Policy struct {
	// DefaultTimezone зона площадки для кортов без собственной зоны
	DefaultTimezone string
	// CreateGraceMinutes допуск при фильтрации уже прошедших слотов
	CreateGraceMinutes int
}

// Response модель ответа со списком слотов на день
type Response struct {
	CourtID int64     // ID корта
	Date    time.Time // Дата, на которую запрашивались слоты
	Slots   []Slot    // Список слотов с доступностью
}

// Slot модель временного слота
type Slot struct {
	StartTime       types.TimeString // Локальное время начала слота (например, "10:00")
	StartDate       time.Time        // Абсолютный момент начала слота
	DurationMinutes int              // Длительность слота в минутах
	AvailableSpots  int              // Количество свободных мест
	TotalSpots      int              // Общее количество мест
}
