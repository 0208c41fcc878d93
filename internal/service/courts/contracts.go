package courts

import (
	"context"
	"time"

	"github.com/campusrec/court-booking-service/internal/domain"
)

// CourtRepository интерфейс репозитория кортов
type CourtRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Court, error)
	UpdateConfig(ctx context.Context, id int64, slotMinutes, maxConcurrent int) error
	ReplaceOpenHours(ctx context.Context, courtID int64, openHours map[time.Weekday][]domain.OpenWindow) error
}

// BlackoutRepository интерфейс репозитория блокировок
type BlackoutRepository interface {
	Create(ctx context.Context, blackout *domain.Blackout) (*domain.Blackout, error)
	GetByCourt(ctx context.Context, courtID int64) ([]*domain.Blackout, error)
	GetByCourtAndRange(ctx context.Context, courtID int64, from, to time.Time) ([]*domain.Blackout, error)
	Delete(ctx context.Context, id int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
