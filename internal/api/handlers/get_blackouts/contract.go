package get_blackouts

import (
	"context"
	"time"

	"github.com/campusrec/court-booking-service/internal/service/courts/models"
)

type CourtService interface {
	ListBlackouts(ctx context.Context, courtID int64, from, to *time.Time) (*models.BlackoutListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
