package create_blackout

import (
	"context"

	"github.com/campusrec/court-booking-service/internal/service/courts/models"
)

type CourtService interface {
	CreateBlackout(ctx context.Context, courtID int64, req *models.CreateBlackoutRequest) (*models.BlackoutResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
