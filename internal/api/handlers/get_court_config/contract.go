package get_court_config

import (
	"context"

	"github.com/campusrec/court-booking-service/internal/service/courts/models"
)

type CourtService interface {
	GetConfig(ctx context.Context, courtID int64) (*models.CourtConfigResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
