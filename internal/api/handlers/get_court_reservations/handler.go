package get_court_reservations

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/campusrec/court-booking-service/internal/api/handlers"
	"github.com/campusrec/court-booking-service/internal/domain"
	"github.com/campusrec/court-booking-service/internal/service/reservations"
	"github.com/campusrec/court-booking-service/internal/service/reservations/models"
)

const (
	msgInvalidCourtID = "некорректный ID корта"
	msgInvalidPeriod  = "некорректный формат периода, ожидается YYYY-MM-DD"
	msgInvalidFilter  = "некорректные параметры фильтрации"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/courts/{courtId}/reservations?from=YYYY-MM-DD&to=YYYY-MM-DD&status=booked&includeCancelled=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	courtID, err := strconv.ParseInt(vars["courtId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /courts/{id}/reservations - Invalid court ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCourtID)
		return
	}

	req := &models.GetCourtReservationsRequest{
		CourtID: courtID,
	}

	query := r.URL.Query()

	if from := query.Get("from"); from != "" {
		parsed, err := time.Parse(domain.DateFormat, from)
		if err != nil {
			h.logger.Warn("GET /courts/{id}/reservations - Invalid from date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)
			return
		}
		req.StartDate = &parsed
	}

	if to := query.Get("to"); to != "" {
		parsed, err := time.Parse(domain.DateFormat, to)
		if err != nil {
			h.logger.Warn("GET /courts/{id}/reservations - Invalid to date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)
			return
		}
		req.EndDate = &parsed
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if includeCancelled := query.Get("includeCancelled"); includeCancelled == "true" {
		req.IncludeCancelled = true
	}

	result, err := h.service.GetCourtReservations(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrInvalidInput):
			h.logger.Warn("GET /courts/{id}/reservations - Invalid filter: court_id=%d", courtID)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /courts/{id}/reservations - Failed to get reservations: court_id=%d, error=%v",
				courtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /courts/{id}/reservations - Fetched %d reservations for court_id=%d",
		len(result.Reservations), courtID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
