package get_blackouts

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/campusrec/court-booking-service/internal/api/handlers"
	"github.com/campusrec/court-booking-service/internal/domain"
	"github.com/campusrec/court-booking-service/internal/service/courts"
)

const (
	msgInvalidCourtID = "некорректный ID корта"
	msgInvalidPeriod  = "некорректный формат периода, ожидается YYYY-MM-DD"
	msgCourtNotFound  = "корт не найден"
)

type Handler struct {
	service CourtService
	logger  Logger
}

func NewHandler(service CourtService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/courts/{courtId}/blackouts?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	courtID, err := strconv.ParseInt(vars["courtId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /courts/{id}/blackouts - Invalid court ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCourtID)
		return
	}

	var from, to *time.Time
	query := r.URL.Query()

	if raw := query.Get("from"); raw != "" {
		parsed, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /courts/{id}/blackouts - Invalid from date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)
			return
		}
		from = &parsed
	}

	if raw := query.Get("to"); raw != "" {
		parsed, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /courts/{id}/blackouts - Invalid to date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)
			return
		}
		to = &parsed
	}

	result, err := h.service.ListBlackouts(r.Context(), courtID, from, to)
	if err != nil {
		switch {
		case errors.Is(err, courts.ErrCourtNotFound):
			h.logger.Warn("GET /courts/{id}/blackouts - Court not found: court_id=%d", courtID)
			handlers.RespondNotFound(w, msgCourtNotFound)

		default:
			h.logger.Error("GET /courts/{id}/blackouts - Failed to list blackouts: court_id=%d, error=%v",
				courtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /courts/{id}/blackouts - Fetched %d blackouts for court_id=%d",
		len(result.Blackouts), courtID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
