package delete_blackout

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/campusrec/court-booking-service/internal/api/handlers"
	"github.com/campusrec/court-booking-service/internal/service/courts"
)

const (
	msgInvalidBlackoutID = "некорректный ID блокировки"
	msgNotFound          = "блокировка не найдена"
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

// Handle DELETE /api/v1/courts/{courtId}/blackouts/{blackoutId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	blackoutID, err := strconv.ParseInt(vars["blackoutId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /courts/{id}/blackouts/{blackoutId} - Invalid blackout ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBlackoutID)
		return
	}

	if err := h.service.DeleteBlackout(r.Context(), blackoutID); err != nil {
		switch {
		case errors.Is(err, courts.ErrBlackoutNotFound):
			h.logger.Warn("DELETE /courts/{id}/blackouts/{blackoutId} - Blackout not found: blackout_id=%d", blackoutID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /courts/{id}/blackouts/{blackoutId} - Failed to delete blackout: blackout_id=%d, error=%v",
				blackoutID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /courts/{id}/blackouts/{blackoutId} - Blackout deleted successfully: blackout_id=%d", blackoutID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
