package create_reservation

import (
	"errors"
	"net/http"

	"github.com/campusrec/court-booking-service/internal/api/handlers"
	"github.com/campusrec/court-booking-service/internal/api/middleware"
	createReservation "github.com/campusrec/court-booking-service/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStart       = "некорректный формат времени начала, ожидается RFC 3339"
	msgUnauthorized       = "требуется аутентификация"
	msgCourtNotFound      = "корт не найден"
	msgSlotInPast         = "слот уже прошел"
	msgUnalignedStart     = "время начала не выровнено по сетке слотов"
	msgInvalidDuration    = "длительность должна быть положительным кратным размера слота"
	msgCrossesMidnight    = "слот не может пересекать полночь"
	msgOutsideOpenHours   = "слот вне часов работы корта"
	msgBlackout           = "время заблокировано для бронирования"
	msgSlotTaken          = "выбранный временной слот уже занят"
	msgNoCapacity         = "нет свободных мест на выбранное время"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом времени начала)
	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse start time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStart)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createReservation.ErrCourtNotFound):
			h.logger.Warn("POST /reservations - Court not found: court_id=%d", req.CourtID)
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, createReservation.ErrSlotInPast):
			h.logger.Warn("POST /reservations - Slot in past: user_id=%d, court_id=%d", userID, req.CourtID)
			handlers.RespondBadRequest(w, msgSlotInPast)

		case errors.Is(err, createReservation.ErrUnalignedStart):
			h.logger.Warn("POST /reservations - Unaligned start: user_id=%d, court_id=%d", userID, req.CourtID)
			handlers.RespondBadRequest(w, msgUnalignedStart)

		case errors.Is(err, createReservation.ErrInvalidDuration):
			h.logger.Warn("POST /reservations - Invalid duration: user_id=%d, court_id=%d", userID, req.CourtID)
			handlers.RespondBadRequest(w, msgInvalidDuration)

		case errors.Is(err, createReservation.ErrCrossesMidnight):
			h.logger.Warn("POST /reservations - Crosses midnight: user_id=%d, court_id=%d", userID, req.CourtID)
			handlers.RespondBadRequest(w, msgCrossesMidnight)

		case errors.Is(err, createReservation.ErrOutsideOpenHours):
			h.logger.Warn("POST /reservations - Outside open hours: user_id=%d, court_id=%d", userID, req.CourtID)
			handlers.RespondBadRequest(w, msgOutsideOpenHours)

		case errors.Is(err, createReservation.ErrBlackout):
			h.logger.Warn("POST /reservations - Blackout: user_id=%d, court_id=%d", userID, req.CourtID)
			handlers.RespondError(w, http.StatusConflict, msgBlackout)

		case errors.Is(err, createReservation.ErrSlotTaken):
			h.logger.Warn("POST /reservations - Slot taken: user_id=%d, court_id=%d", userID, req.CourtID)
			handlers.RespondError(w, http.StatusConflict, msgSlotTaken)

		case errors.Is(err, createReservation.ErrNoCapacity):
			h.logger.Warn("POST /reservations - No capacity: user_id=%d, court_id=%d", userID, req.CourtID)
			handlers.RespondError(w, http.StatusConflict, msgNoCapacity)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: user_id=%d, court_id=%d, error=%v",
				userID, req.CourtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /reservations - Reservation created successfully: reservation_id=%d, user_id=%d, court_id=%d",
		result.ID, userID, req.CourtID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
