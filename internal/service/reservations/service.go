package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campusrec/court-booking-service/internal/domain"
	"github.com/campusrec/court-booking-service/internal/events"
	reservationRepo "github.com/campusrec/court-booking-service/internal/infra/storage/reservation"
	"github.com/campusrec/court-booking-service/internal/service/reservations/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	reservationRepo    ReservationRepository
	publisher          EventPublisher
	timeProvider       TimeProvider
	cancelGraceMinutes int
	logger             Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservationRepo ReservationRepository,
	publisher EventPublisher,
	cancelGraceMinutes int,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo:    reservationRepo,
		publisher:          publisher,
		timeProvider:       &RealTimeProvider{},
		cancelGraceMinutes: cancelGraceMinutes,
		logger:             logger,
	}
}

// GetByID получает бронирование по ID
// Пользователь может видеть только своё бронирование
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for user=%d", id, userID)

	reservation, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByID: reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByID: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if reservation.UserID != userID {
		s.logger.Warn("GetByID: access denied for user=%d to reservation id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched reservation id=%d", id)
	return models.FromDomainReservation(reservation), nil
}

// GetUserReservations получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserReservations(ctx context.Context, req *models.GetUserReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("GetUserReservations: fetching reservations for user=%d, status=%v", req.UserID, req.Status)

	var domainStatus *domain.ReservationStatus
	if req.Status != nil {
		status, err := models.ToDomainReservationStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserReservations: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	reservations, err := s.reservationRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserReservations: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserReservations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserReservations: successfully fetched %d reservations for user=%d", len(reservations), req.UserID)
	return models.FromDomainReservationList(reservations), nil
}

// GetCourtReservations получает бронирования корта с гибкой фильтрацией
// Поддерживает фильтрацию по периоду, статусу и включению отменённых
func (s *Service) GetCourtReservations(ctx context.Context, req *models.GetCourtReservationsRequest) (*models.ReservationListResponse, error) {
	logMsg := fmt.Sprintf("GetCourtReservations: fetching reservations for court=%d", req.CourtID)
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s",
			req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeCancelled {
		logMsg += ", includeCancelled=true"
	}
	s.logger.Info(logMsg)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetCourtReservations: invalid filter for court=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	reservations, err := s.reservationRepo.GetByCourtWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetCourtReservations: repository error for court=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: GetCourtReservations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCourtReservations: successfully fetched %d reservations for court=%d", len(reservations), req.CourtID)
	return models.FromDomainReservationList(reservations), nil
}

// Cancel отменяет бронирование.
// Отменить может только владелец. Повторная отмена идемпотентна:
// уже отменённое бронирование возвращается как есть без ошибки.
// Бронирование, чей слот уже закончился (с учетом grace-допуска),
// отменить нельзя — запись остаётся в истории.
func (s *Service) Cancel(ctx context.Context, reservationID int64, userID int64) (*models.ReservationResponse, error) {
	s.logger.Info("Cancel: cancelling reservation id=%d by user=%d", reservationID, userID)

	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("Cancel: reservation id=%d not found", reservationID)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("Cancel: repository error for reservation id=%d: %v", reservationID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if reservation.UserID != userID {
		s.logger.Warn("Cancel: access denied for user=%d to cancel reservation id=%d", userID, reservationID)
		return nil, ErrAccessDenied
	}

	// Повторная отмена - не ошибка
	if reservation.IsCancelled() {
		s.logger.Info("Cancel: reservation id=%d is already cancelled", reservationID)
		return models.FromDomainReservation(reservation), nil
	}

	// Конец слота должен быть строго позже "сейчас + grace"
	now := s.timeProvider.Now()
	grace := time.Duration(s.cancelGraceMinutes) * time.Minute
	if reservation.HasEnded(now.Add(grace)) {
		s.logger.Warn("Cancel: reservation id=%d has already ended at %s",
			reservationID, reservation.EndDate.Format(time.RFC3339))
		return nil, ErrAlreadyEnded
	}

	if err := s.reservationRepo.Cancel(ctx, reservationID); err != nil {
		switch {
		case errors.Is(err, reservationRepo.ErrAlreadyCancelled):
			// Параллельная отмена успела между чтением и UPDATE.
			// Возвращаем фактическое состояние, событие не публикуем -
			// его уже опубликовал победивший запрос.
			s.logger.Info("Cancel: reservation id=%d was cancelled concurrently", reservationID)
			cancelled, getErr := s.reservationRepo.GetByID(ctx, reservationID)
			if getErr != nil {
				s.logger.Error("Cancel: failed to reload reservation id=%d: %v", reservationID, getErr)
				return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, getErr)
			}
			return models.FromDomainReservation(cancelled), nil

		case errors.Is(err, reservationRepo.ErrReservationNotFound):
			s.logger.Warn("Cancel: reservation id=%d not found during cancellation", reservationID)
			return nil, ErrReservationNotFound

		default:
			s.logger.Error("Cancel: repository error for reservation id=%d: %v", reservationID, err)
			return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}
	}

	// Перечитываем запись, чтобы вернуть фактические cancelled_at/updated_at
	cancelled, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		s.logger.Error("Cancel: failed to reload reservation id=%d: %v", reservationID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled reservation id=%d", reservationID)

	s.publishCancelled(ctx, cancelled)

	return models.FromDomainReservation(cancelled), nil
}

// publishCancelled публикует событие reservation.cancelled best-effort
func (s *Service) publishCancelled(ctx context.Context, reservation *domain.Reservation) {
	event := events.ReservationCancelled{
		ReservationID: reservation.ID,
		CourtID:       reservation.CourtID,
		UserID:        reservation.UserID,
		RequesterName: reservation.RequesterName,
		StartDate:     reservation.StartDate,
		EndDate:       reservation.EndDate,
	}
	if reservation.CancelledAt != nil {
		event.CancelledAt = *reservation.CancelledAt
	}

	if err := s.publisher.Publish(ctx, events.RKReservationCancelled, event); err != nil {
		s.logger.Error("Cancel: failed to publish event for reservation id=%d: %v",
			reservation.ID, err)
	}
}
