package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campusrec/court-booking-service/internal/domain"
	"github.com/campusrec/court-booking-service/internal/events"
	courtRepo "github.com/campusrec/court-booking-service/internal/infra/storage/court"
)

// UseCase use case для создания бронирования корта
type UseCase struct {
	reservationRepo ReservationRepository
	courtRepo       CourtRepository
	blackoutRepo    BlackoutRepository
	txManager       TransactionManager
	publisher       EventPublisher
	timeProvider    TimeProvider
	policy          Policy
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	courtRepo CourtRepository,
	blackoutRepo BlackoutRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	policy Policy,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		courtRepo:       courtRepo,
		blackoutRepo:    blackoutRepo,
		txManager:       txManager,
		publisher:       publisher,
		timeProvider:    &RealTimeProvider{},
		policy:          policy,
		logger:          logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверки идут жёсткой цепочкой: свежесть слота → выравнивание по сетке →
// окна работы → блокировки → лимит одновременных бронирований; первая
// отказавшая проверка прерывает запрос без побочных эффектов.
// Чтение пересечений и вставка выполняются в одной SERIALIZABLE транзакции,
// иначе два параллельных запроса могут оба пройти проверку занятости.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: user=%d, court=%d, start=%s, duration=%d",
		req.UserID, req.CourtID, req.Start.Format(time.RFC3339), req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем корт
	court, err := uc.courtRepo.GetByID(ctx, req.CourtID)
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			uc.logger.Warn("CreateReservation: court id=%d not found", req.CourtID)
			return nil, ErrCourtNotFound
		}
		uc.logger.Error("CreateReservation: failed to get court id=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: failed to get court: %v", ErrInternal, err)
	}

	// 4. Переводим начало слота в зону корта: день недели, окна работы
	// и выравнивание по сетке считаются в локальном времени площадки
	loc, err := court.Location(uc.policy.DefaultTimezone)
	if err != nil {
		uc.logger.Error("CreateReservation: court id=%d has invalid timezone %q: %v",
			court.ID, court.ZoneName(uc.policy.DefaultTimezone), err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimezone, err)
	}

	localStart := req.Start.In(loc)
	start := req.Start
	end := req.Start.Add(time.Duration(req.DurationMinutes) * time.Minute)

	// 5. Конец слота должен быть строго позже "сейчас + grace":
	// бронирование в прошлом или на уже идущий к концу слот отклоняется
	grace := time.Duration(uc.policy.CreateGraceMinutes) * time.Minute
	if !end.After(now.Add(grace)) {
		uc.logger.Warn("CreateReservation: slot end %s is in the past", end.Format(time.RFC3339))
		return nil, ErrSlotInPast
	}

	// 6. Выравнивание по сетке слотов
	if err := validateSlotAlignment(localStart, req.DurationMinutes, court.SlotMinutes); err != nil {
		uc.logger.Warn("CreateReservation: slot alignment failed: %v", err)
		return nil, err
	}

	// 7. Окна работы локального дня недели
	windows := court.WindowsFor(localStart.Weekday())
	if err := validateOperatingHours(localStart, req.DurationMinutes, windows); err != nil {
		uc.logger.Warn("CreateReservation: operating hours check failed: %v", err)
		return nil, err
	}

	// Переменная для хранения результата
	var result *domain.Reservation

	// 8. Блокировки и лимит одновременных бронирований проверяются
	// в сериализуемой транзакции вместе со вставкой
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 8.1. Блокировки, пересекающие локальный календарный день кандидата
		dayStart, dayEnd := localDayBounds(localStart)
		blackouts, err := uc.blackoutRepo.GetByCourtAndRange(txCtx, court.ID, dayStart, dayEnd)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to get blackouts: %v", err)
			return fmt.Errorf("%w: failed to get blackouts: %v", ErrInternal, err)
		}

		if blocked := findBlackoutOverlap(blackouts, start, end); blocked != nil {
			uc.logger.Warn("CreateReservation: interval blocked by blackout id=%d", blocked.ID)
			return ErrBlackout
		}

		// 8.2. Активные пересекающиеся бронирования с блокировкой FOR UPDATE
		overlapping, err := uc.reservationRepo.GetActiveOverlapping(txCtx, court.ID, start, end)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to get overlapping reservations: %v", err)
			return fmt.Errorf("%w: failed to get overlapping reservations: %v", ErrInternal, err)
		}

		// При MaxConcurrent = N допустимо не более N-1 существующих пересечений
		if len(overlapping) >= court.MaxConcurrent {
			uc.logger.Warn("CreateReservation: no capacity, %d/%d spots taken",
				len(overlapping), court.MaxConcurrent)
			if court.IsExclusive() {
				return ErrSlotTaken
			}
			return ErrNoCapacity
		}

		uc.logger.Info("CreateReservation: slot available, %d/%d spots taken",
			len(overlapping), court.MaxConcurrent)

		// 8.3. Создаем бронирование
		reservation := &domain.Reservation{
			CourtID:             court.ID,
			UserID:              req.UserID,
			RequesterName:       req.RequesterName,
			RequesterExternalID: req.RequesterExternalID,
			StartDate:           start,
			EndDate:             end,
			DurationMinutes:     req.DurationMinutes,
			Status:              domain.StatusBooked,
		}

		created, err := uc.reservationRepo.Create(txCtx, reservation)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
			return fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateReservation: successfully created reservation id=%d", result.ID)

	// 9. Событие для сервисов уведомлений; публикуется после коммита,
	// неудача публикации не откатывает бронирование
	uc.publishCreated(ctx, result)

	return &Response{
		ID:                  result.ID,
		UserID:              result.UserID,
		CourtID:             result.CourtID,
		StartDate:           result.StartDate,
		EndDate:             result.EndDate,
		DurationMinutes:     result.DurationMinutes,
		Status:              string(result.Status),
		RequesterName:       result.RequesterName,
		RequesterExternalID: result.RequesterExternalID,
		CreatedAt:           result.CreatedAt,
		UpdatedAt:           result.UpdatedAt,
	}, nil
}

// publishCreated публикует событие reservation.created best-effort
func (uc *UseCase) publishCreated(ctx context.Context, reservation *domain.Reservation) {
	event := events.ReservationCreated{
		ReservationID: reservation.ID,
		CourtID:       reservation.CourtID,
		UserID:        reservation.UserID,
		RequesterName: reservation.RequesterName,
		StartDate:     reservation.StartDate,
		EndDate:       reservation.EndDate,
	}

	if err := uc.publisher.Publish(ctx, events.RKReservationCreated, event); err != nil {
		uc.logger.Error("CreateReservation: failed to publish event for reservation id=%d: %v",
			reservation.ID, err)
	}
}
