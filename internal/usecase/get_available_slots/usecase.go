package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campusrec/court-booking-service/internal/domain"
	courtRepo "github.com/campusrec/court-booking-service/internal/infra/storage/court"
)

// UseCase use case для получения сетки слотов корта на день
type UseCase struct {
	reservationRepo ReservationRepository
	courtRepo       CourtRepository
	blackoutRepo    BlackoutRepository
	timeProvider    TimeProvider
	policy          Policy
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	courtRepo CourtRepository,
	blackoutRepo BlackoutRepository,
	policy Policy,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		courtRepo:       courtRepo,
		blackoutRepo:    blackoutRepo,
		timeProvider:    &RealTimeProvider{},
		policy:          policy,
		logger:          logger,
	}
}

// Execute выполняет use case получения слотов на день
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: court=%d, date=%s",
		req.CourtID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем корт
	court, err := uc.courtRepo.GetByID(ctx, req.CourtID)
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			uc.logger.Warn("GetAvailableSlots: court id=%d not found", req.CourtID)
			return nil, ErrCourtNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get court id=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: failed to get court: %v", ErrInternal, err)
	}

	// 4. Запрошенная дата интерпретируется в зоне корта
	loc, err := court.Location(uc.policy.DefaultTimezone)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: court id=%d has invalid timezone %q: %v",
			court.ID, court.ZoneName(uc.policy.DefaultTimezone), err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimezone, err)
	}

	year, month, day := req.Date.Date()
	localDate := time.Date(year, month, day, 0, 0, 0, 0, loc)

	// 5. Окна работы локального дня недели
	windows := court.WindowsFor(localDate.Weekday())

	// 6. Генерируем слоты дня
	candidates, err := generateTimeSlots(windows, court.SlotMinutes, localDate, loc, now, uc.policy.CreateGraceMinutes)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate time slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate time slots: %v", ErrInternal, err)
	}

	if len(candidates) == 0 {
		return &Response{
			CourtID: court.ID,
			Date:    localDate,
			Slots:   []Slot{},
		}, nil
	}

	// 7. Бронирования и блокировки за локальный день
	dayStart := localDate
	dayEnd := localDate.AddDate(0, 0, 1)

	reservations, err := uc.reservationRepo.GetActiveOverlapping(ctx, court.ID, dayStart, dayEnd)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
	}

	blackouts, err := uc.blackoutRepo.GetByCourtAndRange(ctx, court.ID, dayStart, dayEnd)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get blackouts: %v", err)
		return nil, fmt.Errorf("%w: failed to get blackouts: %v", ErrInternal, err)
	}

	// 8. Вычисляем доступность каждого слота
	slots := calculateAvailableSpots(candidates, court.SlotMinutes, reservations, blackouts, court.MaxConcurrent)

	uc.logger.Info("GetAvailableSlots: generated %d slots for court=%d, date=%s",
		len(slots), court.ID, localDate.Format(domain.DateFormat))

	return &Response{
		CourtID: court.ID,
		Date:    localDate,
		Slots:   slots,
	}, nil
}
