package courts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campusrec/court-booking-service/internal/domain"
	blackoutRepo "github.com/campusrec/court-booking-service/internal/infra/storage/blackout"
	courtRepo "github.com/campusrec/court-booking-service/internal/infra/storage/court"
	"github.com/campusrec/court-booking-service/internal/service/courts/models"
)

// Service сервис для работы с конфигурацией кортов и блокировками
type Service struct {
	courtRepo    CourtRepository
	blackoutRepo BlackoutRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса кортов
func NewService(
	courtRepo CourtRepository,
	blackoutRepo BlackoutRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		courtRepo:    courtRepo,
		blackoutRepo: blackoutRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetConfig получает конфигурацию корта
// Публичный метод - доступен всем
func (s *Service) GetConfig(ctx context.Context, courtID int64) (*models.CourtConfigResponse, error) {
	s.logger.Info("GetConfig: fetching config for court=%d", courtID)

	court, err := s.courtRepo.GetByID(ctx, courtID)
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			s.logger.Warn("GetConfig: court id=%d not found", courtID)
			return nil, ErrCourtNotFound
		}
		s.logger.Error("GetConfig: repository error for court id=%d: %v", courtID, err)
		return nil, fmt.Errorf("%w: GetConfig - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetConfig: successfully fetched config for court=%d", courtID)
	return models.FromDomainCourt(court), nil
}

// UpdateConfig обновляет конфигурацию корта.
// Размер слота и лимит обновляются всегда; расписание - только если
// передано. Обновление выполняется в одной транзакции, чтобы размер
// слота и окна работы не разошлись между собой.
func (s *Service) UpdateConfig(ctx context.Context, courtID int64, req *models.UpdateConfigRequest) (*models.CourtConfigResponse, error) {
	s.logger.Info("UpdateConfig: updating config for court=%d, slotMinutes=%d, maxConcurrent=%d",
		courtID, req.SlotMinutes, req.MaxConcurrent)

	// 1. Валидируем входные данные
	if err := s.validateConfigData(req); err != nil {
		s.logger.Warn("UpdateConfig: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем существование корта
	if _, err := s.courtRepo.GetByID(ctx, courtID); err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			s.logger.Warn("UpdateConfig: court id=%d not found", courtID)
			return nil, ErrCourtNotFound
		}
		s.logger.Error("UpdateConfig: repository error for court id=%d: %v", courtID, err)
		return nil, fmt.Errorf("%w: UpdateConfig - repository error: %v", ErrInternal, err)
	}

	// 3. Конвертируем расписание, если оно передано
	var openHours map[time.Weekday][]domain.OpenWindow
	if req.OpenHours != nil {
		converted, err := req.OpenHours.ToDomainOpenHours()
		if err != nil {
			s.logger.Warn("UpdateConfig: invalid open hours for court=%d: %v", courtID, err)
			return nil, fmt.Errorf("%w: invalid open hours: %v", ErrInvalidInput, err)
		}
		openHours = converted
	}

	// 4. Обновляем конфигурацию и расписание атомарно
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.courtRepo.UpdateConfig(txCtx, courtID, req.SlotMinutes, req.MaxConcurrent); err != nil {
			if errors.Is(err, courtRepo.ErrCourtNotFound) {
				return ErrCourtNotFound
			}
			return fmt.Errorf("%w: UpdateConfig - repository error: %v", ErrInternal, err)
		}

		if openHours != nil {
			if err := s.courtRepo.ReplaceOpenHours(txCtx, courtID, openHours); err != nil {
				return fmt.Errorf("%w: UpdateConfig - repository error: %v", ErrInternal, err)
			}
		}

		return nil
	})
	if err != nil {
		s.logger.Error("UpdateConfig: transaction failed for court=%d: %v", courtID, err)
		return nil, err
	}

	// 5. Перечитываем актуальную конфигурацию
	court, err := s.courtRepo.GetByID(ctx, courtID)
	if err != nil {
		s.logger.Error("UpdateConfig: failed to reload court id=%d: %v", courtID, err)
		return nil, fmt.Errorf("%w: UpdateConfig - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateConfig: successfully updated config for court=%d", courtID)
	return models.FromDomainCourt(court), nil
}

// CreateBlackout создает блокировку корта
func (s *Service) CreateBlackout(ctx context.Context, courtID int64, req *models.CreateBlackoutRequest) (*models.BlackoutResponse, error) {
	s.logger.Info("CreateBlackout: creating blackout for court=%d, period=%s to %s",
		courtID, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))

	// 1. Валидируем интервал
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		s.logger.Warn("CreateBlackout: missing dates for court=%d", courtID)
		return nil, fmt.Errorf("%w: startDate and endDate are required", ErrInvalidInput)
	}
	if !req.StartDate.Before(req.EndDate) {
		s.logger.Warn("CreateBlackout: invalid interval for court=%d", courtID)
		return nil, fmt.Errorf("%w: startDate must be before endDate", ErrInvalidInput)
	}

	// 2. Проверяем существование корта
	if _, err := s.courtRepo.GetByID(ctx, courtID); err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			s.logger.Warn("CreateBlackout: court id=%d not found", courtID)
			return nil, ErrCourtNotFound
		}
		s.logger.Error("CreateBlackout: repository error for court id=%d: %v", courtID, err)
		return nil, fmt.Errorf("%w: CreateBlackout - repository error: %v", ErrInternal, err)
	}

	// 3. Создаем блокировку
	blackout := &domain.Blackout{
		CourtID:   courtID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    req.Reason,
	}

	created, err := s.blackoutRepo.Create(ctx, blackout)
	if err != nil {
		s.logger.Error("CreateBlackout: repository error for court id=%d: %v", courtID, err)
		return nil, fmt.Errorf("%w: CreateBlackout - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateBlackout: successfully created blackout id=%d for court=%d", created.ID, courtID)
	return models.FromDomainBlackout(created), nil
}

// ListBlackouts получает блокировки корта.
// Если указаны границы периода, возвращаются только пересекающие его.
func (s *Service) ListBlackouts(ctx context.Context, courtID int64, from, to *time.Time) (*models.BlackoutListResponse, error) {
	s.logger.Info("ListBlackouts: fetching blackouts for court=%d", courtID)

	// Проверяем существование корта
	if _, err := s.courtRepo.GetByID(ctx, courtID); err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			s.logger.Warn("ListBlackouts: court id=%d not found", courtID)
			return nil, ErrCourtNotFound
		}
		s.logger.Error("ListBlackouts: repository error for court id=%d: %v", courtID, err)
		return nil, fmt.Errorf("%w: ListBlackouts - repository error: %v", ErrInternal, err)
	}

	var blackouts []*domain.Blackout
	var err error
	if from != nil && to != nil {
		blackouts, err = s.blackoutRepo.GetByCourtAndRange(ctx, courtID, *from, *to)
	} else {
		blackouts, err = s.blackoutRepo.GetByCourt(ctx, courtID)
	}
	if err != nil {
		s.logger.Error("ListBlackouts: repository error for court id=%d: %v", courtID, err)
		return nil, fmt.Errorf("%w: ListBlackouts - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListBlackouts: successfully fetched %d blackouts for court=%d", len(blackouts), courtID)
	return models.FromDomainBlackoutList(blackouts), nil
}

// DeleteBlackout удаляет блокировку корта
func (s *Service) DeleteBlackout(ctx context.Context, blackoutID int64) error {
	s.logger.Info("DeleteBlackout: deleting blackout id=%d", blackoutID)

	if err := s.blackoutRepo.Delete(ctx, blackoutID); err != nil {
		if errors.Is(err, blackoutRepo.ErrBlackoutNotFound) {
			s.logger.Warn("DeleteBlackout: blackout id=%d not found", blackoutID)
			return ErrBlackoutNotFound
		}
		s.logger.Error("DeleteBlackout: repository error for blackout id=%d: %v", blackoutID, err)
		return fmt.Errorf("%w: DeleteBlackout - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteBlackout: successfully deleted blackout id=%d", blackoutID)
	return nil
}

// validateConfigData валидирует параметры конфигурации корта
func (s *Service) validateConfigData(req *models.UpdateConfigRequest) error {
	if req.SlotMinutes < domain.MinSlotMinutes || req.SlotMinutes > domain.MaxSlotMinutes {
		return fmt.Errorf("%w: slotMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotMinutes, domain.MaxSlotMinutes)
	}

	if req.MaxConcurrent < domain.MinMaxConcurrent || req.MaxConcurrent > domain.MaxMaxConcurrent {
		return fmt.Errorf("%w: maxConcurrent must be between %d and %d",
			ErrInvalidInput, domain.MinMaxConcurrent, domain.MaxMaxConcurrent)
	}

	if req.OpenHours != nil {
		openHours, err := req.OpenHours.ToDomainOpenHours()
		if err != nil {
			return fmt.Errorf("%w: invalid open hours: %v", ErrInvalidInput, err)
		}
		for weekday, windows := range openHours {
			for _, window := range windows {
				if !window.Open.IsBefore(window.Close) {
					return fmt.Errorf("%w: open time %s must be before close time %s on %s",
						ErrInvalidInput, window.Open, window.Close, weekday)
				}

				// Окно, открывающееся вне сетки слотов, породило бы слоты,
				// которые нельзя забронировать
				openMinute, err := window.Open.Minutes()
				if err != nil {
					return fmt.Errorf("%w: invalid open time %s on %s", ErrInvalidInput, window.Open, weekday)
				}
				if (openMinute%60)%req.SlotMinutes != 0 {
					return fmt.Errorf("%w: open time %s on %s is not aligned to the %d-minute slot grid",
						ErrInvalidInput, window.Open, weekday, req.SlotMinutes)
				}
			}
		}
	}

	return nil
}
