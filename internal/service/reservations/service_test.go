package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusrec/court-booking-service/internal/domain"
	reservationRepo "github.com/campusrec/court-booking-service/internal/infra/storage/reservation"
	"github.com/campusrec/court-booking-service/internal/service/reservations/models"
)

type fakeRepo struct {
	byID      map[int64]*domain.Reservation
	cancelled []int64
	cancelFn  func(id int64) error
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	reservation, ok := f.byID[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	copied := *reservation
	return &copied, nil
}

func (f *fakeRepo) GetByUserID(_ context.Context, userID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	var result []*domain.Reservation
	for _, reservation := range f.byID {
		if reservation.UserID != userID {
			continue
		}
		if status != nil && reservation.Status != *status {
			continue
		}
		result = append(result, reservation)
	}
	return result, nil
}

func (f *fakeRepo) GetByCourtWithFilter(_ context.Context, filter domain.CourtReservationsFilter) ([]*domain.Reservation, error) {
	var result []*domain.Reservation
	for _, reservation := range f.byID {
		if reservation.CourtID != filter.CourtID {
			continue
		}
		if !filter.IncludeCancelled && filter.Status == nil && reservation.IsCancelled() {
			continue
		}
		if filter.Status != nil && reservation.Status != *filter.Status {
			continue
		}
		result = append(result, reservation)
	}
	return result, nil
}

func (f *fakeRepo) Cancel(_ context.Context, id int64) error {
	if f.cancelFn != nil {
		return f.cancelFn(id)
	}
	reservation, ok := f.byID[id]
	if !ok {
		return reservationRepo.ErrReservationNotFound
	}
	if reservation.Status != domain.StatusBooked {
		return reservationRepo.ErrAlreadyCancelled
	}
	now := time.Now()
	reservation.Status = domain.StatusCancelled
	reservation.CancelledAt = &now
	f.cancelled = append(f.cancelled, id)
	return nil
}

type fakePublisher struct {
	published []string
}

func (f *fakePublisher) Publish(_ context.Context, routingKey string, _ interface{}) error {
	f.published = append(f.published, routingKey)
	return nil
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time {
	return f.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newService(repo *fakeRepo, publisher *fakePublisher, now time.Time) *Service {
	svc := NewService(repo, publisher, 1, nopLogger{})
	svc.timeProvider = fixedTime{now: now}
	return svc
}

func activeReservation(id, userID int64, start time.Time) *domain.Reservation {
	return &domain.Reservation{
		ID:              id,
		CourtID:         7,
		UserID:          userID,
		RequesterName:   "Ana",
		StartDate:       start,
		EndDate:         start.Add(time.Hour),
		DurationMinutes: 60,
		Status:          domain.StatusBooked,
	}
}

func TestCancel_Success(t *testing.T) {
	now := time.Date(2025, 11, 3, 8, 0, 0, 0, time.UTC)
	repo := &fakeRepo{byID: map[int64]*domain.Reservation{
		1: activeReservation(1, 42, now.Add(2*time.Hour)),
	}}
	publisher := &fakePublisher{}
	svc := newService(repo, publisher, now)

	resp, err := svc.Cancel(context.Background(), 1, 42)

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.NotNil(t, resp.CancelledAt)
	assert.Equal(t, []int64{1}, repo.cancelled)
	assert.Equal(t, []string{"reservation.cancelled"}, publisher.published)
}

func TestCancel_IdempotentWhenAlreadyCancelled(t *testing.T) {
	now := time.Date(2025, 11, 3, 8, 0, 0, 0, time.UTC)
	cancelledAt := now.Add(-time.Hour)

	reservation := activeReservation(1, 42, now.Add(2*time.Hour))
	reservation.Status = domain.StatusCancelled
	reservation.CancelledAt = &cancelledAt

	repo := &fakeRepo{byID: map[int64]*domain.Reservation{1: reservation}}
	publisher := &fakePublisher{}
	svc := newService(repo, publisher, now)

	resp, err := svc.Cancel(context.Background(), 1, 42)

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	// Повторная отмена не трогает хранилище и не публикует событие
	assert.Empty(t, repo.cancelled)
	assert.Empty(t, publisher.published)
}

func TestCancel_ConcurrentCancelPublishesOnce(t *testing.T) {
	now := time.Date(2025, 11, 3, 8, 0, 0, 0, time.UTC)
	repo := &fakeRepo{byID: map[int64]*domain.Reservation{
		1: activeReservation(1, 42, now.Add(2*time.Hour)),
	}}
	publisher := &fakePublisher{}
	svc := newService(repo, publisher, now)

	// Параллельная отмена успевает между чтением и UPDATE: запись уже
	// переведена в cancelled, условный UPDATE не затрагивает строк
	repo.cancelFn = func(id int64) error {
		cancelledAt := now
		repo.byID[id].Status = domain.StatusCancelled
		repo.byID[id].CancelledAt = &cancelledAt
		return reservationRepo.ErrAlreadyCancelled
	}

	resp, err := svc.Cancel(context.Background(), 1, 42)

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.NotNil(t, resp.CancelledAt)
	// Событие публикует только победивший запрос
	assert.Empty(t, publisher.published)
}

func TestCancel_ForbiddenForNonOwner(t *testing.T) {
	now := time.Date(2025, 11, 3, 8, 0, 0, 0, time.UTC)
	repo := &fakeRepo{byID: map[int64]*domain.Reservation{
		1: activeReservation(1, 42, now.Add(2*time.Hour)),
	}}
	svc := newService(repo, &fakePublisher{}, now)

	_, err := svc.Cancel(context.Background(), 1, 13)

	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, repo.cancelled)
}

func TestCancel_RejectsEndedReservation(t *testing.T) {
	now := time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)
	// Слот 09:00-10:00 уже закончился
	repo := &fakeRepo{byID: map[int64]*domain.Reservation{
		1: activeReservation(1, 42, now.Add(-3*time.Hour)),
	}}
	svc := newService(repo, &fakePublisher{}, now)

	_, err := svc.Cancel(context.Background(), 1, 42)

	assert.ErrorIs(t, err, ErrAlreadyEnded)
	assert.Empty(t, repo.cancelled)
}

func TestCancel_AllowsStillRunningReservation(t *testing.T) {
	now := time.Date(2025, 11, 3, 9, 30, 0, 0, time.UTC)
	// Слот 09:00-10:00 еще идет
	repo := &fakeRepo{byID: map[int64]*domain.Reservation{
		1: activeReservation(1, 42, now.Add(-30*time.Minute)),
	}}
	svc := newService(repo, &fakePublisher{}, now)

	resp, err := svc.Cancel(context.Background(), 1, 42)

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
}

func TestCancel_NotFound(t *testing.T) {
	now := time.Date(2025, 11, 3, 8, 0, 0, 0, time.UTC)
	svc := newService(&fakeRepo{byID: map[int64]*domain.Reservation{}}, &fakePublisher{}, now)

	_, err := svc.Cancel(context.Background(), 99, 42)

	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestGetByID_OwnerOnly(t *testing.T) {
	now := time.Date(2025, 11, 3, 8, 0, 0, 0, time.UTC)
	repo := &fakeRepo{byID: map[int64]*domain.Reservation{
		1: activeReservation(1, 42, now.Add(2*time.Hour)),
	}}
	svc := newService(repo, &fakePublisher{}, now)

	resp, err := svc.GetByID(context.Background(), 1, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)

	_, err = svc.GetByID(context.Background(), 1, 13)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByID(context.Background(), 99, 42)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestGetUserReservations_InvalidStatus(t *testing.T) {
	now := time.Date(2025, 11, 3, 8, 0, 0, 0, time.UTC)
	svc := newService(&fakeRepo{byID: map[int64]*domain.Reservation{}}, &fakePublisher{}, now)

	badStatus := "pending"
	_, err := svc.GetUserReservations(context.Background(), &models.GetUserReservationsRequest{
		UserID: 42,
		Status: &badStatus,
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}
