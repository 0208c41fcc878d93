package create_reservation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusrec/court-booking-service/internal/domain"
	courtRepo "github.com/campusrec/court-booking-service/internal/infra/storage/court"
	"github.com/campusrec/court-booking-service/pkg/ptr"
)

type fakeReservationRepo struct {
	createFn      func(ctx context.Context, r *domain.Reservation) (*domain.Reservation, error)
	overlappingFn func(ctx context.Context, courtID int64, start, end time.Time) ([]*domain.Reservation, error)
}

func (f *fakeReservationRepo) Create(ctx context.Context, r *domain.Reservation) (*domain.Reservation, error) {
	return f.createFn(ctx, r)
}

func (f *fakeReservationRepo) GetActiveOverlapping(ctx context.Context, courtID int64, start, end time.Time) ([]*domain.Reservation, error) {
	return f.overlappingFn(ctx, courtID, start, end)
}

type fakeCourtRepo struct {
	getByIDFn func(ctx context.Context, id int64) (*domain.Court, error)
}

func (f *fakeCourtRepo) GetByID(ctx context.Context, id int64) (*domain.Court, error) {
	return f.getByIDFn(ctx, id)
}

type fakeBlackoutRepo struct {
	getByRangeFn func(ctx context.Context, courtID int64, from, to time.Time) ([]*domain.Blackout, error)
}

func (f *fakeBlackoutRepo) GetByCourtAndRange(ctx context.Context, courtID int64, from, to time.Time) ([]*domain.Blackout, error) {
	return f.getByRangeFn(ctx, courtID, from, to)
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
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

type fixture struct {
	uc        *UseCase
	publisher *fakePublisher
	created   *domain.Reservation
}

// testCourt корт в Сан-Паулу: слоты 30 минут, одно бронирование
// одновременно, режим работы 08:00-22:00 (окно по умолчанию)
func testCourt() *domain.Court {
	return &domain.Court{
		ID:            7,
		Name:          "Quadra 1",
		Timezone:      ptr.Ptr("America/Sao_Paulo"),
		SlotMinutes:   30,
		MaxConcurrent: 1,
		OpenHours:     map[time.Weekday][]domain.OpenWindow{},
	}
}

func newFixture(t *testing.T, court *domain.Court, now time.Time, existing []*domain.Reservation, blackouts []*domain.Blackout) *fixture {
	t.Helper()

	f := &fixture{publisher: &fakePublisher{}}

	reservations := &fakeReservationRepo{
		createFn: func(_ context.Context, r *domain.Reservation) (*domain.Reservation, error) {
			created := *r
			created.ID = 101
			created.CreatedAt = now
			created.UpdatedAt = now
			f.created = &created
			return &created, nil
		},
		overlappingFn: func(_ context.Context, _ int64, start, end time.Time) ([]*domain.Reservation, error) {
			var overlapping []*domain.Reservation
			for _, r := range existing {
				if r.Overlaps(start, end) {
					overlapping = append(overlapping, r)
				}
			}
			return overlapping, nil
		},
	}

	courts := &fakeCourtRepo{
		getByIDFn: func(_ context.Context, id int64) (*domain.Court, error) {
			if court == nil || id != court.ID {
				return nil, courtRepo.ErrCourtNotFound
			}
			return court, nil
		},
	}

	blackoutStore := &fakeBlackoutRepo{
		getByRangeFn: func(_ context.Context, _ int64, _, _ time.Time) ([]*domain.Blackout, error) {
			return blackouts, nil
		},
	}

	f.uc = NewUseCase(
		reservations,
		courts,
		blackoutStore,
		fakeTxManager{},
		f.publisher,
		Policy{DefaultTimezone: "UTC", CreateGraceMinutes: 1},
		nopLogger{},
	)
	f.uc.timeProvider = fixedTime{now: now}

	return f
}

func saoPaulo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	return loc
}

func TestExecute_BooksFreeSlot(t *testing.T) {
	loc := saoPaulo(t)
	now := time.Date(2025, 11, 3, 8, 0, 0, 0, loc)
	f := newFixture(t, testCourt(), now, nil, nil)

	start := time.Date(2025, 11, 3, 9, 0, 0, 0, loc)
	resp, err := f.uc.Execute(context.Background(), &Request{
		UserID:          42,
		CourtID:         7,
		Start:           start,
		DurationMinutes: 30,
		RequesterName:   "Ana",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(101), resp.ID)
	assert.Equal(t, string(domain.StatusBooked), resp.Status)
	assert.True(t, resp.StartDate.Equal(start))
	assert.True(t, resp.EndDate.Equal(start.Add(30*time.Minute)))
	assert.Equal(t, []string{"reservation.created"}, f.publisher.published)
}

func TestExecute_RejectsExactDuplicate(t *testing.T) {
	loc := saoPaulo(t)
	now := time.Date(2025, 11, 3, 8, 0, 0, 0, loc)
	start := time.Date(2025, 11, 3, 9, 0, 0, 0, loc)

	existing := []*domain.Reservation{{
		ID:        1,
		CourtID:   7,
		UserID:    13,
		StartDate: start,
		EndDate:   start.Add(30 * time.Minute),
		Status:    domain.StatusBooked,
	}}
	f := newFixture(t, testCourt(), now, existing, nil)

	_, err := f.uc.Execute(context.Background(), &Request{
		UserID:          42,
		CourtID:         7,
		Start:           start,
		DurationMinutes: 30,
		RequesterName:   "Ana",
	})

	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Empty(t, f.publisher.published)
}

func TestExecute_RejectsPartialOverlap(t *testing.T) {
	loc := saoPaulo(t)
	now := time.Date(2025, 11, 3, 8, 0, 0, 0, loc)

	// Занято 09:00-10:00; кандидат 09:30-10:00 пересекается
	booked := time.Date(2025, 11, 3, 9, 0, 0, 0, loc)
	existing := []*domain.Reservation{{
		ID:        1,
		CourtID:   7,
		UserID:    13,
		StartDate: booked,
		EndDate:   booked.Add(time.Hour),
		Status:    domain.StatusBooked,
	}}
	f := newFixture(t, testCourt(), now, existing, nil)

	_, err := f.uc.Execute(context.Background(), &Request{
		UserID:          42,
		CourtID:         7,
		Start:           time.Date(2025, 11, 3, 9, 30, 0, 0, loc),
		DurationMinutes: 30,
		RequesterName:   "Ana",
	})
	assert.ErrorIs(t, err, ErrSlotTaken)

	// Кандидат 10:00-10:30 граничит, но не пересекается
	resp, err := f.uc.Execute(context.Background(), &Request{
		UserID:          42,
		CourtID:         7,
		Start:           booked.Add(time.Hour),
		DurationMinutes: 30,
		RequesterName:   "Ana",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(101), resp.ID)
}

func TestExecute_RejectsOutsideOperatingHours(t *testing.T) {
	loc := saoPaulo(t)
	now := time.Date(2025, 11, 3, 8, 0, 0, 0, loc)
	f := newFixture(t, testCourt(), now, nil, nil)

	// 23:30 за пределами окна 08:00-22:00
	_, err := f.uc.Execute(context.Background(), &Request{
		UserID:          42,
		CourtID:         7,
		Start:           time.Date(2025, 11, 3, 23, 30, 0, 0, loc),
		DurationMinutes: 30,
		RequesterName:   "Ana",
	})
	assert.ErrorIs(t, err, ErrOutsideOpenHours)

	// Слот, заканчивающийся ровно в закрытие, допустим
	resp, err := f.uc.Execute(context.Background(), &Request{
		UserID:          42,
		CourtID:         7,
		Start:           time.Date(2025, 11, 3, 21, 30, 0, 0, loc),
		DurationMinutes: 30,
		RequesterName:   "Ana",
	})
	require.NoError(t, err)
	assert.NotNil(t, resp)
}

func TestExecute_RejectsUnalignedStart(t *testing.T) {
	loc := saoPaulo(t)
	now := time.Date(2025, 11, 3, 8, 0, 0, 0, loc)
	f := newFixture(t, testCourt(), now, nil, nil)

	// 09:15 не лежит на сетке 30 минут
	_, err := f.uc.Execute(context.Background(), &Request{
		UserID:          42,
		CourtID:         7,
		Start:           time.Date(2025, 11, 3, 9, 15, 0, 0, loc),
		DurationMinutes: 30,
		RequesterName:   "Ana",
	})
	assert.ErrorIs(t, err, ErrUnalignedStart)
}

func TestExecute_RejectsNonMultipleDuration(t *testing.T) {
	loc := saoPaulo(t)
	now := time.Date(2025, 11, 3, 8, 0, 0, 0, loc)
	f := newFixture(t, testCourt(), now, nil, nil)

	_, err := f.uc.Execute(context.Background(), &Request{
		UserID:          42,
		CourtID:         7,
		Start:           time.Date(2025, 11, 3, 9, 0, 0, 0, loc),
		DurationMinutes: 45,
		RequesterName:   "Ana",
	})
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestExecute_RejectsPastSlot(t *testing.T) {
	loc := saoPaulo(t)
	now := time.Date(2025, 11, 3, 12, 0, 0, 0, loc)
	f := newFixture(t, testCourt(), now, nil, nil)

	_, err := f.uc.Execute(context.Background(), &Request{
		UserID:          42,
		CourtID:         7,
		Start:           time.Date(2025, 11, 3, 9, 0, 0, 0, loc),
		DurationMinutes: 30,
		RequesterName:   "Ana",
	})
	assert.ErrorIs(t, err, ErrSlotInPast)
}

func TestExecute_GraceAllowsSlotStillRunning(t *testing.T) {
	loc := saoPaulo(t)
	// Слот 09:00-09:30; в 09:10 конец слота еще впереди с учетом grace
	now := time.Date(2025, 11, 3, 9, 10, 0, 0, loc)
	f := newFixture(t, testCourt(), now, nil, nil)

	resp, err := f.uc.Execute(context.Background(), &Request{
		UserID:          42,
		CourtID:         7,
		Start:           time.Date(2025, 11, 3, 9, 0, 0, 0, loc),
		DurationMinutes: 30,
		RequesterName:   "Ana",
	})
	require.NoError(t, err)
	assert.NotNil(t, resp)
}

func TestExecute_RejectsBlackout(t *testing.T) {
	loc := saoPaulo(t)
	now := time.Date(2025, 11, 3, 8, 0, 0, 0, loc)

	blackouts := []*domain.Blackout{{
		ID:        5,
		CourtID:   7,
		StartDate: time.Date(2025, 11, 3, 9, 0, 0, 0, loc),
		EndDate:   time.Date(2025, 11, 3, 12, 0, 0, 0, loc),
		Reason:    ptr.Ptr("manutenção"),
	}}
	f := newFixture(t, testCourt(), now, nil, blackouts)

	_, err := f.uc.Execute(context.Background(), &Request{
		UserID:          42,
		CourtID:         7,
		Start:           time.Date(2025, 11, 3, 10, 0, 0, 0, loc),
		DurationMinutes: 30,
		RequesterName:   "Ana",
	})
	assert.ErrorIs(t, err, ErrBlackout)
}

func TestExecute_SharedCourtCapacity(t *testing.T) {
	loc := saoPaulo(t)
	now := time.Date(2025, 11, 3, 8, 0, 0, 0, loc)
	start := time.Date(2025, 11, 3, 9, 0, 0, 0, loc)

	court := testCourt()
	court.MaxConcurrent = 2

	existing := []*domain.Reservation{{
		ID:        1,
		CourtID:   7,
		UserID:    13,
		StartDate: start,
		EndDate:   start.Add(30 * time.Minute),
		Status:    domain.StatusBooked,
	}}

	// Второе бронирование на тот же слот проходит
	f := newFixture(t, court, now, existing, nil)
	resp, err := f.uc.Execute(context.Background(), &Request{
		UserID:          42,
		CourtID:         7,
		Start:           start,
		DurationMinutes: 30,
		RequesterName:   "Ana",
	})
	require.NoError(t, err)
	assert.NotNil(t, resp)

	// Третье упирается в лимит
	existing = append(existing, &domain.Reservation{
		ID:        2,
		CourtID:   7,
		UserID:    42,
		StartDate: start,
		EndDate:   start.Add(30 * time.Minute),
		Status:    domain.StatusBooked,
	})
	f = newFixture(t, court, now, existing, nil)
	_, err = f.uc.Execute(context.Background(), &Request{
		UserID:          77,
		CourtID:         7,
		Start:           start,
		DurationMinutes: 30,
		RequesterName:   "Bia",
	})
	assert.ErrorIs(t, err, ErrNoCapacity)
}

func TestExecute_CourtNotFound(t *testing.T) {
	loc := saoPaulo(t)
	now := time.Date(2025, 11, 3, 8, 0, 0, 0, loc)
	f := newFixture(t, testCourt(), now, nil, nil)

	_, err := f.uc.Execute(context.Background(), &Request{
		UserID:          42,
		CourtID:         999,
		Start:           time.Date(2025, 11, 3, 9, 0, 0, 0, loc),
		DurationMinutes: 30,
		RequesterName:   "Ana",
	})
	assert.ErrorIs(t, err, ErrCourtNotFound)
}

func TestExecute_RejectsInvalidInput(t *testing.T) {
	loc := saoPaulo(t)
	now := time.Date(2025, 11, 3, 8, 0, 0, 0, loc)
	f := newFixture(t, testCourt(), now, nil, nil)

	tests := []struct {
		name string
		req  *Request
	}{
		{
			name: "zero user",
			req:  &Request{CourtID: 7, Start: now.Add(time.Hour), DurationMinutes: 30, RequesterName: "Ana"},
		},
		{
			name: "zero court",
			req:  &Request{UserID: 42, Start: now.Add(time.Hour), DurationMinutes: 30, RequesterName: "Ana"},
		},
		{
			name: "zero start",
			req:  &Request{UserID: 42, CourtID: 7, DurationMinutes: 30, RequesterName: "Ana"},
		},
		{
			name: "non-positive duration",
			req:  &Request{UserID: 42, CourtID: 7, Start: now.Add(time.Hour), RequesterName: "Ana"},
		},
		{
			name: "missing requester name",
			req:  &Request{UserID: 42, CourtID: 7, Start: now.Add(time.Hour), DurationMinutes: 30},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

// Клиент передает момент в своей зоне; выравнивание и окна считаются
// в зоне корта
func TestExecute_NormalizesToCourtZone(t *testing.T) {
	loc := saoPaulo(t)
	now := time.Date(2025, 11, 3, 8, 0, 0, 0, loc)
	f := newFixture(t, testCourt(), now, nil, nil)

	// 12:00 UTC = 09:00 в Сан-Паулу (UTC-3)
	resp, err := f.uc.Execute(context.Background(), &Request{
		UserID:          42,
		CourtID:         7,
		Start:           time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC),
		DurationMinutes: 30,
		RequesterName:   "Ana",
	})
	require.NoError(t, err)
	assert.NotNil(t, resp)

	// 01:00 UTC = 22:00 предыдущего дня в Сан-Паулу - вне окна работы
	_, err = f.uc.Execute(context.Background(), &Request{
		UserID:          42,
		CourtID:         7,
		Start:           time.Date(2025, 11, 4, 1, 0, 0, 0, time.UTC),
		DurationMinutes: 30,
		RequesterName:   "Ana",
	})
	assert.ErrorIs(t, err, ErrOutsideOpenHours)
}
