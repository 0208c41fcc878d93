package courts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusrec/court-booking-service/internal/domain"
	blackoutRepo "github.com/campusrec/court-booking-service/internal/infra/storage/blackout"
	courtRepo "github.com/campusrec/court-booking-service/internal/infra/storage/court"
	"github.com/campusrec/court-booking-service/internal/service/courts/models"
)

type fakeCourtRepo struct {
	court         *domain.Court
	updatedSlot   int
	updatedMax    int
	replacedHours map[time.Weekday][]domain.OpenWindow
}

func (f *fakeCourtRepo) GetByID(_ context.Context, id int64) (*domain.Court, error) {
	if f.court == nil || f.court.ID != id {
		return nil, courtRepo.ErrCourtNotFound
	}
	copied := *f.court
	return &copied, nil
}

func (f *fakeCourtRepo) UpdateConfig(_ context.Context, _ int64, slotMinutes, maxConcurrent int) error {
	f.updatedSlot = slotMinutes
	f.updatedMax = maxConcurrent
	f.court.SlotMinutes = slotMinutes
	f.court.MaxConcurrent = maxConcurrent
	return nil
}

func (f *fakeCourtRepo) ReplaceOpenHours(_ context.Context, _ int64, openHours map[time.Weekday][]domain.OpenWindow) error {
	f.replacedHours = openHours
	f.court.OpenHours = openHours
	return nil
}

type fakeBlackoutRepo struct {
	created *domain.Blackout
	deleted []int64
}

func (f *fakeBlackoutRepo) Create(_ context.Context, blackout *domain.Blackout) (*domain.Blackout, error) {
	created := *blackout
	created.ID = 55
	f.created = &created
	return &created, nil
}

func (f *fakeBlackoutRepo) GetByCourt(_ context.Context, _ int64) ([]*domain.Blackout, error) {
	if f.created == nil {
		return nil, nil
	}
	return []*domain.Blackout{f.created}, nil
}

func (f *fakeBlackoutRepo) GetByCourtAndRange(_ context.Context, _ int64, _, _ time.Time) ([]*domain.Blackout, error) {
	return f.GetByCourt(nil, 0)
}

func (f *fakeBlackoutRepo) Delete(_ context.Context, id int64) error {
	if f.created == nil || f.created.ID != id {
		return blackoutRepo.ErrBlackoutNotFound
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newFixture() (*Service, *fakeCourtRepo, *fakeBlackoutRepo) {
	courts := &fakeCourtRepo{court: &domain.Court{
		ID:            7,
		Name:          "Quadra 1",
		SlotMinutes:   60,
		MaxConcurrent: 1,
		OpenHours:     map[time.Weekday][]domain.OpenWindow{},
	}}
	blackouts := &fakeBlackoutRepo{}
	svc := NewService(courts, blackouts, fakeTxManager{}, nopLogger{})
	return svc, courts, blackouts
}

func TestUpdateConfig_Success(t *testing.T) {
	svc, repo, _ := newFixture()

	resp, err := svc.UpdateConfig(context.Background(), 7, &models.UpdateConfigRequest{
		SlotMinutes:   30,
		MaxConcurrent: 2,
		OpenHours: &models.WeekSchedule{
			Monday: []models.OpenWindow{{Open: "07:00", Close: "23:00"}},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 30, resp.SlotMinutes)
	assert.Equal(t, 2, resp.MaxConcurrent)
	assert.Equal(t, 30, repo.updatedSlot)
	require.Len(t, repo.replacedHours[time.Monday], 1)
	assert.Equal(t, []models.OpenWindow{{Open: "07:00", Close: "23:00"}}, resp.OpenHours.Monday)
}

func TestUpdateConfig_Validation(t *testing.T) {
	svc, _, _ := newFixture()

	tests := []struct {
		name string
		req  *models.UpdateConfigRequest
	}{
		{
			name: "slot below minimum",
			req:  &models.UpdateConfigRequest{SlotMinutes: 1, MaxConcurrent: 1},
		},
		{
			name: "slot above maximum",
			req:  &models.UpdateConfigRequest{SlotMinutes: 600, MaxConcurrent: 1},
		},
		{
			name: "zero max concurrent",
			req:  &models.UpdateConfigRequest{SlotMinutes: 60, MaxConcurrent: 0},
		},
		{
			name: "open not before close",
			req: &models.UpdateConfigRequest{
				SlotMinutes:   60,
				MaxConcurrent: 1,
				OpenHours: &models.WeekSchedule{
					Friday: []models.OpenWindow{{Open: "22:00", Close: "08:00"}},
				},
			},
		},
		{
			// Окно 08:30-12:30 при часовых слотах породило бы слоты,
			// которые валидация бронирования отклоняет
			name: "window open off slot grid",
			req: &models.UpdateConfigRequest{
				SlotMinutes:   60,
				MaxConcurrent: 1,
				OpenHours: &models.WeekSchedule{
					Monday: []models.OpenWindow{{Open: "08:30", Close: "12:30"}},
				},
			},
		},
		{
			name: "malformed window time",
			req: &models.UpdateConfigRequest{
				SlotMinutes:   60,
				MaxConcurrent: 1,
				OpenHours: &models.WeekSchedule{
					Friday: []models.OpenWindow{{Open: "8am", Close: "22:00"}},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateConfig(context.Background(), 7, tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestUpdateConfig_CourtNotFound(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.UpdateConfig(context.Background(), 99, &models.UpdateConfigRequest{
		SlotMinutes:   60,
		MaxConcurrent: 1,
	})

	assert.ErrorIs(t, err, ErrCourtNotFound)
}

func TestCreateBlackout(t *testing.T) {
	svc, _, repo := newFixture()

	start := time.Date(2025, 11, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(4 * time.Hour)

	resp, err := svc.CreateBlackout(context.Background(), 7, &models.CreateBlackoutRequest{
		StartDate: start,
		EndDate:   end,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(55), resp.ID)
	assert.True(t, repo.created.StartDate.Equal(start))

	// Инвертированный интервал отклоняется
	_, err = svc.CreateBlackout(context.Background(), 7, &models.CreateBlackoutRequest{
		StartDate: end,
		EndDate:   start,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeleteBlackout(t *testing.T) {
	svc, _, repo := newFixture()

	start := time.Date(2025, 11, 10, 9, 0, 0, 0, time.UTC)
	_, err := svc.CreateBlackout(context.Background(), 7, &models.CreateBlackoutRequest{
		StartDate: start,
		EndDate:   start.Add(time.Hour),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBlackout(context.Background(), 55))
	assert.Equal(t, []int64{55}, repo.deleted)

	assert.ErrorIs(t, svc.DeleteBlackout(context.Background(), 99), ErrBlackoutNotFound)
}
