package court

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/campusrec/court-booking-service/internal/domain"
	"github.com/campusrec/court-booking-service/pkg/dbmetrics"
	"github.com/campusrec/court-booking-service/pkg/psqlbuilder"
)

// Repository репозиторий для работы с конфигурацией кортов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория кортов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает корт вместе с настроенными окнами работы
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Court, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"timezone",
		"slot_minutes",
		"max_concurrent",
		"created_at",
		"updated_at",
	).
		From("courts").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var court domain.Court
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&court.ID,
		&court.Name,
		&court.Timezone,
		&court.SlotMinutes,
		&court.MaxConcurrent,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrCourtNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan court: %v", ErrScanRow, err)
	}

	court.CreatedAt = createdAt.Time
	court.UpdatedAt = updatedAt.Time

	openHours, err := r.getOpenHours(ctx, executor, id)
	if err != nil {
		return nil, err
	}
	court.OpenHours = openHours

	return &court, nil
}

// UpdateConfig обновляет настройки бронирования корта.
// Окна работы заменяются целиком; вызывать внутри транзакции,
// чтобы конфигурация не наблюдалась наполовину обновлённой.
func (r *Repository) UpdateConfig(ctx context.Context, id int64, slotMinutes, maxConcurrent int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("courts").
		Set("slot_minutes", slotMinutes).
		Set("max_concurrent", maxConcurrent).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateConfig - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateConfig - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateConfig - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrCourtNotFound
	}

	return nil
}

// ReplaceOpenHours заменяет все окна работы корта на переданные
func (r *Repository) ReplaceOpenHours(ctx context.Context, courtID int64, openHours map[time.Weekday][]domain.OpenWindow) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("court_open_hours").
		Where(squirrel.Eq{"court_id": courtID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceOpenHours - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceOpenHours - execute delete: %v", ErrExecQuery, err)
	}

	if len(openHours) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("court_open_hours").
		Columns("court_id", "weekday", "open_time", "close_time")

	// Обходим дни недели в фиксированном порядке для детерминированных вставок
	for day := time.Sunday; day <= time.Saturday; day++ {
		for _, window := range openHours[day] {
			insertBuilder = insertBuilder.Values(courtID, int(day), window.Open, window.Close)
		}
	}

	insertQuery, insertArgs, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceOpenHours - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceOpenHours - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// getOpenHours читает окна работы корта, сгруппированные по дням недели
func (r *Repository) getOpenHours(ctx context.Context, executor DBExecutor, courtID int64) (map[time.Weekday][]domain.OpenWindow, error) {
	query, args, err := psqlbuilder.Select("weekday", "open_time", "close_time").
		From("court_open_hours").
		Where(squirrel.Eq{"court_id": courtID}).
		OrderBy("weekday ASC, open_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getOpenHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getOpenHours - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	openHours := make(map[time.Weekday][]domain.OpenWindow)

	for rows.Next() {
		var weekday int
		var window domain.OpenWindow

		if err := rows.Scan(&weekday, &window.Open, &window.Close); err != nil {
			return nil, fmt.Errorf("%w: getOpenHours - scan row: %v", ErrScanRow, err)
		}

		day := time.Weekday(weekday)
		openHours[day] = append(openHours[day], window)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getOpenHours - rows error: %v", ErrScanRow, err)
	}

	return openHours, nil
}
