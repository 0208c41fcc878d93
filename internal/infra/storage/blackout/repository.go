package blackout

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

// Переиспользуем интерфейс из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

var blackoutColumns = []string{
	"id",
	"court_id",
	"start_date",
	"end_date",
	"reason",
	"created_at",
}

// Repository репозиторий для работы с блокировками кортов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория блокировок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую блокировку корта
func (r *Repository) Create(ctx context.Context, blackout *domain.Blackout) (*domain.Blackout, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("blackouts").
		Columns("court_id", "start_date", "end_date", "reason").
		Values(blackout.CourtID, blackout.StartDate, blackout.EndDate, blackout.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&blackout.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	blackout.CreatedAt = createdAt.Time

	return blackout, nil
}

// GetByCourt получает все блокировки корта
func (r *Repository) GetByCourt(ctx context.Context, courtID int64) ([]*domain.Blackout, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(blackoutColumns...).
		From("blackouts").
		Where(squirrel.Eq{"court_id": courtID}).
		OrderBy("start_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByCourt - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCourt - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBlackouts(rows)
}

// GetByCourtAndRange получает блокировки корта, пересекающие интервал
// [from, to) в полуоткрытой семантике. Используется фильтром блокировок
// с границами локального календарного дня кандидата.
func (r *Repository) GetByCourtAndRange(ctx context.Context, courtID int64, from, to time.Time) ([]*domain.Blackout, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(blackoutColumns...).
		From("blackouts").
		Where(squirrel.Eq{"court_id": courtID}).
		Where(squirrel.Lt{"start_date": to}).
		Where(squirrel.Gt{"end_date": from}).
		OrderBy("start_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByCourtAndRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCourtAndRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBlackouts(rows)
}

// Delete удаляет блокировку
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("blackouts").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBlackoutNotFound
	}

	return nil
}

// scanBlackouts сканирует результаты запроса в слайс блокировок
func (r *Repository) scanBlackouts(rows *sql.Rows) ([]*domain.Blackout, error) {
	blackouts := make([]*domain.Blackout, 0)

	for rows.Next() {
		var blackout domain.Blackout
		var createdAt sql.NullTime

		err := rows.Scan(
			&blackout.ID,
			&blackout.CourtID,
			&blackout.StartDate,
			&blackout.EndDate,
			&blackout.Reason,
			&createdAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanBlackouts - scan row: %v", ErrScanRow, err)
		}

		blackout.CreatedAt = createdAt.Time
		blackouts = append(blackouts, &blackout)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBlackouts - rows error: %v", ErrScanRow, err)
	}

	return blackouts, nil
}
