package idempotency

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/TRP-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/TRP-ReservationService/pkg/psqlbuilder"
)

// Код ошибки PostgreSQL для нарушения уникального ограничения
const pgUniqueViolation = "23505"

// Record запись токена идемпотентности
// Токен связывает повторные вызовы confirm с уже вычисленным результатом:
// повтор возвращает сохранённый booking_id вместо повторных побочных эффектов
type Record struct {
	ID        int64
	TenantID  int64
	Token     string
	HoldID    string
	BookingID *int64
	CreatedAt time.Time
}

// Repository репозиторий токенов идемпотентности
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория токенов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get получает запись по токену в рамках арендатора
func (r *Repository) Get(ctx context.Context, tenantID int64, token string) (*Record, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"tenant_id",
		"token",
		"hold_id",
		"booking_id",
		"created_at",
	).
		From("idempotency_keys").
		Where(squirrel.Eq{
			"tenant_id": tenantID,
			"token":     token,
		}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var rec Record
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rec.ID,
		&rec.TenantID,
		&rec.Token,
		&rec.HoldID,
		&rec.BookingID,
		&createdAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan record: %v", ErrScanRow, err)
	}

	rec.CreatedAt = createdAt.Time

	return &rec, nil
}

// Record записывает токен вместе с результатом операции
// Уникальное ограничение (tenant_id, token) разрешает гонку двух одновременных
// confirm с одним токеном: проигравший получает ErrTokenExists и перечитывает
func (r *Repository) Record(ctx context.Context, tenantID int64, token, holdID string, bookingID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("idempotency_keys").
		Columns(
			"tenant_id",
			"token",
			"hold_id",
			"booking_id",
		).
		Values(
			tenantID,
			token,
			holdID,
			bookingID,
		).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Record - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return ErrTokenExists
		}
		return fmt.Errorf("%w: Record - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}
