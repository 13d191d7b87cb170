package hold

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/TRP-ReservationService/internal/domain"
	"github.com/m04kA/TRP-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/TRP-ReservationService/pkg/psqlbuilder"
)

// Код ошибки PostgreSQL для нарушения уникального ограничения
const pgUniqueViolation = "23505"

// Repository репозиторий для работы с холдами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория холдов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый активный холд
// Вставка и проверка занятости слота - одна атомарная операция: проигравший
// конкурентную вставку получает нарушение уникального индекса и ErrSlotTaken.
// Приложение не делает check-then-act - индекс единственный арбитр гонки
func (r *Repository) Create(ctx context.Context, h *domain.Hold) (*domain.Hold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("holds").
		Columns(
			"id",
			"tenant_id",
			"slot_key",
			"party_size",
			"session_id",
			"status",
			"expires_at",
		).
		Values(
			h.ID,
			h.TenantID,
			h.SlotKey.String(),
			h.PartySize,
			h.SessionID,
			h.Status,
			h.ExpiresAt,
		).
		Suffix("RETURNING created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	h.CreatedAt = createdAt.Time

	return h, nil
}

// GetByID получает холд по ID
// Если используется транзакция, строка блокируется (FOR UPDATE), чтобы
// confirm и release/expire не могли писать в один холд одновременно
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Hold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"tenant_id",
		"slot_key",
		"party_size",
		"session_id",
		"status",
		"created_at",
		"expires_at",
	).
		From("holds").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanHold(executor.QueryRowContext(ctx, query, args...))
}

// ExpireLapsed переводит в expired просроченный активный холд на указанном слоте
// Вызывается аллокатором перед вставкой: так lazy expiry освобождает слот
// без синхронного фонового reaper. Идемпотентно - 0 затронутых строк не ошибка
func (r *Repository) ExpireLapsed(ctx context.Context, key domain.SlotKey, now time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("holds").
		Set("status", domain.HoldStatusExpired).
		Where(squirrel.Eq{
			"tenant_id": key.TenantID,
			"slot_key":  key.String(),
			"status":    domain.HoldStatusActive,
		}).
		Where(squirrel.LtOrEq{"expires_at": now}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: ExpireLapsed - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: ExpireLapsed - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: ExpireLapsed - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// ExpireByID переводит просроченный активный холд в expired по ID
// Используется читателями для опортунистической фиксации lazy expiry.
// Идемпотентно: повторный вызов для уже expired холда это no-op
func (r *Repository) ExpireByID(ctx context.Context, id string, now time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("holds").
		Set("status", domain.HoldStatusExpired).
		Where(squirrel.Eq{
			"id":     id,
			"status": domain.HoldStatusActive,
		}).
		Where(squirrel.LtOrEq{"expires_at": now}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ExpireByID - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ExpireByID - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// Confirm переводит живой активный холд в confirmed
// Условие status='active' AND expires_at > now в самом UPDATE гарантирует,
// что просроченный или уже терминальный холд подтвердить нельзя
func (r *Repository) Confirm(ctx context.Context, id string, now time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("holds").
		Set("status", domain.HoldStatusConfirmed).
		Where(squirrel.Eq{
			"id":     id,
			"status": domain.HoldStatusActive,
		}).
		Where(squirrel.Gt{"expires_at": now}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Confirm - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Confirm - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Confirm - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrHoldNotActive
	}

	return nil
}

// Release переводит активный холд в released (гость отменил оформление)
// Возвращает количество затронутых строк: 0 означает, что холд уже был
// в терминальном статусе - вызывающая сторона трактует это как no-op
func (r *Repository) Release(ctx context.Context, id string) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("holds").
		Set("status", domain.HoldStatusReleased).
		Where(squirrel.Eq{
			"id":     id,
			"status": domain.HoldStatusActive,
		}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: Release - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: Release - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: Release - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// SweepExpired массово переводит просроченные активные холды в expired
// Чисто гигиеническая операция фоновой чистки: корректность обеспечивает
// lazy expiry, чистка лишь уменьшает количество "мусорных" активных строк
func (r *Repository) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("holds").
		Set("status", domain.HoldStatusExpired).
		Where(squirrel.Eq{"status": domain.HoldStatusActive}).
		Where(squirrel.LtOrEq{"expires_at": now}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: SweepExpired - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: SweepExpired - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: SweepExpired - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// CountLive возвращает количество живых (непросроченных) активных холдов
// Используется фоновой чисткой для выставления gauge-метрики
func (r *Repository) CountLive(ctx context.Context, now time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("holds").
		Where(squirrel.Eq{"status": domain.HoldStatusActive}).
		Where(squirrel.Gt{"expires_at": now}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountLive - build select query: %v", ErrBuildQuery, err)
	}

	var count int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountLive - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// scanHold сканирует строку результата в доменную модель холда
func (r *Repository) scanHold(row *sql.Row) (*domain.Hold, error) {
	var h domain.Hold
	var slotKeyStr string
	var createdAt sql.NullTime

	err := row.Scan(
		&h.ID,
		&h.TenantID,
		&slotKeyStr,
		&h.PartySize,
		&h.SessionID,
		&h.Status,
		&createdAt,
		&h.ExpiresAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrHoldNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scanHold - scan hold: %v", ErrScanRow, err)
	}

	key, err := domain.ParseSlotKey(slotKeyStr)
	if err != nil {
		return nil, fmt.Errorf("%w: scanHold - parse slot key: %v", ErrScanRow, err)
	}

	h.SlotKey = key
	h.CreatedAt = createdAt.Time

	return &h, nil
}
