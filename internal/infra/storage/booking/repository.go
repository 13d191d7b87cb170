package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/TRP-ReservationService/internal/domain"
	"github.com/m04kA/TRP-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/TRP-ReservationService/pkg/psqlbuilder"
)

// Код ошибки PostgreSQL для нарушения уникального ограничения
const pgUniqueViolation = "23505"

// bookingColumns общий список колонок таблицы bookings
var bookingColumns = []string{
	"id",
	"tenant_id",
	"hold_id",
	"guest_name",
	"guest_contact",
	"party_size",
	"booking_time",
	"status",
	"confirmation_code",
	"source",
	"provider_reservation_id",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция (через context.Value), использует её.
// Confirm-поток всегда вызывает Create в одной транзакции с переводом холда
// в confirmed - падение между двумя операциями не оставит полусостояния
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"tenant_id",
			"hold_id",
			"guest_name",
			"guest_contact",
			"party_size",
			"booking_time",
			"status",
			"confirmation_code",
			"source",
			"provider_reservation_id",
		).
		Values(
			b.TenantID,
			b.HoldID,
			b.GuestName,
			b.GuestContact,
			b.PartySize,
			b.BookingTime,
			b.Status,
			b.ConfirmationCode,
			b.Source,
			b.ProviderReservationID,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return nil, ErrDuplicateHold
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return b, nil
}

// GetByID получает бронирование по ID
// Если используется транзакция, строка блокируется для последующего обновления статуса
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanBooking(executor.QueryRowContext(ctx, query, args...))
}

// GetByHoldID получает бронирование, созданное по указанному холду
// Первый шаг проверки идемпотентности confirm: если бронь уже есть,
// она возвращается без повторного выполнения побочных эффектов
func (r *Repository) GetByHoldID(ctx context.Context, holdID string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"hold_id": holdID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByHoldID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanBooking(executor.QueryRowContext(ctx, query, args...))
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// AppendStatusEvent добавляет запись аудита перехода статуса
// Таблица append-only: записи никогда не изменяются и не удаляются
func (r *Repository) AppendStatusEvent(ctx context.Context, event *domain.BookingStatusEvent) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_status_events").
		Columns(
			"booking_id",
			"from_status",
			"to_status",
			"actor",
		).
		Values(
			event.BookingID,
			event.FromStatus,
			event.ToStatus,
			event.Actor,
		).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AppendStatusEvent - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: AppendStatusEvent - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// scanBooking сканирует строку результата в доменную модель бронирования
func (r *Repository) scanBooking(row *sql.Row) (*domain.Booking, error) {
	var b domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&b.ID,
		&b.TenantID,
		&b.HoldID,
		&b.GuestName,
		&b.GuestContact,
		&b.PartySize,
		&b.BookingTime,
		&b.Status,
		&b.ConfirmationCode,
		&b.Source,
		&b.ProviderReservationID,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scanBooking - scan booking: %v", ErrScanRow, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}
