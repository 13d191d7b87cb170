package confirm_hold

import (
	"context"
	"time"

	"github.com/m04kA/TRP-ReservationService/internal/domain"
	"github.com/m04kA/TRP-ReservationService/internal/infra/storage/idempotency"
	"github.com/m04kA/TRP-ReservationService/internal/integrations/notifyservice"
	"github.com/m04kA/TRP-ReservationService/internal/integrations/resprovider"
)

// HoldRepository интерфейс репозитория холдов
type HoldRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Hold, error)
	ExpireByID(ctx context.Context, id string, now time.Time) error
	Confirm(ctx context.Context, id string, now time.Time) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByHoldID(ctx context.Context, holdID string) (*domain.Booking, error)
}

// IdempotencyRepository интерфейс репозитория токенов идемпотентности
type IdempotencyRepository interface {
	Get(ctx context.Context, tenantID int64, token string) (*idempotency.Record, error)
	Record(ctx context.Context, tenantID int64, token, holdID string, bookingID int64) error
}

// ProviderClient интерфейс клиента внешнего сервиса резервирования
type ProviderClient interface {
	CreateReservation(ctx context.Context, req *resprovider.CreateReservationRequest) (*resprovider.Reservation, error)
}

// Notifier интерфейс диспетчера уведомлений (fire-and-forget)
type Notifier interface {
	DispatchAsync(event *notifyservice.BookingEvent)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics интерфейс бизнес-метрик (может быть nil, если метрики выключены)
type Metrics interface {
	IncConfirm(source string)
	ObserveProviderCall(seconds float64)
	AddHoldsExpired(n int64)
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
