package holds

import (
	"context"
	"time"

	"github.com/m04kA/TRP-ReservationService/internal/domain"
)

// HoldRepository интерфейс репозитория холдов
type HoldRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Hold, error)
	ExpireByID(ctx context.Context, id string, now time.Time) error
	Release(ctx context.Context, id string) (int64, error)
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
	CountLive(ctx context.Context, now time.Time) (int64, error)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реализация TimeProvider на системных часах
type RealTimeProvider struct{}

func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics интерфейс метрик жизненного цикла холдов
// Может быть nil, если сбор метрик выключен
type Metrics interface {
	AddHoldsExpired(n int64)
	SetHoldsActive(n int64)
}
