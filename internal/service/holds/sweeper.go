package holds

import (
	"context"
	"time"
)

// Sweeper фоновый процесс активной очистки просроченных холдов
// Lazy expiry гарантирует корректность и без него: сметание лишь ограничивает
// время жизни мусорных строк и держит метрику активных холдов актуальной
type Sweeper struct {
	holdRepo     HoldRepository
	timeProvider TimeProvider
	interval     time.Duration
	logger       Logger
	metrics      Metrics
}

// NewSweeper создает новый экземпляр sweeper-а
// metrics может быть nil, если сбор метрик выключен
func NewSweeper(holdRepo HoldRepository, interval time.Duration, logger Logger, metrics Metrics) *Sweeper {
	return &Sweeper{
		holdRepo:     holdRepo,
		timeProvider: &RealTimeProvider{},
		interval:     interval,
		logger:       logger,
		metrics:      metrics,
	}
}

// Run запускает цикл сметания до отмены контекста
// Предназначен для запуска в отдельной горутине из main
func (s *Sweeper) Run(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()

	s.logger.Info("Sweeper: started, interval=%s", s.interval)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Sweeper: stopped")
			return
		case <-t.C:
			s.sweepOnce(ctx)
		}
	}
}

// sweepOnce выполняет один проход: помечает просроченные холды и
// обновляет gauge живых холдов. Ошибки не фатальны - следующий тик повторит
func (s *Sweeper) sweepOnce(ctx context.Context) {
	now := s.timeProvider.Now()

	expired, err := s.holdRepo.SweepExpired(ctx, now)
	if err != nil {
		s.logger.Error("Sweeper: sweep failed: %v", err)
		return
	}
	if expired > 0 {
		s.logger.Info("Sweeper: marked %d holds as expired", expired)
		if s.metrics != nil {
			s.metrics.AddHoldsExpired(expired)
		}
	}

	live, err := s.holdRepo.CountLive(ctx, now)
	if err != nil {
		s.logger.Error("Sweeper: failed to count live holds: %v", err)
		return
	}
	if s.metrics != nil {
		s.metrics.SetHoldsActive(live)
	}
}
