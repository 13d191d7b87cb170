package holds

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/TRP-ReservationService/internal/domain"
	holdRepo "github.com/m04kA/TRP-ReservationService/internal/infra/storage/hold"
	"github.com/m04kA/TRP-ReservationService/internal/service/holds/models"
)

// Service сервис жизненного цикла холдов
type Service struct {
	holdRepo     HoldRepository
	timeProvider TimeProvider
	logger       Logger
	metrics      Metrics
}

// NewService создает новый экземпляр сервиса холдов
// metrics может быть nil, если сбор метрик выключен
func NewService(holdRepo HoldRepository, logger Logger, metrics Metrics) *Service {
	return &Service{
		holdRepo:     holdRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		metrics:      metrics,
	}
}

// Release досрочно освобождает холд
// Операция идемпотентна: повторный вызов и вызов на уже завершённом холде
// не являются ошибкой - слот в любом случае свободен
func (s *Service) Release(ctx context.Context, holdID string) (*models.ReleaseResponse, error) {
	s.logger.Info("Release: releasing hold id=%s", holdID)

	hold, err := s.holdRepo.GetByID(ctx, holdID)
	if err != nil {
		if errors.Is(err, holdRepo.ErrHoldNotFound) {
			s.logger.Warn("Release: hold id=%s not found", holdID)
			return nil, ErrHoldNotFound
		}
		s.logger.Error("Release: repository error for hold id=%s: %v", holdID, err)
		return nil, fmt.Errorf("%w: Release - repository error: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()

	// Просроченный активный холд фиксируем как expired, а не released:
	// lease истёк раньше, чем гость передумал
	if hold.Status == domain.HoldStatusActive && hold.IsLapsed(now) {
		if err := s.holdRepo.ExpireByID(ctx, holdID, now); err != nil {
			s.logger.Warn("Release: failed to persist lazy expiry for hold id=%s: %v", holdID, err)
		} else if s.metrics != nil {
			s.metrics.AddHoldsExpired(1)
		}
		hold.Status = domain.HoldStatusExpired
		s.logger.Info("Release: hold id=%s already lapsed, recorded as expired", holdID)
		return models.FromDomainHold(hold, false), nil
	}

	if hold.Status != domain.HoldStatusActive {
		s.logger.Info("Release: hold id=%s already %s, nothing to do", holdID, hold.Status)
		return models.FromDomainHold(hold, false), nil
	}

	// Условный UPDATE: 0 затронутых строк значит, что параллельная операция
	// успела завершить холд первой - для release это не ошибка
	affected, err := s.holdRepo.Release(ctx, holdID)
	if err != nil {
		s.logger.Error("Release: repository error for hold id=%s: %v", holdID, err)
		return nil, fmt.Errorf("%w: Release - repository error: %v", ErrInternal, err)
	}

	if affected == 0 {
		s.logger.Info("Release: hold id=%s was finalized concurrently", holdID)
		refreshed, err := s.holdRepo.GetByID(ctx, holdID)
		if err != nil {
			s.logger.Error("Release: failed to refresh hold id=%s: %v", holdID, err)
			return nil, fmt.Errorf("%w: Release - repository error: %v", ErrInternal, err)
		}
		return models.FromDomainHold(refreshed, false), nil
	}

	hold.Status = domain.HoldStatusReleased
	s.logger.Info("Release: successfully released hold id=%s", holdID)
	return models.FromDomainHold(hold, true), nil
}
