package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/TRP-ReservationService/internal/domain"
	bookingRepo "github.com/m04kA/TRP-ReservationService/internal/infra/storage/booking"
	"github.com/m04kA/TRP-ReservationService/internal/integrations/notifyservice"
	"github.com/m04kA/TRP-ReservationService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	notifier     Notifier
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		notifier:     notifier,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// Transition переводит бронирование в новый статус по таблице допустимых переходов
// Чтение, проверка и запись выполняются в одной транзакции с блокировкой строки,
// поэтому два параллельных перехода не могут пройти от одного исходного статуса.
// Каждый успешный переход дописывается в журнал booking_status_events
func (s *Service) Transition(ctx context.Context, bookingID int64, req *models.TransitionRequest) (*models.BookingResponse, error) {
	s.logger.Info("Transition: booking id=%d to status=%s by actor=%s", bookingID, req.Status, req.Actor)

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("Transition: invalid status=%s for booking id=%d", req.Status, bookingID)
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidStatus, req.Status)
	}

	var updated *domain.Booking

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Внутри транзакции GetByID выполняет SELECT ... FOR UPDATE
		booking, err := s.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Transition - repository error: %v", ErrInternal, err)
		}

		// Переход в текущий статус не входит в таблицу допустимых рёбер,
		// поэтому отклоняется наравне с остальными недопустимыми переходами
		if !booking.CanTransitionTo(newStatus) {
			s.logger.Warn("Transition: booking id=%d transition %s -> %s is not allowed",
				bookingID, booking.Status, newStatus)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, newStatus)
		}

		if err := s.bookingRepo.UpdateStatus(txCtx, bookingID, newStatus); err != nil {
			return fmt.Errorf("%w: Transition - failed to update status: %v", ErrInternal, err)
		}

		event := &domain.BookingStatusEvent{
			BookingID:  bookingID,
			FromStatus: booking.Status,
			ToStatus:   newStatus,
			Actor:      req.Actor,
			CreatedAt:  s.timeProvider.Now(),
		}
		if err := s.bookingRepo.AppendStatusEvent(txCtx, event); err != nil {
			return fmt.Errorf("%w: Transition - failed to append status event: %v", ErrInternal, err)
		}

		booking.Status = newStatus
		updated = booking
		return nil
	})

	if err != nil {
		if !errors.Is(err, ErrBookingNotFound) && !errors.Is(err, ErrInvalidTransition) {
			s.logger.Error("Transition: failed for booking id=%d: %v", bookingID, err)
		}
		return nil, err
	}

	s.notifier.DispatchAsync(&notifyservice.BookingEvent{
		Type:       notifyservice.EventBookingTransitioned,
		TenantID:   updated.TenantID,
		BookingID:  updated.ID,
		Status:     string(updated.Status),
		OccurredAt: s.timeProvider.Now(),
	})

	s.logger.Info("Transition: booking id=%d successfully moved to status=%s", bookingID, updated.Status)
	return models.FromDomainBooking(updated), nil
}
