package confirm_hold

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/TRP-ReservationService/internal/domain"
	bookingRepo "github.com/m04kA/TRP-ReservationService/internal/infra/storage/booking"
	holdRepo "github.com/m04kA/TRP-ReservationService/internal/infra/storage/hold"
	idemRepo "github.com/m04kA/TRP-ReservationService/internal/infra/storage/idempotency"
	"github.com/m04kA/TRP-ReservationService/internal/integrations/notifyservice"
	"github.com/m04kA/TRP-ReservationService/internal/integrations/resprovider"
)

// errRaceLost внутренняя ошибка: транзакция подтверждения проиграла гонку
// параллельному confirm. Наружу не выходит - результат победителя
// перечитывается и возвращается как свой
var errRaceLost = errors.New("confirm_hold: lost confirmation race")

// UseCase координатор подтверждения холда
// Превращает живой холд в бронирование: сначала primary-путь через внешний
// сервис, при его деградации - fallback-путь с локальной pending-бронью.
// Гость никогда не видит сбой только из-за отказа внешнего сервиса
type UseCase struct {
	holdRepo     HoldRepository
	bookingRepo  BookingRepository
	idemRepo     IdempotencyRepository
	provider     ProviderClient
	notifier     Notifier
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
	metrics      Metrics
}

// NewUseCase создает новый экземпляр use case
// metrics может быть nil, если сбор метрик выключен
func NewUseCase(
	holdRepository HoldRepository,
	bookingRepository BookingRepository,
	idempotencyRepository IdempotencyRepository,
	provider ProviderClient,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
	metrics Metrics,
) *UseCase {
	return &UseCase{
		holdRepo:     holdRepository,
		bookingRepo:  bookingRepository,
		idemRepo:     idempotencyRepository,
		provider:     provider,
		notifier:     notifier,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		metrics:      metrics,
	}
}

// Execute выполняет use case подтверждения холда
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmHold: hold=%s, token=%s", req.HoldID, req.IdempotencyToken)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ConfirmHold: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем холд (холды никогда не удаляются, только меняют статус)
	hold, err := uc.holdRepo.GetByID(ctx, req.HoldID)
	if err != nil {
		if errors.Is(err, holdRepo.ErrHoldNotFound) {
			uc.logger.Warn("ConfirmHold: hold id=%s not found", req.HoldID)
			return nil, ErrHoldNotFound
		}
		uc.logger.Error("ConfirmHold: failed to get hold id=%s: %v", req.HoldID, err)
		return nil, fmt.Errorf("%w: failed to get hold: %v", ErrInternal, err)
	}

	// 4. Проверка идемпотентности: если бронь по этому холду или токену
	// уже создана, возвращаем её без повторного выполнения побочных эффектов
	if existing, found, err := uc.findExisting(ctx, hold.TenantID, req); err != nil {
		return nil, err
	} else if found {
		uc.logger.Info("ConfirmHold: idempotent retry, returning booking id=%d for hold=%s",
			existing.ID, req.HoldID)
		return fromBooking(existing), nil
	}

	// 5. Валидация холда: подтвердить можно только живой активный холд
	if err := uc.checkHoldLive(ctx, hold, now); err != nil {
		return nil, err
	}

	// 6. Primary-путь: внешний сервис резервирования с жёстким таймаутом.
	// Результат вызова определяет ветку, но не судьбу запроса гостя
	booking := uc.buildBooking(ctx, hold, req, now)

	// 7. Атомарно: перевод холда в confirmed + вставка брони.
	// Падение между этими операциями невозможно - обе в одной транзакции
	created, err := uc.persist(ctx, hold, req, booking, now)
	if err != nil {
		if errors.Is(err, errRaceLost) {
			// Параллельный confirm успел первым - возвращаем его результат
			return uc.resolveRace(ctx, hold.TenantID, req)
		}
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.IncConfirm(string(created.Source))
	}

	uc.notifier.DispatchAsync(&notifyservice.BookingEvent{
		Type:             notifyservice.EventBookingCreated,
		TenantID:         created.TenantID,
		BookingID:        created.ID,
		Status:           string(created.Status),
		Source:           string(created.Source),
		ConfirmationCode: created.ConfirmationCode,
		GuestContact:     created.GuestContact,
		OccurredAt:       now,
	})

	uc.logger.Info("ConfirmHold: created booking id=%d, status=%s, source=%s, code=%s",
		created.ID, created.Status, created.Source, created.ConfirmationCode)

	return fromBooking(created), nil
}

// findExisting ищет ранее созданную бронь по холду или токену идемпотентности
func (uc *UseCase) findExisting(ctx context.Context, tenantID int64, req *Request) (*domain.Booking, bool, error) {
	existing, err := uc.bookingRepo.GetByHoldID(ctx, req.HoldID)
	if err == nil {
		return existing, true, nil
	}
	if !errors.Is(err, bookingRepo.ErrBookingNotFound) {
		uc.logger.Error("ConfirmHold: failed to check existing booking for hold=%s: %v", req.HoldID, err)
		return nil, false, fmt.Errorf("%w: failed to check existing booking: %v", ErrInternal, err)
	}

	rec, err := uc.idemRepo.Get(ctx, tenantID, req.IdempotencyToken)
	if err != nil {
		if errors.Is(err, idemRepo.ErrTokenNotFound) {
			return nil, false, nil
		}
		uc.logger.Error("ConfirmHold: failed to check idempotency token: %v", err)
		return nil, false, fmt.Errorf("%w: failed to check idempotency token: %v", ErrInternal, err)
	}

	if rec.BookingID == nil {
		return nil, false, nil
	}

	// Токен выигрывает даже при повторе с другим hold_id:
	// повтор логической операции возвращает её первый результат
	b, err := uc.bookingRepo.GetByID(ctx, *rec.BookingID)
	if err != nil {
		uc.logger.Error("ConfirmHold: failed to load booking id=%d for token: %v", *rec.BookingID, err)
		return nil, false, fmt.Errorf("%w: failed to load booking for token: %v", ErrInternal, err)
	}

	return b, true, nil
}

// checkHoldLive проверяет, что холд активен и его lease не истёк
// Просроченный активный холд опортунистически переводится в expired (lazy expiry)
func (uc *UseCase) checkHoldLive(ctx context.Context, hold *domain.Hold, now time.Time) error {
	if hold.IsLapsed(now) {
		// Фиксируем наблюдение - best effort, сбой записи не меняет ответ
		if err := uc.holdRepo.ExpireByID(ctx, hold.ID, now); err != nil {
			uc.logger.Warn("ConfirmHold: failed to persist lazy expiry for hold=%s: %v", hold.ID, err)
		} else if uc.metrics != nil {
			uc.metrics.AddHoldsExpired(1)
		}
		uc.logger.Warn("ConfirmHold: hold id=%s lease lapsed at %s", hold.ID, hold.ExpiresAt.Format(time.RFC3339))
		return ErrHoldExpired
	}

	switch hold.Status {
	case domain.HoldStatusActive:
		return nil
	case domain.HoldStatusExpired, domain.HoldStatusReleased:
		uc.logger.Warn("ConfirmHold: hold id=%s is %s", hold.ID, hold.Status)
		return ErrHoldExpired
	default:
		// confirmed-холд без брони невозможен: перевод и вставка атомарны.
		// Если бронь есть, её вернула проверка идемпотентности выше
		uc.logger.Error("ConfirmHold: hold id=%s is confirmed but no booking found", hold.ID)
		return fmt.Errorf("%w: confirmed hold without booking", ErrInternal)
	}
}

// buildBooking выполняет primary-путь и собирает бронь для вставки
// Таймаут, ошибка или неполный ответ внешнего сервиса не пробрасываются
// гостю - включается fallback-ветка с локальной pending-бронью
func (uc *UseCase) buildBooking(ctx context.Context, hold *domain.Hold, req *Request, now time.Time) *domain.Booking {
	booking := &domain.Booking{
		TenantID:     hold.TenantID,
		HoldID:       &hold.ID,
		GuestName:    req.GuestName,
		GuestContact: req.GuestContact,
		PartySize:    hold.PartySize,
		BookingTime:  hold.SlotKey.TimeBucket,
	}

	start := time.Now()
	reservation, err := uc.provider.CreateReservation(ctx, &resprovider.CreateReservationRequest{
		TenantID:     hold.TenantID,
		Slot:         hold.SlotKey.TimeBucket,
		PartySize:    hold.PartySize,
		GuestName:    req.GuestName,
		GuestContact: req.GuestContact,
	})
	if uc.metrics != nil {
		uc.metrics.ObserveProviderCall(time.Since(start).Seconds())
	}

	if err != nil {
		uc.logger.Warn("ConfirmHold: provider degraded for hold=%s, falling back to local booking: %v",
			hold.ID, err)
		booking.Status = domain.StatusPending
		booking.Source = domain.SourceFallback
		booking.ConfirmationCode = newConfirmationCode(domain.ConfirmationCodePrefixFallback)
		return booking
	}

	booking.Status = domain.StatusConfirmed
	booking.Source = domain.SourcePrimary
	booking.ConfirmationCode = newConfirmationCode(domain.ConfirmationCodePrefixPrimary)
	booking.ProviderReservationID = &reservation.ReservationID
	return booking
}

// persist атомарно переводит холд в confirmed и вставляет бронь
func (uc *UseCase) persist(ctx context.Context, hold *domain.Hold, req *Request, booking *domain.Booking, now time.Time) (*domain.Booking, error) {
	var created *domain.Booking

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Условный UPDATE: проигрыш гонки (не-active или просроченный холд)
		// виден как 0 затронутых строк
		if err := uc.holdRepo.Confirm(txCtx, hold.ID, now); err != nil {
			if errors.Is(err, holdRepo.ErrHoldNotActive) {
				return errRaceLost
			}
			uc.logger.Error("ConfirmHold: failed to confirm hold id=%s: %v", hold.ID, err)
			return fmt.Errorf("%w: failed to confirm hold: %v", ErrInternal, err)
		}

		// Уникальный индекс на hold_id - финальная защита, даже если
		// проверка идемпотентности проиграла гонку
		b, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrDuplicateHold) {
				return errRaceLost
			}
			uc.logger.Error("ConfirmHold: failed to create booking for hold=%s: %v", hold.ID, err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// Запись токена в той же транзакции: повтор с тем же токеном
		// увидит бронь целиком или не увидит вовсе
		if err := uc.idemRepo.Record(txCtx, hold.TenantID, req.IdempotencyToken, hold.ID, b.ID); err != nil {
			if errors.Is(err, idemRepo.ErrTokenExists) {
				return errRaceLost
			}
			uc.logger.Error("ConfirmHold: failed to record idempotency token: %v", err)
			return fmt.Errorf("%w: failed to record idempotency token: %v", ErrInternal, err)
		}

		created = b
		return nil
	})

	if err != nil {
		return nil, err
	}

	return created, nil
}

// resolveRace перечитывает результат победителя гонки подтверждения
func (uc *UseCase) resolveRace(ctx context.Context, tenantID int64, req *Request) (*Response, error) {
	existing, found, err := uc.findExisting(ctx, tenantID, req)
	if err != nil {
		return nil, err
	}
	if found {
		uc.logger.Info("ConfirmHold: race resolved, returning booking id=%d for hold=%s",
			existing.ID, req.HoldID)
		return fromBooking(existing), nil
	}

	// Брони нет и холд больше не активен - значит, холд истёк или был
	// отпущен между проверкой и транзакцией
	uc.logger.Warn("ConfirmHold: hold id=%s became unconfirmable during transaction", req.HoldID)
	return nil, ErrHoldExpired
}
