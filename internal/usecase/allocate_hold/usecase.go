package allocate_hold

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/TRP-ReservationService/internal/domain"
	holdRepo "github.com/m04kA/TRP-ReservationService/internal/infra/storage/hold"
	tenantClient "github.com/m04kA/TRP-ReservationService/internal/integrations/tenantservice"
)

// UseCase use case аллокации холда на слот
type UseCase struct {
	holdRepo      HoldRepository
	tenantClient  TenantServiceClient
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
	metrics       Metrics
	leaseDuration time.Duration
}

// NewUseCase создает новый экземпляр use case
// metrics может быть nil, если сбор метрик выключен
func NewUseCase(
	holdRepo HoldRepository,
	tenantClient TenantServiceClient,
	txManager TransactionManager,
	leaseDuration time.Duration,
	logger Logger,
	metrics Metrics,
) *UseCase {
	if leaseDuration < domain.MinLeaseDuration || leaseDuration > domain.MaxLeaseDuration {
		leaseDuration = domain.DefaultLeaseDuration
	}

	return &UseCase{
		holdRepo:      holdRepo,
		tenantClient:  tenantClient,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
		metrics:       metrics,
		leaseDuration: leaseDuration,
	}
}

// Execute выполняет use case аллокации холда
// Кто выиграл конкуренцию за слот решает уникальный индекс хранилища:
// приложение не делает кооперативных блокировок и retry-with-backoff,
// проигравший один раз получает ErrSlotConflict
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("AllocateHold: tenant=%d, time=%s, party=%d, session=%s",
		req.TenantID, req.BookingTime.Format(time.RFC3339), req.PartySize, req.SessionID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("AllocateHold: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем арендатора с конфигурацией посадки
	tenant, err := uc.tenantClient.GetTenant(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, tenantClient.ErrTenantNotFound) {
			uc.logger.Warn("AllocateHold: tenant id=%d not found", req.TenantID)
			return nil, ErrTenantNotFound
		}
		uc.logger.Error("AllocateHold: failed to get tenant id=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}

	// 4. Валидация против конфигурации арендатора
	if err := validateAgainstTenant(req, tenant, now); err != nil {
		uc.logger.Warn("AllocateHold: tenant validation failed: %v", err)
		return nil, err
	}

	// 5. Выводим канонический ключ слота: запросы на "один и тот же
	// эффективный слот" детерминированно сталкиваются на этом ключе
	key := domain.ResolveSlotKey(req.TenantID, req.BookingTime, seatingDuration(tenant))

	hold := &domain.Hold{
		ID:        uuid.NewString(),
		TenantID:  req.TenantID,
		SlotKey:   key,
		PartySize: req.PartySize,
		SessionID: req.SessionID,
		Status:    domain.HoldStatusActive,
		ExpiresAt: now.Add(uc.leaseDuration),
	}

	// 6. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Lazy expiry: просроченный активный холд на этом слоте
		// переводим в expired и считаем слот свободным - синхронный
		// reaper для корректности не нужен
		expired, err := uc.holdRepo.ExpireLapsed(txCtx, key, now)
		if err != nil {
			uc.logger.Error("AllocateHold: failed to expire lapsed hold: %v", err)
			return fmt.Errorf("%w: failed to expire lapsed hold: %v", ErrInternal, err)
		}
		if expired > 0 {
			uc.logger.Info("AllocateHold: flipped %d lapsed hold(s) on slot %s", expired, key)
			if uc.metrics != nil {
				uc.metrics.AddHoldsExpired(expired)
			}
		}

		// 6.2. Атомарная вставка: существование живого холда и вставка
		// нового проверяются одним INSERT против частичного уникального индекса
		if _, err := uc.holdRepo.Create(txCtx, hold); err != nil {
			if errors.Is(err, holdRepo.ErrSlotTaken) {
				return ErrSlotConflict
			}
			uc.logger.Error("AllocateHold: failed to create hold: %v", err)
			return fmt.Errorf("%w: failed to create hold: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, ErrSlotConflict) {
			uc.logger.Info("AllocateHold: slot %s is contended, returning conflict", key)
			if uc.metrics != nil {
				uc.metrics.IncHoldConflict()
			}
		}
		return nil, err
	}

	uc.logger.Info("AllocateHold: created hold id=%s on slot %s, expires_at=%s",
		hold.ID, key, hold.ExpiresAt.Format(time.RFC3339))

	return &Response{
		HoldID:    hold.ID,
		TenantID:  hold.TenantID,
		SlotKey:   hold.SlotKey.String(),
		PartySize: hold.PartySize,
		SessionID: hold.SessionID,
		CreatedAt: hold.CreatedAt,
		ExpiresAt: hold.ExpiresAt,
	}, nil
}
