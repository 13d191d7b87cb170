package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	allocateHoldHandler "github.com/m04kA/TRP-ReservationService/internal/api/handlers/allocate_hold"
	confirmHoldHandler "github.com/m04kA/TRP-ReservationService/internal/api/handlers/confirm_hold"
	getBookingHandler "github.com/m04kA/TRP-ReservationService/internal/api/handlers/get_booking"
	releaseHoldHandler "github.com/m04kA/TRP-ReservationService/internal/api/handlers/release_hold"
	transitionBookingHandler "github.com/m04kA/TRP-ReservationService/internal/api/handlers/transition_booking"
	"github.com/m04kA/TRP-ReservationService/internal/api/middleware"
	"github.com/m04kA/TRP-ReservationService/internal/config"
	bookingRepo "github.com/m04kA/TRP-ReservationService/internal/infra/storage/booking"
	holdRepo "github.com/m04kA/TRP-ReservationService/internal/infra/storage/hold"
	idempotencyRepo "github.com/m04kA/TRP-ReservationService/internal/infra/storage/idempotency"
	notifyClient "github.com/m04kA/TRP-ReservationService/internal/integrations/notifyservice"
	providerClient "github.com/m04kA/TRP-ReservationService/internal/integrations/resprovider"
	tenantClient "github.com/m04kA/TRP-ReservationService/internal/integrations/tenantservice"
	bookingsService "github.com/m04kA/TRP-ReservationService/internal/service/bookings"
	holdsService "github.com/m04kA/TRP-ReservationService/internal/service/holds"
	allocateHoldUC "github.com/m04kA/TRP-ReservationService/internal/usecase/allocate_hold"
	confirmHoldUC "github.com/m04kA/TRP-ReservationService/internal/usecase/confirm_hold"
	"github.com/m04kA/TRP-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/TRP-ReservationService/pkg/logger"
	"github.com/m04kA/TRP-ReservationService/pkg/metrics"
	"github.com/m04kA/TRP-ReservationService/pkg/simpletxmanager"
	"github.com/m04kA/TRP-ReservationService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting TRP-ReservationService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	tenants := tenantClient.NewClient(
		cfg.TenantService.URL,
		time.Duration(cfg.TenantService.Timeout)*time.Second,
		log,
	)
	provider := providerClient.NewClient(
		cfg.Provider.URL,
		cfg.Provider.APIKey,
		time.Duration(cfg.Provider.Timeout)*time.Second,
		log,
	)
	notifier := notifyClient.NewClient(
		cfg.NotifyService.URL,
		time.Duration(cfg.NotifyService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (TenantService=%s, Provider=%s timeout=%ds, NotifyService=%s)",
		cfg.TenantService.URL, cfg.Provider.URL, cfg.Provider.Timeout, cfg.NotifyService.URL)

	// Инициализируем репозитории (с метриками или без)
	var (
		holdRepository        *holdRepo.Repository
		bookingRepository     *bookingRepo.Repository
		idempotencyRepository *idempotencyRepo.Repository
	)

	// Интерфейс transaction manager (используется в usecases и сервисах)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		holdRepository = holdRepo.NewRepository(wrappedDB)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		idempotencyRepository = idempotencyRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		holdRepository = holdRepo.NewRepository(db)
		bookingRepository = bookingRepo.NewRepository(db)
		idempotencyRepository = idempotencyRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Типизированный nil не должен попасть в интерфейсы метрик,
	// поэтому присваиваем только при включённом сборе
	var (
		allocateMetrics allocateHoldUC.Metrics
		confirmMetrics  confirmHoldUC.Metrics
		holdsMetrics    holdsService.Metrics
	)
	if cfg.Metrics.Enabled {
		allocateMetrics = metricsCollector
		confirmMetrics = metricsCollector
		holdsMetrics = metricsCollector
	}

	// Инициализируем сервисы
	holdsSvc := holdsService.NewService(holdRepository, log, holdsMetrics)
	bookingsSvc := bookingsService.NewService(
		bookingRepository,
		notifier,
		txMgr,
		log,
	)

	// Инициализируем use cases
	allocateHoldUseCase := allocateHoldUC.NewUseCase(
		holdRepository,
		tenants,
		txMgr,
		time.Duration(cfg.Holds.LeaseDurationSeconds)*time.Second,
		log,
		allocateMetrics,
	)
	confirmHoldUseCase := confirmHoldUC.NewUseCase(
		holdRepository,
		bookingRepository,
		idempotencyRepository,
		provider,
		notifier,
		txMgr,
		log,
		confirmMetrics,
	)

	// Инициализируем handlers
	allocateHold := allocateHoldHandler.NewHandler(allocateHoldUseCase, log)
	confirmHold := confirmHoldHandler.NewHandler(confirmHoldUseCase, log)
	releaseHold := releaseHoldHandler.NewHandler(holdsSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingsSvc, log)
	transitionBooking := transitionBookingHandler.NewHandler(bookingsSvc, log)

	// Фоновая чистка истёкших холдов
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()

	if cfg.Holds.SweepEnabled {
		sweeper := holdsService.NewSweeper(
			holdRepository,
			time.Duration(cfg.Holds.SweepIntervalSeconds)*time.Second,
			log,
			holdsMetrics,
		)
		go sweeper.Run(sweepCtx)
	}

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (виджет бронирования, без аутентификации)
	// ============================================================

	// Удержание слота на время заполнения формы
	api.HandleFunc("/holds", allocateHold.Handle).Methods(http.MethodPost)

	// Подтверждение холда с данными гостя
	api.HandleFunc("/holds/{id}/confirm", confirmHold.Handle).Methods(http.MethodPost)

	// Досрочное освобождение холда
	api.HandleFunc("/holds/{id}", releaseHold.Handle).Methods(http.MethodDelete)

	// ============================================================
	// PROTECTED ROUTES (персонал ресторана, требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{id}", getBooking.Handle).Methods(http.MethodGet)

	// Перевод бронирования в новый статус
	protected.HandleFunc("/bookings/{id}/status", transitionBooking.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем фоновые процессы
	stopSweeper()
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
