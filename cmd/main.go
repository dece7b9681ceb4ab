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
	"github.com/redis/go-redis/v9"

	cancelReservationHandler "github.com/m04kA/RST-ReservationService/internal/api/handlers/cancel_reservation"
	createReservationHandler "github.com/m04kA/RST-ReservationService/internal/api/handlers/create_reservation"
	createSlotsHandler "github.com/m04kA/RST-ReservationService/internal/api/handlers/create_slots"
	deactivateSlotHandler "github.com/m04kA/RST-ReservationService/internal/api/handlers/deactivate_slot"
	deleteSlotHandler "github.com/m04kA/RST-ReservationService/internal/api/handlers/delete_slot"
	getDashboardSummaryHandler "github.com/m04kA/RST-ReservationService/internal/api/handlers/get_dashboard_summary"
	getTableAvailabilityHandler "github.com/m04kA/RST-ReservationService/internal/api/handlers/get_table_availability"
	listSlotsHandler "github.com/m04kA/RST-ReservationService/internal/api/handlers/list_slots"
	moveReservationHandler "github.com/m04kA/RST-ReservationService/internal/api/handlers/move_reservation"
	updateReservationHandler "github.com/m04kA/RST-ReservationService/internal/api/handlers/update_reservation"
	upsertSlotOverrideHandler "github.com/m04kA/RST-ReservationService/internal/api/handlers/upsert_slot_override"
	"github.com/m04kA/RST-ReservationService/internal/api/middleware"
	"github.com/m04kA/RST-ReservationService/internal/config"
	"github.com/m04kA/RST-ReservationService/internal/events"
	dashboardCache "github.com/m04kA/RST-ReservationService/internal/infra/cache/dashboard"
	"github.com/m04kA/RST-ReservationService/internal/infra/realtime"
	reservationRepo "github.com/m04kA/RST-ReservationService/internal/infra/storage/reservation"
	slotRepo "github.com/m04kA/RST-ReservationService/internal/infra/storage/slot"
	tableRepo "github.com/m04kA/RST-ReservationService/internal/infra/storage/table"
	notifyServiceClient "github.com/m04kA/RST-ReservationService/internal/integrations/notifyservice"
	dashboardService "github.com/m04kA/RST-ReservationService/internal/service/dashboard"
	slotsService "github.com/m04kA/RST-ReservationService/internal/service/slots"
	cancelReservationUC "github.com/m04kA/RST-ReservationService/internal/usecase/cancel_reservation"
	createReservationUC "github.com/m04kA/RST-ReservationService/internal/usecase/create_reservation"
	getTableAvailabilityUC "github.com/m04kA/RST-ReservationService/internal/usecase/get_table_availability"
	moveReservationUC "github.com/m04kA/RST-ReservationService/internal/usecase/move_reservation"
	updateReservationUC "github.com/m04kA/RST-ReservationService/internal/usecase/update_reservation"
	"github.com/m04kA/RST-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/RST-ReservationService/pkg/logger"
	"github.com/m04kA/RST-ReservationService/pkg/metrics"
	"github.com/m04kA/RST-ReservationService/pkg/simpletxmanager"
	"github.com/m04kA/RST-ReservationService/pkg/txmanager"
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

	log.Info("Starting RST-ReservationService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Подключаемся к Redis: кеш сводок и pub/sub изменений
	// Недоступный Redis не мешает запуску, кеш и publisher переживают его отказ
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis unavailable at startup (addr=%s): %v", cfg.Redis.Address, err)
	} else {
		log.Info("Successfully connected to Redis (addr=%s, db=%d)", cfg.Redis.Address, cfg.Redis.DB)
	}
	cancelPing()

	// Инициализируем клиента сервиса уведомлений
	notifyClient := notifyServiceClient.NewClient(
		cfg.NotifyService.URL,
		time.Duration(cfg.NotifyService.Timeout)*time.Second,
		log,
	)
	log.Info("Notify service client initialized (url=%s, timeout=%ds)",
		cfg.NotifyService.URL, cfg.NotifyService.Timeout)

	// Инициализируем репозитории и транзакционный менеджер (с метриками или без)
	var (
		reservationRepository *reservationRepo.Repository
		slotRepository        *slotRepo.Repository
		tableRepository       *tableRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		slotRepository = slotRepo.NewRepository(wrappedDB)
		tableRepository = tableRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		reservationRepository = reservationRepo.NewRepository(db)
		slotRepository = slotRepo.NewRepository(db)
		tableRepository = tableRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Кеш дневных сводок и publisher изменений
	summaryCache := dashboardCache.NewStore(rdb, time.Duration(cfg.Cache.TTLMinutes)*time.Minute, log)
	publisher := realtime.NewPublisher(rdb, log)

	// Диспетчер фоновых задач: уведомления и realtime-события
	dispatcher := events.NewDispatcher(cfg.Dispatcher.QueueSize, log)
	dispatcher.Start()
	log.Info("Side-effect dispatcher started (queue_size=%d)", cfg.Dispatcher.QueueSize)

	// Инициализируем сервисы
	slotsSvc := slotsService.NewService(
		slotRepository,
		summaryCache,
		publisher,
		dispatcher,
		log,
	)
	dashboardSvc := dashboardService.NewService(
		reservationRepository,
		tableRepository,
		summaryCache,
		log,
	)

	// Инициализируем use cases
	getTableAvailabilityUseCase := getTableAvailabilityUC.NewUseCase(
		reservationRepository,
		slotRepository,
		tableRepository,
		log,
	)
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		slotRepository,
		tableRepository,
		txMgr,
		summaryCache,
		publisher,
		notifyClient,
		dispatcher,
		log,
	)
	updateReservationUseCase := updateReservationUC.NewUseCase(
		reservationRepository,
		tableRepository,
		txMgr,
		summaryCache,
		publisher,
		dispatcher,
		log,
	)
	moveReservationUseCase := moveReservationUC.NewUseCase(
		reservationRepository,
		slotRepository,
		tableRepository,
		txMgr,
		summaryCache,
		publisher,
		notifyClient,
		dispatcher,
		log,
	)
	cancelReservationUseCase := cancelReservationUC.NewUseCase(
		reservationRepository,
		txMgr,
		summaryCache,
		publisher,
		dispatcher,
		log,
	)

	// Инициализируем handlers
	listSlots := listSlotsHandler.NewHandler(slotsSvc, log)
	createSlots := createSlotsHandler.NewHandler(slotsSvc, log)
	deleteSlot := deleteSlotHandler.NewHandler(slotsSvc, log)
	deactivateSlot := deactivateSlotHandler.NewHandler(slotsSvc, log)
	upsertSlotOverride := upsertSlotOverrideHandler.NewHandler(slotsSvc, log)
	getTableAvailability := getTableAvailabilityHandler.NewHandler(getTableAvailabilityUseCase, log)
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	updateReservation := updateReservationHandler.NewHandler(updateReservationUseCase, log)
	moveReservation := moveReservationHandler.NewHandler(moveReservationUseCase, log)
	cancelReservation := cancelReservationHandler.NewHandler(cancelReservationUseCase, log)
	getDashboardSummary := getDashboardSummaryHandler.NewHandler(dashboardSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
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
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Каталог слотов ресторана
	api.HandleFunc("/restaurants/{restaurantId}/slots",
		listSlots.Handle).Methods(http.MethodGet)

	// Занятость столов на дату
	api.HandleFunc("/restaurants/{restaurantId}/availability",
		getTableAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-Restaurant-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Слоты ---
	// Пакетное создание слотов
	protected.HandleFunc("/restaurants/{restaurantId}/slots", createSlots.Handle).Methods(http.MethodPost)

	// Удаление слота
	protected.HandleFunc("/restaurants/{restaurantId}/slots/{slotId}", deleteSlot.Handle).Methods(http.MethodDelete)

	// Деактивация слота без удаления записи
	protected.HandleFunc("/restaurants/{restaurantId}/slots/{slotId}/deactivate", deactivateSlot.Handle).Methods(http.MethodPatch)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)

	// Обновление бронирования
	protected.HandleFunc("/reservations/{reservationId}", updateReservation.Handle).Methods(http.MethodPatch)

	// Перенос бронирования
	protected.HandleFunc("/reservations/{reservationId}/move", moveReservation.Handle).Methods(http.MethodPost)

	// Отмена бронирования
	protected.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)

	// --- Дашборд ---
	// Дневная сводка ресторана
	protected.HandleFunc("/restaurants/{restaurantId}/dashboard", getDashboardSummary.Handle).Methods(http.MethodGet)

	// --- Ограничения (только роль operator) ---
	operator := protected.PathPrefix("").Subrouter()
	operator.Use(middleware.RequireOperator)
	operator.HandleFunc("/restaurants/{restaurantId}/slots/{slotId}/override",
		upsertSlotOverride.Handle).Methods(http.MethodPut)

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

	// Останавливаем сбор метрик connection pool
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

	// Дорабатываем поставленные фоновые задачи в собственном окне:
	// таймаут shutdownCtx мог быть израсходован остановкой HTTP-сервера
	drainCtx, cancelDrain := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelDrain()
	dispatcher.Stop(drainCtx)
	log.Info("Side-effect dispatcher stopped")

	log.Info("Server stopped gracefully")
}
