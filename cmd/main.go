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

	cancelReservationHandler "github.com/campusrec/court-booking-service/internal/api/handlers/cancel_reservation"
	createBlackoutHandler "github.com/campusrec/court-booking-service/internal/api/handlers/create_blackout"
	createReservationHandler "github.com/campusrec/court-booking-service/internal/api/handlers/create_reservation"
	deleteBlackoutHandler "github.com/campusrec/court-booking-service/internal/api/handlers/delete_blackout"
	getAvailableSlotsHandler "github.com/campusrec/court-booking-service/internal/api/handlers/get_available_slots"
	getBlackoutsHandler "github.com/campusrec/court-booking-service/internal/api/handlers/get_blackouts"
	getCourtConfigHandler "github.com/campusrec/court-booking-service/internal/api/handlers/get_court_config"
	getCourtReservationsHandler "github.com/campusrec/court-booking-service/internal/api/handlers/get_court_reservations"
	getReservationHandler "github.com/campusrec/court-booking-service/internal/api/handlers/get_reservation"
	getUserReservationsHandler "github.com/campusrec/court-booking-service/internal/api/handlers/get_user_reservations"
	updateCourtConfigHandler "github.com/campusrec/court-booking-service/internal/api/handlers/update_court_config"
	"github.com/campusrec/court-booking-service/internal/api/middleware"
	"github.com/campusrec/court-booking-service/internal/config"
	blackoutRepo "github.com/campusrec/court-booking-service/internal/infra/storage/blackout"
	courtRepo "github.com/campusrec/court-booking-service/internal/infra/storage/court"
	reservationRepo "github.com/campusrec/court-booking-service/internal/infra/storage/reservation"
	courtsService "github.com/campusrec/court-booking-service/internal/service/courts"
	reservationsService "github.com/campusrec/court-booking-service/internal/service/reservations"
	createReservationUC "github.com/campusrec/court-booking-service/internal/usecase/create_reservation"
	getAvailableSlotsUC "github.com/campusrec/court-booking-service/internal/usecase/get_available_slots"
	"github.com/campusrec/court-booking-service/pkg/dbmetrics"
	"github.com/campusrec/court-booking-service/pkg/logger"
	"github.com/campusrec/court-booking-service/pkg/metrics"
	"github.com/campusrec/court-booking-service/pkg/mq"
	"github.com/campusrec/court-booking-service/pkg/simpletxmanager"
	"github.com/campusrec/court-booking-service/pkg/txmanager"
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

	log.Info("Starting court-booking-service...")
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

	// Инициализируем публикацию событий жизненного цикла бронирований
	type eventPublisher interface {
		Publish(ctx context.Context, routingKey string, payload interface{}) error
		Close() error
	}
	var publisher eventPublisher

	if cfg.MQ.Enabled {
		mqPublisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ: %v", err)
		}
		publisher = mqPublisher
		log.Info("Event publisher connected (exchange=%s)", cfg.MQ.Exchange)
	} else {
		publisher = mq.NoopPublisher{}
		log.Info("Event publishing disabled")
	}
	defer publisher.Close()

	// Инициализируем репозитории (с метриками или без)
	var (
		reservationRepository *reservationRepo.Repository
		courtRepository       *courtRepo.Repository
		blackoutRepository    *blackoutRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases и сервисах)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		courtRepository = courtRepo.NewRepository(wrappedDB)
		blackoutRepository = blackoutRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		reservationRepository = reservationRepo.NewRepository(db)
		courtRepository = courtRepo.NewRepository(db)
		blackoutRepository = blackoutRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	reservationSvc := reservationsService.NewService(
		reservationRepository,
		publisher,
		cfg.Booking.CancelGraceMinutes,
		log,
	)
	courtSvc := courtsService.NewService(
		courtRepository,
		blackoutRepository,
		txMgr,
		log,
	)

	// Инициализируем use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		courtRepository,
		blackoutRepository,
		txMgr,
		publisher,
		createReservationUC.Policy{
			DefaultTimezone:    cfg.Booking.DefaultTimezone,
			CreateGraceMinutes: cfg.Booking.CreateGraceMinutes,
		},
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		reservationRepository,
		courtRepository,
		blackoutRepository,
		getAvailableSlotsUC.Policy{
			DefaultTimezone:    cfg.Booking.DefaultTimezone,
			CreateGraceMinutes: cfg.Booking.CreateGraceMinutes,
		},
		log,
	)

	// Инициализируем handlers
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationSvc, log)
	getUserReservations := getUserReservationsHandler.NewHandler(reservationSvc, log)
	getCourtReservations := getCourtReservationsHandler.NewHandler(reservationSvc, log)
	getCourtConfig := getCourtConfigHandler.NewHandler(courtSvc, log)
	updateCourtConfig := updateCourtConfigHandler.NewHandler(courtSvc, log)
	createBlackout := createBlackoutHandler.NewHandler(courtSvc, log)
	getBlackouts := getBlackoutsHandler.NewHandler(courtSvc, log)
	deleteBlackout := deleteBlackoutHandler.NewHandler(courtSvc, log)

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
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Сетка слотов корта на день
	api.HandleFunc("/courts/{courtId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Конфигурация корта
	api.HandleFunc("/courts/{courtId}/config",
		getCourtConfig.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/reservations", getUserReservations.Handle).Methods(http.MethodGet)

	// --- Управление кортами (для администраторов площадки) ---
	// Список бронирований корта
	protected.HandleFunc("/courts/{courtId}/reservations", getCourtReservations.Handle).Methods(http.MethodGet)

	// Обновление конфигурации корта
	protected.HandleFunc("/courts/{courtId}/config", updateCourtConfig.Handle).Methods(http.MethodPut)

	// Блокировки корта
	protected.HandleFunc("/courts/{courtId}/blackouts", createBlackout.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/courts/{courtId}/blackouts", getBlackouts.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/courts/{courtId}/blackouts/{blackoutId}", deleteBlackout.Handle).Methods(http.MethodDelete)

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

	log.Info("Server stopped gracefully")
}
