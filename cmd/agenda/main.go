package main

import (
	"context"
	"database/sql"
	"errors"
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

	cancelAppointmentHandler "github.com/arnela/gabinete-booking/internal/api/handlers/cancel_appointment"
	confirmAppointmentHandler "github.com/arnela/gabinete-booking/internal/api/handlers/confirm_appointment"
	createAppointmentHandler "github.com/arnela/gabinete-booking/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/arnela/gabinete-booking/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/arnela/gabinete-booking/internal/api/handlers/get_available_slots"
	listAppointmentsHandler "github.com/arnela/gabinete-booking/internal/api/handlers/list_appointments"
	listEmployeesHandler "github.com/arnela/gabinete-booking/internal/api/handlers/list_employees"
	searchClientsHandler "github.com/arnela/gabinete-booking/internal/api/handlers/search_clients"
	"github.com/arnela/gabinete-booking/internal/api/middleware"
	"github.com/arnela/gabinete-booking/internal/config"
	"github.com/arnela/gabinete-booking/internal/domain"
	"github.com/arnela/gabinete-booking/internal/infra/lock"
	"github.com/arnela/gabinete-booking/internal/infra/migrations"
	appointmentRepo "github.com/arnela/gabinete-booking/internal/infra/storage/appointment"
	clientRepo "github.com/arnela/gabinete-booking/internal/infra/storage/client"
	employeeRepo "github.com/arnela/gabinete-booking/internal/infra/storage/employee"
	appointmentsService "github.com/arnela/gabinete-booking/internal/service/appointments"
	createAppointmentUC "github.com/arnela/gabinete-booking/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/arnela/gabinete-booking/internal/usecase/get_available_slots"
	"github.com/arnela/gabinete-booking/pkg/dbmetrics"
	"github.com/arnela/gabinete-booking/pkg/logger"
	"github.com/arnela/gabinete-booking/pkg/metrics"
	"github.com/arnela/gabinete-booking/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	configPath := config.PathFromEnv("configs/agenda.toml")
	cfg, err := config.Load(configPath)
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

	log.Info("Starting gabinete agenda...")
	log.Info("Configuration loaded from %s", configPath)

	// Метрики (nil-коллектор ничего не пишет)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Миграции до открытия пула
	if cfg.Database.AutoMigrate {
		if err := migrations.Up(cfg.Database.URL(), log); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
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

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Database.DBName)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Блокировка расписания врача
	var locker createAppointmentUC.Locker = lock.Noop{}
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}

		locker = lock.NewRedisLocker(rdb,
			time.Duration(cfg.Redis.LockTTL)*time.Second,
			time.Duration(cfg.Redis.LockWait)*time.Millisecond,
		)
		log.Info("Schedule locks backed by redis at %s", cfg.Redis.Addr)
	} else {
		log.Warn("Redis disabled, schedule locks fall back to serializable transactions only")
	}

	// Рабочее время клиники
	location, err := cfg.Clinic.Location()
	if err != nil {
		log.Fatal("Failed to load clinic timezone: %v", err)
	}
	schedule, err := domain.NewClinicSchedule(location, cfg.Clinic.OpensAt, cfg.Clinic.ClosesAt,
		cfg.Clinic.SlotStepMinutes, cfg.Clinic.MinNoticeMinutes)
	if err != nil {
		log.Fatal("Invalid clinic schedule: %v", err)
	}
	log.Info("Clinic schedule: %s-%s %s, step %d min",
		cfg.Clinic.OpensAt, cfg.Clinic.ClosesAt, cfg.Clinic.Timezone, cfg.Clinic.SlotStepMinutes)

	// Инициализируем репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	clientRepository := clientRepo.NewRepository(wrappedDB)
	employeeRepository := employeeRepo.NewRepository(wrappedDB)

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		clientRepository,
		employeeRepository,
		txMgr,
		log,
	)

	// Инициализируем use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		employeeRepository,
		clientRepository,
		locker,
		txMgr,
		schedule,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		employeeRepository,
		schedule,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, location, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentSvc, log)
	confirmAppointment := confirmAppointmentHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	searchClients := searchClientsHandler.NewHandler(appointmentSvc, log)
	listEmployees := listEmployeesHandler.NewHandler(appointmentSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := db.PingContext(req.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	// Все маршруты API требуют X-User-ID
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth)

	// --- Записи ---
	api.HandleFunc("/appointments/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	api.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{id}", getAppointment.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{id}/confirm", confirmAppointment.Handle).Methods(http.MethodPost)
	api.HandleFunc("/appointments/{id}/cancel", cancelAppointment.Handle).Methods(http.MethodPost)

	// --- Справочники ---
	api.HandleFunc("/clients", searchClients.Handle).Methods(http.MethodGet)
	api.HandleFunc("/employees", listEmployees.Handle).Methods(http.MethodGet)

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
