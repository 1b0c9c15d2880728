package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	sessionAppointmentsHandler "github.com/arnela/gabinete-booking/internal/api/handlers/session_appointments"
	sessionNotificationsHandler "github.com/arnela/gabinete-booking/internal/api/handlers/session_notifications"
	sessionProvidersHandler "github.com/arnela/gabinete-booking/internal/api/handlers/session_providers"
	sessionStreamHandler "github.com/arnela/gabinete-booking/internal/api/handlers/session_stream"
	sessionWizardHandler "github.com/arnela/gabinete-booking/internal/api/handlers/session_wizard"
	sessionsHandler "github.com/arnela/gabinete-booking/internal/api/handlers/sessions"
	"github.com/arnela/gabinete-booking/internal/api/middleware"
	"github.com/arnela/gabinete-booking/internal/config"
	"github.com/arnela/gabinete-booking/internal/integrations/agendaapi"
	"github.com/arnela/gabinete-booking/internal/portal"
	"github.com/arnela/gabinete-booking/pkg/logger"
	"github.com/arnela/gabinete-booking/pkg/metrics"
)

func main() {
	// Загружаем конфигурацию
	configPath := config.PathFromEnv("configs/portal.toml")
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

	log.Info("Starting gabinete portal...")
	log.Info("Configuration loaded from %s", configPath)

	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	location, err := cfg.Clinic.Location()
	if err != nil {
		log.Fatal("Failed to load clinic timezone: %v", err)
	}

	// Клиент agenda API; копия на каждого пользователя через WithUser
	agendaClient := agendaapi.NewClient(
		cfg.Agenda.URL,
		agendaapi.Options{
			Timeout:    time.Duration(cfg.Agenda.Timeout) * time.Second,
			MaxRetries: cfg.Agenda.MaxRetries,
			Backoff:    time.Duration(cfg.Agenda.RetryBackoffMs) * time.Millisecond,
		},
		metricsCollector,
		log,
	)
	log.Info("Agenda client initialized (url=%s timeout=%ds retries=%d)",
		cfg.Agenda.URL, cfg.Agenda.Timeout, cfg.Agenda.MaxRetries)

	// Реестр сессий
	registry := portal.NewRegistry(
		portal.Options{
			IdleTTL:         time.Duration(cfg.Portal.SessionIdleTTL) * time.Second,
			NotificationTTL: time.Duration(cfg.Portal.NotificationTTL) * time.Second,
			SearchDebounce:  time.Duration(cfg.Portal.SearchDebounceMs) * time.Millisecond,
			Location:        location,
		},
		func(userID string) portal.AgendaAPI {
			return agendaClient.WithUser(userID)
		},
		metricsCollector,
		log,
	)

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go registry.RunJanitor(janitorCtx, time.Duration(cfg.Portal.JanitorInterval)*time.Second)
	log.Info("Session janitor started (idle_ttl=%ds interval=%ds)",
		cfg.Portal.SessionIdleTTL, cfg.Portal.JanitorInterval)

	// Инициализируем handlers
	sessions := sessionsHandler.NewHandler(registry, log)
	wizardH := sessionWizardHandler.NewHandler(location, log)
	appointmentsH := sessionAppointmentsHandler.NewHandler(log)
	notificationsH := sessionNotificationsHandler.NewHandler(log)
	providersH := sessionProvidersHandler.NewHandler(log)
	streamH := sessionStreamHandler.NewHandler(log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth)

	// --- Сессии ---
	api.HandleFunc("/sessions", sessions.Create).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionId}", sessions.Close).Methods(http.MethodDelete)

	// Маршруты внутри сессии
	session := api.PathPrefix("/sessions/{sessionId}").Subrouter()
	session.Use(middleware.Session(registry))

	// --- Мастер записи ---
	session.HandleFunc("/wizard", wizardH.Get).Methods(http.MethodGet)
	session.HandleFunc("/wizard/events", wizardH.Dispatch).Methods(http.MethodPost)
	session.HandleFunc("/providers", providersH.Handle).Methods(http.MethodGet)

	// --- Записи ---
	session.HandleFunc("/appointments", appointmentsH.List).Methods(http.MethodGet)
	session.HandleFunc("/appointments/{id}", appointmentsH.Get).Methods(http.MethodGet)
	session.HandleFunc("/appointments/{id}/confirm", appointmentsH.Confirm).Methods(http.MethodPost)
	session.HandleFunc("/appointments/{id}/cancel", appointmentsH.Cancel).Methods(http.MethodPost)

	// --- Уведомления ---
	session.HandleFunc("/notifications", notificationsH.List).Methods(http.MethodGet)
	session.HandleFunc("/notifications/{id}", notificationsH.Dismiss).Methods(http.MethodDelete)

	// --- Поток событий ---
	session.HandleFunc("/stream", streamH.Handle).Methods(http.MethodGet)

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

	stopJanitor()
	registry.CloseAll()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
