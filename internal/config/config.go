package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config конфигурация сервисов agenda и portal
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Redis    RedisConfig    `toml:"redis"`
	Clinic   ClinicConfig   `toml:"clinic"`
	Agenda   AgendaConfig   `toml:"agenda"`
	Portal   PortalConfig   `toml:"portal"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	AutoMigrate     bool   `toml:"auto_migrate"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// URL строка подключения для golang-migrate
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	LockTTL  int    `toml:"lock_ttl"` // секунды
	LockWait int    `toml:"lock_wait_ms"`
}

// ClinicConfig рабочее время клиники для расчета слотов
type ClinicConfig struct {
	Timezone         string `toml:"timezone"`
	OpensAt          string `toml:"opens_at"`  // HH:MM
	ClosesAt         string `toml:"closes_at"` // HH:MM
	SlotStepMinutes  int    `toml:"slot_step_minutes"`
	MinNoticeMinutes int    `toml:"min_notice_minutes"`
}

// Location возвращает часовой пояс клиники
func (c ClinicConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// AgendaConfig клиент agenda API, используется порталом
type AgendaConfig struct {
	URL            string `toml:"url"`
	Timeout        int    `toml:"timeout"` // секунды
	MaxRetries     int    `toml:"max_retries"`
	RetryBackoffMs int    `toml:"retry_backoff_ms"`
}

type PortalConfig struct {
	SessionIdleTTL   int `toml:"session_idle_ttl"` // секунды
	JanitorInterval  int `toml:"janitor_interval"` // секунды
	NotificationTTL  int `toml:"notification_ttl"` // секунды
	SearchDebounceMs int `toml:"search_debounce_ms"`
}

// Load загружает .env, файл конфигурации и переменные окружения GABINETE_*
// Пустой path означает только значения по умолчанию и окружение
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
		}
	}

	cfg.applyDefaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// PathFromEnv возвращает путь к файлу конфигурации из GABINETE_CONFIG или fallback
func PathFromEnv(fallback string) string {
	return getEnv("GABINETE_CONFIG", fallback)
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.HTTPPort, 8080)
	setDefault(&c.Server.ReadTimeout, 10)
	setDefault(&c.Server.WriteTimeout, 10)
	setDefault(&c.Server.IdleTimeout, 60)
	setDefault(&c.Server.ShutdownTimeout, 10)

	setDefault(&c.Database.Host, "localhost")
	setDefault(&c.Database.Port, 5432)
	setDefault(&c.Database.User, "postgres")
	setDefault(&c.Database.DBName, "gabinete")
	setDefault(&c.Database.SSLMode, "disable")
	setDefault(&c.Database.MaxOpenConns, 25)
	setDefault(&c.Database.MaxIdleConns, 5)
	setDefault(&c.Database.ConnMaxLifetime, 300)

	setDefault(&c.Logs.Level, "info")

	setDefault(&c.Metrics.Path, "/metrics")
	setDefault(&c.Metrics.ServiceName, "gabinete")

	setDefault(&c.Redis.Addr, "127.0.0.1:6379")
	setDefault(&c.Redis.LockTTL, 5)
	setDefault(&c.Redis.LockWait, 2000)

	setDefault(&c.Clinic.Timezone, "Europe/Madrid")
	setDefault(&c.Clinic.OpensAt, "09:00")
	setDefault(&c.Clinic.ClosesAt, "20:00")
	setDefault(&c.Clinic.SlotStepMinutes, 30)

	setDefault(&c.Agenda.URL, "http://localhost:8080")
	setDefault(&c.Agenda.Timeout, 10)
	setDefault(&c.Agenda.MaxRetries, 3)
	setDefault(&c.Agenda.RetryBackoffMs, 200)

	setDefault(&c.Portal.SessionIdleTTL, 1800)
	setDefault(&c.Portal.JanitorInterval, 60)
	setDefault(&c.Portal.NotificationTTL, 5)
	setDefault(&c.Portal.SearchDebounceMs, 300)
}

func (c *Config) applyEnv() error {
	var err error

	if c.Server.HTTPPort, err = getInt("GABINETE_HTTP_PORT", c.Server.HTTPPort); err != nil {
		return err
	}

	c.Database.Host = getEnv("GABINETE_DB_HOST", c.Database.Host)
	if c.Database.Port, err = getInt("GABINETE_DB_PORT", c.Database.Port); err != nil {
		return err
	}
	c.Database.User = getEnv("GABINETE_DB_USER", c.Database.User)
	c.Database.Password = getEnv("GABINETE_DB_PASSWORD", c.Database.Password)
	c.Database.DBName = getEnv("GABINETE_DB_NAME", c.Database.DBName)

	c.Logs.Level = getEnv("GABINETE_LOG_LEVEL", c.Logs.Level)

	c.Redis.Addr = getEnv("GABINETE_REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("GABINETE_REDIS_PASSWORD", c.Redis.Password)

	c.Agenda.URL = getEnv("GABINETE_AGENDA_URL", c.Agenda.URL)
	return nil
}

// Validate проверяет значения, с которыми сервис не сможет работать
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port out of range: %d", c.Server.HTTPPort)
	}

	if _, err := c.Clinic.Location(); err != nil {
		return fmt.Errorf("clinic.timezone: %w", err)
	}
	opens, err := time.Parse("15:04", c.Clinic.OpensAt)
	if err != nil {
		return fmt.Errorf("clinic.opens_at: %w", err)
	}
	closes, err := time.Parse("15:04", c.Clinic.ClosesAt)
	if err != nil {
		return fmt.Errorf("clinic.closes_at: %w", err)
	}
	if !opens.Before(closes) {
		return errors.New("clinic.opens_at must be before clinic.closes_at")
	}
	if c.Clinic.SlotStepMinutes <= 0 {
		return errors.New("clinic.slot_step_minutes must be positive")
	}
	if c.Clinic.MinNoticeMinutes < 0 {
		return errors.New("clinic.min_notice_minutes must not be negative")
	}

	if c.Agenda.MaxRetries < 0 {
		return errors.New("agenda.max_retries must not be negative")
	}
	if c.Portal.SessionIdleTTL <= 0 {
		return errors.New("portal.session_idle_ttl must be positive")
	}
	return nil
}

func setDefault[T comparable](field *T, value T) {
	var zero T
	if *field == zero {
		*field = value
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", key, v, err)
	}
	return n, nil
}
