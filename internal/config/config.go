package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config конфигурация сервиса
type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`
	Redis          RedisConfig          `toml:"redis"`
	ProfileService ProfileServiceConfig `toml:"profile_service"`
	Email          EmailConfig          `toml:"email"`
	Calendar       CalendarConfig       `toml:"calendar"`
	Booking        BookingConfig        `toml:"booking"`
	Reminders      RemindersConfig      `toml:"reminders"`
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
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type ProfileServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

type EmailConfig struct {
	Provider       string `toml:"provider"` // sendgrid | ses | stub
	FromEmail      string `toml:"from_email"`
	FromName       string `toml:"from_name"`
	SendGridAPIKey string `toml:"sendgrid_api_key"`
	SendGridHost   string `toml:"sendgrid_host"`
	SESRegion      string `toml:"ses_region"`
}

type CalendarConfig struct {
	Enabled               bool   `toml:"enabled"`
	Timeout               int    `toml:"timeout"` // секунды
	GoogleClientID        string `toml:"google_client_id"`
	GoogleClientSecret    string `toml:"google_client_secret"`
	MicrosoftClientID     string `toml:"microsoft_client_id"`
	MicrosoftClientSecret string `toml:"microsoft_client_secret"`
	MicrosoftTenant       string `toml:"microsoft_tenant"`
}

type BookingConfig struct {
	PublicBaseURL        string `toml:"public_base_url"` // база ссылок в письмах
	VerificationTTLHours int    `toml:"verification_ttl_hours"`
}

type RemindersConfig struct {
	InternalToken  string `toml:"internal_token"`
	LockTTLSeconds int    `toml:"lock_ttl_seconds"`
}

// Load читает TOML файл, затем переопределяет секреты из окружения (.env подхватывается, если есть)
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs:           LogsConfig{Level: "info"},
		Metrics:        MetricsConfig{Path: "/metrics", ServiceName: "booking-service"},
		ProfileService: ProfileServiceConfig{Timeout: 5},
		Email:          EmailConfig{Provider: "stub"},
		Calendar:       CalendarConfig{Timeout: 5, MicrosoftTenant: "common"},
		Booking:        BookingConfig{VerificationTTLHours: 24},
		Reminders:      RemindersConfig{LockTTLSeconds: 300},
	}
}

// applyEnv переопределяет значения из переменных окружения
func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	setString("DB_HOST", &c.Database.Host)
	setString("DB_USER", &c.Database.User)
	setString("DB_PASSWORD", &c.Database.Password)
	setString("DB_NAME", &c.Database.DBName)
	setString("REDIS_ADDR", &c.Redis.Addr)
	setString("REDIS_PASSWORD", &c.Redis.Password)
	setString("PROFILE_SERVICE_URL", &c.ProfileService.URL)
	setString("EMAIL_PROVIDER", &c.Email.Provider)
	setString("SENDGRID_API_KEY", &c.Email.SendGridAPIKey)
	setString("SES_REGION", &c.Email.SESRegion)
	setString("GOOGLE_CLIENT_ID", &c.Calendar.GoogleClientID)
	setString("GOOGLE_CLIENT_SECRET", &c.Calendar.GoogleClientSecret)
	setString("MICROSOFT_CLIENT_ID", &c.Calendar.MicrosoftClientID)
	setString("MICROSOFT_CLIENT_SECRET", &c.Calendar.MicrosoftClientSecret)
	setString("PUBLIC_BASE_URL", &c.Booking.PublicBaseURL)
	setString("INTERNAL_TOKEN", &c.Reminders.InternalToken)

	if v, ok := os.LookupEnv("DB_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: DB_PORT: %w", err)
		}
		c.Database.Port = port
	}

	if v, ok := os.LookupEnv("HTTP_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: HTTP_PORT: %w", err)
		}
		c.Server.HTTPPort = port
	}

	return nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	var errs []error

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("server.http_port out of range: %d", c.Server.HTTPPort))
	}
	if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
		errs = append(errs, errors.New("database host, user and dbname are required"))
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		errs = append(errs, fmt.Errorf("database.port out of range: %d", c.Database.Port))
	}
	if c.ProfileService.URL == "" {
		errs = append(errs, errors.New("profile_service.url is required"))
	}

	switch c.Email.Provider {
	case "stub":
	case "sendgrid":
		if c.Email.SendGridAPIKey == "" {
			errs = append(errs, errors.New("email.sendgrid_api_key is required for sendgrid"))
		}
	case "ses":
		if c.Email.SESRegion == "" {
			errs = append(errs, errors.New("email.ses_region is required for ses"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown email.provider %q", c.Email.Provider))
	}
	if c.Email.Provider != "stub" && c.Email.FromEmail == "" {
		errs = append(errs, errors.New("email.from_email is required"))
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		errs = append(errs, errors.New("redis.addr is required when redis is enabled"))
	}
	if c.Booking.VerificationTTLHours <= 0 {
		errs = append(errs, errors.New("booking.verification_ttl_hours must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// VerificationTTL время жизни ссылки подтверждения email
func (b BookingConfig) VerificationTTL() time.Duration {
	return time.Duration(b.VerificationTTLHours) * time.Hour
}

// LockTTL время жизни блокировки напоминания
func (r RemindersConfig) LockTTL() time.Duration {
	return time.Duration(r.LockTTLSeconds) * time.Second
}
