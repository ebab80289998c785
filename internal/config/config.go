package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Переменные окружения, перекрывающие значения из файла
const (
	EnvDBHost     = "DB_HOST"
	EnvDBPassword = "DB_PASSWORD"
)

// DefaultEnvFile файл с переменными окружения, читается перед конфигом
const DefaultEnvFile = ".env"

var (
	// ErrReadConfig возвращается, если файл конфигурации не прочитан
	ErrReadConfig = errors.New("config: failed to read config file")

	// ErrInvalidConfig возвращается, если конфигурация не прошла проверку
	ErrInvalidConfig = errors.New("config: invalid config")
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" validate:"min=1,max=65535"`
	ReadTimeout     int `toml:"read_timeout" validate:"min=0"`
	WriteTimeout    int `toml:"write_timeout" validate:"min=0"`
	IdleTimeout     int `toml:"idle_timeout" validate:"min=0"`
	ShutdownTimeout int `toml:"shutdown_timeout" validate:"min=0"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Driver          string `toml:"driver" validate:"oneof=postgres pgx"`
	Host            string `toml:"host" validate:"required"`
	Port            int    `toml:"port" validate:"min=1,max=65535"`
	User            string `toml:"user" validate:"required"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname" validate:"required"`
	SSLMode         string `toml:"sslmode" validate:"oneof=disable allow prefer require verify-ca verify-full"`
	MaxOpenConns    int    `toml:"max_open_conns" validate:"min=0"`
	MaxIdleConns    int    `toml:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" validate:"min=0"` // секунды
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level" validate:"oneof=debug info warn error"`
	File  string `toml:"file"`
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path" validate:"required_if=Enabled true"`
	ServiceName string `toml:"service_name" validate:"required_if=Enabled true"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 30,
		},
		Database: DatabaseConfig{
			Driver:          "postgres",
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "reservation-service",
		},
	}
}

// Load читает конфигурацию из TOML файла.
// Перед этим подгружается .env (если есть), переменные окружения имеют приоритет над файлом.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: load %s: %v", ErrReadConfig, DefaultEnvFile, err)
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if host := os.Getenv(EnvDBHost); host != "" {
		c.Database.Host = host
	}
	if password, ok := os.LookupEnv(EnvDBPassword); ok {
		c.Database.Password = password
	}
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// DSN строка подключения к PostgreSQL в формате URL (понимают и lib/pq, и pgx)
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   d.Host + ":" + strconv.Itoa(d.Port),
		Path:   "/" + d.DBName,
	}
	q := url.Values{}
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
