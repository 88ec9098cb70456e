package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/arogyahq/booking-api/internal/model"
	apperrors "github.com/arogyahq/booking-api/pkg/errors"
	"github.com/arogyahq/booking-api/pkg/validator"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Pricing  PricingConfig  `mapstructure:"pricing"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Port           int `mapstructure:"port" validate:"min=1,max=65535"`
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	RateLimitRPS   int `mapstructure:"rate_limit_rps"`
	RateLimitBurst int `mapstructure:"rate_limit_burst"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port" validate:"min=1,max=65535"`
	User     string `mapstructure:"user" validate:"required"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name" validate:"required"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret" validate:"required"`
	ExpiryHours int    `mapstructure:"expiry_hours" validate:"min=1"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from" validate:"omitempty,email"`
}

// ScheduleConfig is the single source of truth for the provider's bookable
// hours, slot granularity, advance-booking buffer, and per-kind durations.
type ScheduleConfig struct {
	StartHour     int                            `mapstructure:"start_hour"`
	EndHour       int                            `mapstructure:"end_hour"`
	SlotMinutes   int                            `mapstructure:"slot_minutes"`
	BufferMinutes int                            `mapstructure:"buffer_minutes"`
	HomeTimezone  string                         `mapstructure:"home_timezone" validate:"required,timezone"`
	HorizonDays   int                            `mapstructure:"horizon_days"`
	Kinds         map[model.ConsultationKind]int `mapstructure:"kinds"`
}

// Window returns the operating window the schedule describes.
func (s ScheduleConfig) Window() model.OperatingWindow {
	return model.OperatingWindow{
		StartHour:   s.StartHour,
		EndHour:     s.EndHour,
		SlotMinutes: s.SlotMinutes,
	}
}

type PricingConfig struct {
	Default model.RegionPrice    `mapstructure:"default"`
	Regions []RegionPricingEntry `mapstructure:"regions"`
}

type RegionPricingEntry struct {
	Timezones []string          `mapstructure:"timezones"`
	Price     model.RegionPrice `mapstructure:"price"`
}

type CalendarConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	CacheTTLSec    int    `mapstructure:"cache_ttl_seconds"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// envOverrides are the secrets that must never sit in the config file.
type envOverrides struct {
	DatabasePassword string `envconfig:"DB_PASSWORD"`
	JWTSecret        string `envconfig:"JWT_SECRET"`
	SMTPPassword     string `envconfig:"SMTP_PASSWORD"`
	RedisURL         string `envconfig:"REDIS_URL"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.timeout_seconds", 30)
	viper.SetDefault("server.rate_limit_rps", 100)
	viper.SetDefault("server.rate_limit_burst", 200)
	viper.SetDefault("schedule.start_hour", 9)
	viper.SetDefault("schedule.end_hour", 18)
	viper.SetDefault("schedule.slot_minutes", 30)
	viper.SetDefault("schedule.buffer_minutes", 60)
	viper.SetDefault("schedule.home_timezone", "Asia/Kolkata")
	viper.SetDefault("schedule.horizon_days", 60)
	viper.SetDefault("calendar.timeout_seconds", 5)
	viper.SetDefault("calendar.cache_ttl_seconds", 60)
	viper.SetDefault("logging.level", "info")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var env envOverrides
	if err := envconfig.Process("booking", &env); err != nil {
		return nil, fmt.Errorf("failed to read environment overrides: %w", err)
	}
	if env.DatabasePassword != "" {
		config.Database.Password = env.DatabasePassword
	}
	if env.JWTSecret != "" {
		config.JWT.Secret = env.JWTSecret
	}
	if env.SMTPPassword != "" {
		config.SMTP.Password = env.SMTPPassword
	}
	if env.RedisURL != "" {
		config.Redis.URL = env.RedisURL
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate fails fast on deployment misconfiguration. Runtime data issues
// never reach here; this is startup-only.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return apperrors.Configuration("invalid configuration", err)
	}
	if err := c.Schedule.Window().Validate(); err != nil {
		return apperrors.Configuration("invalid schedule", err)
	}
	if len(c.Schedule.Kinds) == 0 {
		return apperrors.Configuration("no consultation kinds configured", nil)
	}
	for kind, slots := range c.Schedule.Kinds {
		if slots < 1 {
			return apperrors.Configuration(fmt.Sprintf("consultation kind %q has non-positive duration", kind), nil)
		}
	}
	if c.Schedule.BufferMinutes < 0 {
		return apperrors.Configuration("negative advance booking buffer", nil)
	}
	if c.Schedule.HorizonDays <= 0 {
		return apperrors.Configuration("search horizon must be positive", nil)
	}
	return nil
}
