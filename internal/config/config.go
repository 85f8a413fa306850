package config

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/segyhp/family-ledger/internal/domain"
)

// Config holds all configuration for our application
type Config struct {
	Server       ServerConfig       `mapstructure:",squash"`
	Database     DatabaseConfig     `mapstructure:",squash"`
	Redis        RedisConfig        `mapstructure:",squash"`
	Scheduler    SchedulerConfig    `mapstructure:",squash"`
	Logging      LoggingConfig      `mapstructure:",squash"`
	Business     BusinessConfig     `mapstructure:",squash"`
	Organization OrganizationConfig `mapstructure:",squash"`
	Health       HealthConfig       `mapstructure:",squash"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"SERVER_PORT"`
	Host         string        `mapstructure:"SERVER_HOST"`
	Env          string        `mapstructure:"ENV"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"DATABASE_URL"`
	MaxOpenConns    int           `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `mapstructure:"DATABASE_CONN_MAX_LIFETIME"`
}

type RedisConfig struct {
	Addr         string        `mapstructure:"REDIS_ADDR"`
	Password     string        `mapstructure:"REDIS_PASSWORD"`
	DB           int           `mapstructure:"REDIS_DB"`
	ReferenceTTL time.Duration `mapstructure:"REDIS_REFERENCE_TTL"`
}

type SchedulerConfig struct {
	OverdueDigestSpec string `mapstructure:"SCHEDULER_OVERDUE_DIGEST"`
	Timezone          string `mapstructure:"SCHEDULER_TIMEZONE"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

type BusinessConfig struct {
	MinBalanceRequirement string `mapstructure:"MIN_BALANCE_REQUIREMENT"`
	MinPaymentAmount      string `mapstructure:"MIN_PAYMENT_AMOUNT"`
	OverdueGraceDays      int    `mapstructure:"OVERDUE_GRACE_DAYS"`
	ReferencePrefix       string `mapstructure:"REFERENCE_PREFIX"`
	CalendarTimezone      string `mapstructure:"CALENDAR_TIMEZONE"`
}

type OrganizationConfig struct {
	NameAr  string `mapstructure:"ORG_NAME_AR"`
	NameEn  string `mapstructure:"ORG_NAME_EN"`
	Address string `mapstructure:"ORG_ADDRESS"`
	Phone   string `mapstructure:"ORG_PHONE"`
	Email   string `mapstructure:"ORG_EMAIL"`
	Website string `mapstructure:"ORG_WEBSITE"`
	// FontPath is an optional UTF-8 TTF used for Arabic PDF receipts.
	FontPath string `mapstructure:"RECEIPT_FONT_PATH"`
}

// CronParser accepts the six-field (with seconds) specs the scheduler runs.
var CronParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

type HealthConfig struct {
	Timeout time.Duration `mapstructure:"HEALTH_CHECK_TIMEOUT"`
}

var keys = []string{
	"SERVER_PORT", "SERVER_HOST", "ENV", "SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT",
	"DATABASE_URL", "DATABASE_MAX_OPEN_CONNS", "DATABASE_MAX_IDLE_CONNS", "DATABASE_CONN_MAX_LIFETIME",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "REDIS_REFERENCE_TTL",
	"SCHEDULER_OVERDUE_DIGEST", "SCHEDULER_TIMEZONE",
	"LOG_LEVEL", "LOG_FORMAT",
	"MIN_BALANCE_REQUIREMENT", "MIN_PAYMENT_AMOUNT", "OVERDUE_GRACE_DAYS", "REFERENCE_PREFIX", "CALENDAR_TIMEZONE",
	"ORG_NAME_AR", "ORG_NAME_EN", "ORG_ADDRESS", "ORG_PHONE", "ORG_EMAIL", "ORG_WEBSITE", "RECEIPT_FONT_PATH",
	"HEALTH_CHECK_TIMEOUT",
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Populate the process environment from .env when present
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.AutomaticEnv()
	// AutomaticEnv only resolves keys viper already knows about
	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = v.ReadInConfig()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("ENV", "development")
	v.SetDefault("SERVER_READ_TIMEOUT", "15s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "30s")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 20)
	v.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_REFERENCE_TTL", "48h")
	v.SetDefault("SCHEDULER_OVERDUE_DIGEST", "0 0 6 * * *")
	v.SetDefault("SCHEDULER_TIMEZONE", "Asia/Riyadh")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("MIN_BALANCE_REQUIREMENT", "100")
	v.SetDefault("MIN_PAYMENT_AMOUNT", "1")
	v.SetDefault("OVERDUE_GRACE_DAYS", 30)
	v.SetDefault("REFERENCE_PREFIX", "PAY")
	v.SetDefault("CALENDAR_TIMEZONE", "Asia/Riyadh")
	v.SetDefault("ORG_NAME_AR", "صندوق العائلة")
	v.SetDefault("ORG_NAME_EN", "Family Fund")
	v.SetDefault("HEALTH_CHECK_TIMEOUT", "5s")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if _, err := decimal.NewFromString(c.Business.MinBalanceRequirement); err != nil {
		return fmt.Errorf("MIN_BALANCE_REQUIREMENT must be a valid decimal: %w", err)
	}

	minPayment, err := decimal.NewFromString(c.Business.MinPaymentAmount)
	if err != nil {
		return fmt.Errorf("MIN_PAYMENT_AMOUNT must be a valid decimal: %w", err)
	}
	if !minPayment.IsPositive() {
		return fmt.Errorf("MIN_PAYMENT_AMOUNT must be greater than 0")
	}

	if c.Business.OverdueGraceDays <= 0 {
		return fmt.Errorf("OVERDUE_GRACE_DAYS must be greater than 0")
	}

	if c.Business.ReferencePrefix == "" {
		return fmt.Errorf("REFERENCE_PREFIX is required")
	}

	if _, err := time.LoadLocation(c.Business.CalendarTimezone); err != nil {
		return fmt.Errorf("CALENDAR_TIMEZONE must be a valid zone: %w", err)
	}

	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("SCHEDULER_TIMEZONE must be a valid zone: %w", err)
	}

	if _, err := CronParser.Parse(c.Scheduler.OverdueDigestSpec); err != nil {
		return fmt.Errorf("SCHEDULER_OVERDUE_DIGEST must be a valid cron spec: %w", err)
	}

	if c.Health.Timeout <= 0 {
		return fmt.Errorf("HEALTH_CHECK_TIMEOUT must be a positive duration")
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// CalendarLocation returns the zone used to pick Hijri calendar days.
func (c *Config) CalendarLocation() *time.Location {
	loc, err := time.LoadLocation(c.Business.CalendarTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SchedulerLocation returns the zone cron specs are evaluated in.
func (c *Config) SchedulerLocation() *time.Location {
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LedgerPolicy returns the business thresholds as a value the services
// receive explicitly.
func (c *Config) LedgerPolicy() domain.LedgerPolicy {
	minBalance, _ := decimal.NewFromString(c.Business.MinBalanceRequirement)
	minPayment, _ := decimal.NewFromString(c.Business.MinPaymentAmount)
	return domain.LedgerPolicy{
		MinimumBalance:   minBalance,
		MinimumPayment:   minPayment,
		OverdueGrace:     time.Duration(c.Business.OverdueGraceDays) * 24 * time.Hour,
		ReferencePrefix:  c.Business.ReferencePrefix,
		CalendarLocation: c.CalendarLocation(),
	}
}

// OrganizationInfo returns the receipt letterhead.
func (c *Config) OrganizationInfo() domain.Organization {
	return domain.Organization{
		NameAr:  c.Organization.NameAr,
		NameEn:  c.Organization.NameEn,
		Address: c.Organization.Address,
		Phone:   c.Organization.Phone,
		Email:   c.Organization.Email,
		Website: c.Organization.Website,
	}
}
