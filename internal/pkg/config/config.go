package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (limits, TTLs, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server      ServerConfig
	DB          DBConfig
	Redis       RedisConfig
	CORS        CORSConfig
	Log         LogConfig
	JWT         JWTConfig
	OTP         OTPConfig
	Reservation ReservationConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

type JWTConfig struct {
	Secret   string        `envconfig:"JWT_SECRET" required:"true"`
	Duration time.Duration `envconfig:"JWT_DURATION" default:"30m"`
}

type OTPConfig struct {
	TTL             time.Duration `envconfig:"OTP_TTL" default:"5m"`
	BurstLimit      int           `envconfig:"OTP_BURST_LIMIT" default:"5"`
	BurstWindow     time.Duration `envconfig:"OTP_BURST_WINDOW" default:"2m"`
	HourlyLimit     int           `envconfig:"OTP_HOURLY_LIMIT" default:"10"`
	PublishChannel  string        `envconfig:"OTP_PUBLISH_CHANNEL" default:"otp_requests"`
	KavenegarAPIKey string        `envconfig:"OTP_KAVENEGAR_API_KEY" default:""`
}

type ReservationConfig struct {
	PublishChannel      string `envconfig:"RESERVATION_PUBLISH_CHANNEL" default:"book_reservations"`
	RegularMaxDays      int    `envconfig:"RESERVATION_REGULAR_MAX_DAYS" default:"7"`
	PremiumMaxDays      int    `envconfig:"RESERVATION_PREMIUM_MAX_DAYS" default:"14"`
	DiscountMinCount    int    `envconfig:"RESERVATION_DISCOUNT_MIN_COUNT" default:"300000"`
	DiscountMinSpend    int64  `envconfig:"RESERVATION_DISCOUNT_MIN_SPEND" default:"300000"`
	PremiumCost         int64  `envconfig:"MEMBER_PREMIUM_COST" default:"1000"`
	PremiumPeriodMonths int    `envconfig:"MEMBER_PREMIUM_PERIOD_MONTHS" default:"1"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889",
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433",
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Redis: RedisConfig{
			Addr: "localhost:16380",
		},
		Log: LogConfig{
			Level: "error",
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: 30 * time.Minute,
		},
		OTP: OTPConfig{
			TTL:            5 * time.Minute,
			BurstLimit:     5,
			BurstWindow:    2 * time.Minute,
			HourlyLimit:    10,
			PublishChannel: "otp_requests",
		},
		Reservation: ReservationConfig{
			PublishChannel:      "book_reservations",
			RegularMaxDays:      7,
			PremiumMaxDays:      14,
			DiscountMinCount:    300000,
			DiscountMinSpend:    300000,
			PremiumCost:         1000,
			PremiumPeriodMonths: 1,
		},
	}
}
