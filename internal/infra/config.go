package infra

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port     string
	AppEnv   string
	LogLevel string

	PostgresURL string

	JWTSecret string
	JWTTTL    time.Duration

	AppBaseURL string

	SMTP SMTPSettings

	SessionTTL      time.Duration
	SessionCapacity int
	ResetTokenTTL   time.Duration

	ProPriceUSD           int
	WeeklyMailConcurrency int
}

type SMTPSettings struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	FromName   string
	UseSSL     bool
	RequireTLS bool
}

func (c Config) Development() bool { return c.AppEnv == "development" }

// LoadConfig reads .env when present and then the process environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return Config{
		Port:        v.GetString("PORT"),
		AppEnv:      v.GetString("APP_ENV"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		PostgresURL: v.GetString("POSTGRES_URL"),
		JWTSecret:   v.GetString("JWT_SECRET"),
		JWTTTL:      v.GetDuration("JWT_TTL"),
		AppBaseURL:  v.GetString("APP_BASE_URL"),
		SMTP: SMTPSettings{
			Host:       v.GetString("SMTP_HOST"),
			Port:       v.GetInt("SMTP_PORT"),
			Username:   v.GetString("SMTP_USERNAME"),
			Password:   v.GetString("SMTP_PASSWORD"),
			From:       v.GetString("SMTP_FROM"),
			FromName:   v.GetString("SMTP_FROM_NAME"),
			UseSSL:     v.GetBool("SMTP_USE_SSL"),
			RequireTLS: v.GetBool("SMTP_REQUIRE_TLS"),
		},
		SessionTTL:            v.GetDuration("SESSION_TTL"),
		SessionCapacity:       v.GetInt("SESSION_CAPACITY"),
		ResetTokenTTL:         v.GetDuration("RESET_TOKEN_TTL"),
		ProPriceUSD:           v.GetInt("PRO_PRICE_USD"),
		WeeklyMailConcurrency: v.GetInt("WEEKLY_MAIL_CONCURRENCY"),
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_TTL", "60m")
	v.SetDefault("APP_BASE_URL", "http://localhost:8080")
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_FROM_NAME", "Full Gorilla Meal Planner")
	v.SetDefault("SMTP_USE_SSL", false)
	v.SetDefault("SMTP_REQUIRE_TLS", true)
	v.SetDefault("SESSION_TTL", "2h")
	v.SetDefault("SESSION_CAPACITY", 10000)
	v.SetDefault("RESET_TOKEN_TTL", "24h")
	v.SetDefault("PRO_PRICE_USD", 20)
	v.SetDefault("WEEKLY_MAIL_CONCURRENCY", 4)
}
