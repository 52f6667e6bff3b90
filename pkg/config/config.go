package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database      DatabaseConfig
	Redis         RedisConfig
	Auth          AuthConfig
	Communication CommunicationConfig
	CORS          CORSConfig
	Log           LogConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// AuthConfig holds token signing material and lifetimes. Loaded once at
// startup and injected; never mutated afterwards.
type AuthConfig struct {
	Secret         string
	AccessTokenTTL time.Duration
	SessionTTL     time.Duration
	ResetCodeTTL   time.Duration
}

// CommunicationConfig points at the outbound notification service and the
// email templates it renders.
type CommunicationConfig struct {
	BaseURL                  string
	Timeout                  time.Duration
	TemplateLocation         string
	WelcomeTemplate          string
	NewAccessTemplate        string
	EmailUpdatedTemplate     string
	PasswordUpdatedTemplate  string
	RedefinePasswordTemplate string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Auth = AuthConfig{
		Secret:         v.GetString("AUTH_SIGNING_SECRET"),
		AccessTokenTTL: parseDuration(v.GetString("ACCESS_TOKEN_EXPIRATION"), 15*time.Minute),
		SessionTTL:     parseDuration(v.GetString("SESSION_EXPIRATION"), 30*24*time.Hour),
		ResetCodeTTL:   parseDuration(v.GetString("RESET_CODE_EXPIRATION"), 15*time.Minute),
	}

	cfg.Communication = CommunicationConfig{
		BaseURL:                  v.GetString("COMMUNICATION_BASE_URL"),
		Timeout:                  parseDuration(v.GetString("COMMUNICATION_TIMEOUT"), 5*time.Second),
		TemplateLocation:         v.GetString("EMAIL_TEMPLATE_LOCATION"),
		WelcomeTemplate:          v.GetString("EMAIL_WELCOME_TEMPLATE"),
		NewAccessTemplate:        v.GetString("EMAIL_NEW_ACCESS_TEMPLATE"),
		EmailUpdatedTemplate:     v.GetString("EMAIL_UPDATED_TEMPLATE"),
		PasswordUpdatedTemplate:  v.GetString("EMAIL_PASSWORD_UPDATED_TEMPLATE"),
		RedefinePasswordTemplate: v.GetString("EMAIL_REDEFINE_PASSWORD_TEMPLATE"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "auth_registry")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("AUTH_SIGNING_SECRET", "dev_secret")
	v.SetDefault("ACCESS_TOKEN_EXPIRATION", "15m")
	v.SetDefault("SESSION_EXPIRATION", "720h")
	v.SetDefault("RESET_CODE_EXPIRATION", "15m")

	v.SetDefault("COMMUNICATION_BASE_URL", "http://localhost:9000")
	v.SetDefault("COMMUNICATION_TIMEOUT", "5s")
	v.SetDefault("EMAIL_TEMPLATE_LOCATION", "templates/")
	v.SetDefault("EMAIL_WELCOME_TEMPLATE", "welcome.html")
	v.SetDefault("EMAIL_NEW_ACCESS_TEMPLATE", "new-access.html")
	v.SetDefault("EMAIL_UPDATED_TEMPLATE", "email-updated.html")
	v.SetDefault("EMAIL_PASSWORD_UPDATED_TEMPLATE", "password-updated.html")
	v.SetDefault("EMAIL_REDEFINE_PASSWORD_TEMPLATE", "redefine-password.html")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
