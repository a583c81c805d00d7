package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the bot.
type Config struct {
	App       AppConfig
	Telegram  TelegramConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	Intake    IntakeConfig
	Allocator AllocatorConfig
	Notify    NotifyConfig
}

// AppConfig controls server level behavior for the admin API.
type AppConfig struct {
	Name    string
	Env     string
	Host    string
	Port    string
	Version string
}

// TelegramConfig holds the bot token and the admin alert recipients.
type TelegramConfig struct {
	Token              string
	AdminChatIDs       []int64
	PollTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines admin API authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
	BootstrapUsername     string
	BootstrapPassword     string
}

// IntakeConfig tunes the conversation workflow.
type IntakeConfig struct {
	RequireContext     bool
	StrictContext      bool
	IdleTimeoutMinutes int
	SkipTokens         []string
}

// AllocatorConfig selects the ticket id allocation strategy.
type AllocatorConfig struct {
	Mode         string
	FallbackCode string
	Aliases      map[string]string
}

// NotifyConfig bounds the admin fan-out retry loop.
type NotifyConfig struct {
	MaxAttempts       int
	RetryDelaySeconds int
}

// Allocation modes.
const (
	AllocatorModeSerialized = "serialized"
	AllocatorModeRedis      = "redis"
)

// Load reads configuration from environment variables, applying defaults
// where possible. TELEGRAM_BOT_TOKEN and a non-empty
// TELEGRAM_ADMIN_CHAT_IDS list are mandatory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	adminIDs, err := parseChatIDs(os.Getenv("TELEGRAM_ADMIN_CHAT_IDS"))
	if err != nil {
		return nil, err
	}
	if len(adminIDs) == 0 {
		return nil, fmt.Errorf("TELEGRAM_ADMIN_CHAT_IDS must list at least one recipient")
	}

	aliases, err := parseAliases(getEnv("ALLOCATOR_CONTEXT_ALIASES", defaultAliases))
	if err != nil {
		return nil, err
	}

	mode := strings.ToLower(getEnv("ALLOCATOR_MODE", AllocatorModeSerialized))
	if mode != AllocatorModeSerialized && mode != AllocatorModeRedis {
		return nil, fmt.Errorf("invalid ALLOCATOR_MODE %q", mode)
	}

	cfg := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "complaint-bot"),
			Env:     getEnv("APP_ENV", "development"),
			Host:    getEnv("APP_HOST", "0.0.0.0"),
			Port:    getEnv("APP_PORT", "8080"),
			Version: getEnv("APP_VERSION", "dev"),
		},
		Telegram: TelegramConfig{
			Token:              os.Getenv("TELEGRAM_BOT_TOKEN"),
			AdminChatIDs:       adminIDs,
			PollTimeoutSeconds: getEnvAsInt("TELEGRAM_POLL_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
			BootstrapUsername:     os.Getenv("AUTH_BOOTSTRAP_USERNAME"),
			BootstrapPassword:     os.Getenv("AUTH_BOOTSTRAP_PASSWORD"),
		},
		Intake: IntakeConfig{
			RequireContext:     getEnvAsBool("INTAKE_REQUIRE_CONTEXT", true),
			StrictContext:      getEnvAsBool("INTAKE_CONTEXT_STRICT", false),
			IdleTimeoutMinutes: getEnvAsInt("INTAKE_IDLE_TIMEOUT_MINUTES", 30),
			SkipTokens:         splitList(getEnv("INTAKE_SKIP_TOKENS", "skip,lanjut")),
		},
		Allocator: AllocatorConfig{
			Mode:         mode,
			FallbackCode: strings.ToUpper(getEnv("ALLOCATOR_FALLBACK_CODE", "OTH")),
			Aliases:      aliases,
		},
		Notify: NotifyConfig{
			MaxAttempts:       getEnvAsInt("NOTIFY_MAX_ATTEMPTS", 3),
			RetryDelaySeconds: getEnvAsInt("NOTIFY_RETRY_DELAY_SECONDS", 2),
		},
	}

	return cfg, nil
}

// defaultAliases maps user-facing site names to context codes. Each entry is
// CODE:alias,alias and entries are separated by semicolons.
const defaultAliases = "WEB:website,web,situs;APP:aplikasi,app,mobile;PAY:pembayaran,payment;OTH:lainnya,other"

// Addr returns the admin API bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// IdleTimeout returns the session idle timeout as a duration.
func (i IntakeConfig) IdleTimeout() time.Duration {
	if i.IdleTimeoutMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(i.IdleTimeoutMinutes) * time.Minute
}

// RetryDelay returns the fan-out retry delay as a duration.
func (n NotifyConfig) RetryDelay() time.Duration {
	if n.RetryDelaySeconds < 0 {
		return 0
	}
	return time.Duration(n.RetryDelaySeconds) * time.Second
}

func parseChatIDs(raw string) ([]int64, error) {
	ids := []int64{}
	for _, part := range splitList(raw) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ADMIN_CHAT_IDS entry %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseAliases expands "WEB:website,web;OTH:lainnya" into a lowercase
// alias -> code lookup. Codes match themselves as well.
func parseAliases(raw string) (map[string]string, error) {
	result := map[string]string{}
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		code, list, found := strings.Cut(entry, ":")
		if !found {
			return nil, fmt.Errorf("invalid ALLOCATOR_CONTEXT_ALIASES entry %q", entry)
		}
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			return nil, fmt.Errorf("invalid ALLOCATOR_CONTEXT_ALIASES entry %q", entry)
		}
		result[strings.ToLower(code)] = code
		for _, alias := range splitList(list) {
			result[strings.ToLower(alias)] = code
		}
	}
	return result, nil
}

func splitList(raw string) []string {
	parts := []string{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
