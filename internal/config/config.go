package config

import (
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds everything the service reads from its environment.
// Credentials are optional: a missing one disables the feature that needs
// it instead of stopping the process.
type Config struct {
	GeminiAPIKey         Credential
	GeminiModel          string `default:"gemini-2.5-flash" validate:"required"`
	GenerationTimeoutSec int    `default:"120" validate:"gte=1"`

	HTTPAddr     string `default:":8080" validate:"required"`
	WSThrottleMs int    `default:"250" validate:"gte=0"`

	LogLevel      string `default:"info" validate:"oneof=trace debug info warn error"`
	LogFile       string `default:"quant_architect.log"`
	MaxLogSizeMB  int64  `default:"10" validate:"gte=1"`
	MaxLogBackups int    `default:"3" validate:"gte=0"`

	DefaultMode       string  `default:"DAY" validate:"oneof=SCALP DAY SWING"`
	PriceDeviationPct float64 `default:"1.5" validate:"gt=0"`

	AlpacaKeyID     Credential
	AlpacaSecretKey Credential

	TelegramBotToken Credential
	TelegramChatID   string

	Version string
}

// secretVars are masked whenever the environment is echoed to the log.
var secretVars = map[string]bool{
	"GEMINI_API_KEY":      true,
	"API_KEY":             true,
	"APCA_API_KEY_ID":     true,
	"APCA_API_SECRET_KEY": true,
	"TELEGRAM_BOT_TOKEN":  true,
}

var validate = validator.New()

// Load reads an optional .env file, applies defaults, then environment
// overrides, and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using system environment variables")
	}

	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply config defaults: %w", err)
	}

	cfg.GeminiAPIKey = NewCredential(firstEnv("GEMINI_API_KEY", "API_KEY"))
	cfg.GeminiModel = getEnv("GEMINI_MODEL", cfg.GeminiModel)
	cfg.GenerationTimeoutSec = getEnvAsInt("QA_GENERATION_TIMEOUT_SEC", cfg.GenerationTimeoutSec)

	cfg.HTTPAddr = getEnv("QA_HTTP_ADDR", cfg.HTTPAddr)
	cfg.WSThrottleMs = getEnvAsInt("QA_WS_THROTTLE_MS", cfg.WSThrottleMs)

	cfg.LogLevel = getEnv("QA_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getEnv("QA_LOG_FILE", cfg.LogFile)
	cfg.MaxLogSizeMB = int64(getEnvAsInt("QA_LOG_MAX_SIZE_MB", int(cfg.MaxLogSizeMB)))
	cfg.MaxLogBackups = getEnvAsInt("QA_LOG_MAX_BACKUPS", cfg.MaxLogBackups)

	cfg.DefaultMode = getEnv("QA_DEFAULT_MODE", cfg.DefaultMode)
	cfg.PriceDeviationPct = getEnvAsFloat64("QA_PRICE_DEVIATION_PCT", cfg.PriceDeviationPct)

	cfg.AlpacaKeyID = NewCredential(os.Getenv("APCA_API_KEY_ID"))
	cfg.AlpacaSecretKey = NewCredential(os.Getenv("APCA_API_SECRET_KEY"))

	cfg.TelegramBotToken = NewCredential(os.Getenv("TELEGRAM_BOT_TOKEN"))
	cfg.TelegramChatID = os.Getenv("TELEGRAM_CHAT_ID")

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// GenerationTimeout bounds a single call to the generation service.
func (c *Config) GenerationTimeout() time.Duration {
	return time.Duration(c.GenerationTimeoutSec) * time.Second
}

func (c *Config) AlpacaConfigured() bool {
	return c.AlpacaKeyID.Configured() && c.AlpacaSecretKey.Configured()
}

func (c *Config) TelegramConfigured() bool {
	return c.TelegramBotToken.Configured() && c.TelegramChatID != ""
}

// LogSummary writes the effective configuration, secrets masked.
func (c *Config) LogSummary(logger zerolog.Logger) {
	logger.Info().
		Str("gemini_api_key", c.GeminiAPIKey.String()).
		Str("gemini_model", c.GeminiModel).
		Dur("generation_timeout", c.GenerationTimeout()).
		Str("http_addr", c.HTTPAddr).
		Str("default_mode", c.DefaultMode).
		Float64("price_deviation_pct", c.PriceDeviationPct).
		Bool("alpaca", c.AlpacaConfigured()).
		Bool("telegram", c.TelegramConfigured()).
		Msg("Configuration loaded")

	envMap, err := godotenv.Read()
	if err != nil {
		return
	}
	for key, val := range envMap {
		if secretVars[key] {
			val = mask(val)
		}
		logger.Debug().Str("key", key).Str("value", val).Msg(".env variable")
	}
}
