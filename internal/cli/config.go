package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"codeberg.org/snonux/translingo/internal/audio"
	"codeberg.org/snonux/translingo/internal/history"
	"codeberg.org/snonux/translingo/internal/mt"
	"codeberg.org/snonux/translingo/internal/translation"
)

// Config is the resolved configuration of both binaries
type Config struct {
	OpenAIKey string

	TranslationProvider string // "google" or "openai"
	TranslationModel    string

	TTS audio.Config

	AudioDir        string
	CleanupSchedule string // cron expression, empty disables the sweeper
	Retention       time.Duration

	CSVPath     string
	SQLitePath  string
	PostgresDSN string

	MT mt.Config

	WebAddr        string
	RateLimit      int
	AllowedOrigins []string

	RedisURL string
	CacheTTL time.Duration

	BreakerMaxFailures uint32
	BreakerTimeout     time.Duration

	LogLevel       string
	LogDevelopment bool
}

// StateDir is where artifacts and caches live by default
func StateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "state", "translingo")
}

func setDefaults() {
	state := StateDir()

	viper.SetDefault("translation.provider", "google")
	viper.SetDefault("translation.model", translation.DefaultOpenAIModel)

	viper.SetDefault("tts.provider", "google")
	viper.SetDefault("tts.fallback", "")
	viper.SetDefault("tts.openai_model", "gpt-4o-mini-tts")
	viper.SetDefault("tts.openai_voice", "alloy")
	viper.SetDefault("tts.openai_speed", 1.0)
	viper.SetDefault("tts.openai_instruction", "")
	viper.SetDefault("tts.cache", true)
	viper.SetDefault("tts.cache_dir", filepath.Join(state, "tts-cache"))

	viper.SetDefault("audio.dir", filepath.Join(state, "audio"))
	viper.SetDefault("audio.cleanup_schedule", "")
	viper.SetDefault("audio.retention", 24*time.Hour)

	viper.SetDefault("history.csv_path", history.DefaultCSVFile)
	viper.SetDefault("history.sqlite_path", "")
	viper.SetDefault("history.postgres_dsn", "")

	viper.SetDefault("mt.provider", "huggingface")
	viper.SetDefault("mt.model", "")
	viper.SetDefault("mt.endpoint", "")
	viper.SetDefault("mt.max_tokens", mt.DefaultMaxTokens)
	viper.SetDefault("mt.warmup", false)

	viper.SetDefault("web.addr", ":8080")
	viper.SetDefault("web.rate_limit", 60)
	viper.SetDefault("web.allowed_origins", []string{"*"})

	viper.SetDefault("cache.redis_url", "")
	viper.SetDefault("cache.ttl", 24*time.Hour)

	viper.SetDefault("breaker.max_failures", 5)
	viper.SetDefault("breaker.timeout", 30*time.Second)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.development", false)
}

// LoadConfig resolves the configuration from viper
func LoadConfig() *Config {
	setDefaults()

	cfg := &Config{
		OpenAIKey: GetOpenAIKey(),

		TranslationProvider: viper.GetString("translation.provider"),
		TranslationModel:    viper.GetString("translation.model"),

		AudioDir:        viper.GetString("audio.dir"),
		CleanupSchedule: viper.GetString("audio.cleanup_schedule"),
		Retention:       viper.GetDuration("audio.retention"),

		CSVPath:     viper.GetString("history.csv_path"),
		SQLitePath:  viper.GetString("history.sqlite_path"),
		PostgresDSN: viper.GetString("history.postgres_dsn"),

		WebAddr:        viper.GetString("web.addr"),
		RateLimit:      viper.GetInt("web.rate_limit"),
		AllowedOrigins: viper.GetStringSlice("web.allowed_origins"),

		RedisURL: viper.GetString("cache.redis_url"),
		CacheTTL: viper.GetDuration("cache.ttl"),

		BreakerMaxFailures: viper.GetUint32("breaker.max_failures"),
		BreakerTimeout:     viper.GetDuration("breaker.timeout"),

		LogLevel:       viper.GetString("log.level"),
		LogDevelopment: viper.GetBool("log.development"),
	}

	cfg.TTS = audio.Config{
		Provider:          viper.GetString("tts.provider"),
		Fallback:          viper.GetString("tts.fallback"),
		OutputDir:         cfg.AudioDir,
		OpenAIKey:         cfg.OpenAIKey,
		OpenAIModel:       viper.GetString("tts.openai_model"),
		OpenAIVoice:       viper.GetString("tts.openai_voice"),
		OpenAISpeed:       viper.GetFloat64("tts.openai_speed"),
		OpenAIInstruction: viper.GetString("tts.openai_instruction"),
		EnableCache:       viper.GetBool("tts.cache"),
		CacheDir:          viper.GetString("tts.cache_dir"),
	}

	provider := viper.GetString("mt.provider")
	cfg.MT = mt.DefaultConfig()
	cfg.MT.Provider = provider
	cfg.MT.Token = GetMTToken(provider)
	cfg.MT.MaxTokens = viper.GetInt("mt.max_tokens")
	cfg.MT.Warmup = viper.GetBool("mt.warmup")
	cfg.MT.BreakerMaxFailures = cfg.BreakerMaxFailures
	cfg.MT.BreakerTimeout = cfg.BreakerTimeout
	if model := viper.GetString("mt.model"); model != "" {
		cfg.MT.ModelID = model
	}
	if endpoint := viper.GetString("mt.endpoint"); endpoint != "" {
		cfg.MT.Endpoint = endpoint
	}

	return cfg
}
