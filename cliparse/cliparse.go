package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port            int           `env:"PORT" envDefault:"3320"`
	SurveyAPIURL    string        `env:"SURVEY_API_URL"`
	SessionSecret   string        `env:"SESSION_SECRET"`
	PageIdleTimeout time.Duration `env:"PAGE_IDLE_TIMEOUT" envDefault:"30m"`
	APITimeout      time.Duration `env:"API_TIMEOUT" envDefault:"10s"`
	OTelEndpoint    string        `env:"OTEL_ENDPOINT"`
	OTelSampleRatio float64       `env:"OTEL_SAMPLE_RATIO" envDefault:"1"`
}

// ParseFlags loads .env, reads the environment, then applies CLI flags.
// Flags take precedence over the environment.
func ParseFlags(args []string) (Config, error) {
	if err := loadEnvFile(); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("fieldsurvey", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", cfg.Port, "Server port")
	fs.StringVar(&cfg.SurveyAPIURL, "api", cfg.SurveyAPIURL, "Survey backend base URL")
	fs.DurationVar(&cfg.APITimeout, "api-timeout", cfg.APITimeout, "Timeout for backend reads")
	fs.DurationVar(&cfg.PageIdleTimeout, "idle", cfg.PageIdleTimeout, "Unmount pages idle for this long")
	fs.StringVar(&cfg.OTelEndpoint, "otel", cfg.OTelEndpoint, "OTLP/HTTP trace endpoint (empty disables tracing)")
	fs.Float64Var(&cfg.OTelSampleRatio, "otel-sample", cfg.OTelSampleRatio, "Share of new traces to record, 0 to 1")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SessionSecret, "session-secret", cfg.SessionSecret, "Session signing secret (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port <= 0 {
		return Config{}, errors.New("invalid port")
	}
	if cfg.SurveyAPIURL == "" {
		return Config{}, errors.New("survey API URL required (use -api or SURVEY_API_URL env)")
	}
	if cfg.SessionSecret == "" {
		return Config{}, errors.New("SESSION_SECRET required")
	}
	if cfg.PageIdleTimeout <= 0 {
		return Config{}, errors.New("page idle timeout must be positive")
	}
	if cfg.OTelSampleRatio < 0 || cfg.OTelSampleRatio > 1 {
		return Config{}, errors.New("trace sample ratio must be between 0 and 1")
	}

	return cfg, nil
}

// loadEnvFile reads ENV_FILE (default .env) if it exists. Variables already
// set in the environment win.
func loadEnvFile() error {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
