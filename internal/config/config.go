package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

const (
	SourceClickHouse = "clickhouse"
	SourceGoogleFit  = "googlefit"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	HTTPPort     string `env:"HTTP_PORT" envDefault:":8080"`
	AppMode      string `env:"APP_MODE" envDefault:"dev"`
	FiberPrefork bool   `env:"FIBER_PREFORK" envDefault:"false"`

	StepSource string `env:"STEP_SOURCE" envDefault:"clickhouse"`

	ClickHouseAddr        string        `env:"CLICKHOUSE_ADDR" envDefault:"localhost:9000"`
	ClickHouseDatabase    string        `env:"CLICKHOUSE_DATABASE" envDefault:"default"`
	ClickHouseUsername    string        `env:"CLICKHOUSE_USERNAME" envDefault:"default"`
	ClickHousePassword    string        `env:"CLICKHOUSE_PASSWORD"`
	ClickHouseDialTimeout time.Duration `env:"CLICKHOUSE_DIAL_TIMEOUT" envDefault:"10s"`

	GoogleFitBaseURL     string `env:"GOOGLE_FIT_BASE_URL" envDefault:"https://www.googleapis.com/fitness/v1"`
	GoogleFitAccessToken string `env:"GOOGLE_FIT_ACCESS_TOKEN"`
	GoogleFitDataSource  string `env:"GOOGLE_FIT_DATA_SOURCE" envDefault:"derived:com.google.step_count.delta:com.google.android.gms:estimated_steps"`

	// FetchTimeout bounds each call to the fitness source.
	FetchTimeout    time.Duration `env:"FETCH_TIMEOUT" envDefault:"30s"`
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL" envDefault:"5m"`
	SortDescending  bool          `env:"SORT_DESCENDING" envDefault:"true"`
	ReductionPolicy string        `env:"REDUCTION_POLICY" envDefault:"last_field"`

	WorkerBufferSize int           `env:"WORKER_BUFFER_SIZE" envDefault:"1024"`
	WorkerBatchSize  int           `env:"WORKER_BATCH_SIZE" envDefault:"100"`
	WorkerFlushEvery time.Duration `env:"WORKER_FLUSH_EVERY" envDefault:"2s"`
	FutureTolerance  time.Duration `env:"DELTA_FUTURE_TOLERANCE" envDefault:"1m"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	LogFile   string `env:"LOG_FILE"`
}

// Load reads configuration from environment variables with sane defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.AppMode = strings.ToLower(cfg.AppMode)
	cfg.StepSource = strings.ToLower(strings.TrimSpace(cfg.StepSource))

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StepSource {
	case SourceClickHouse:
		if c.ClickHouseAddr == "" {
			return fmt.Errorf("CLICKHOUSE_ADDR is required when STEP_SOURCE=%s", SourceClickHouse)
		}
	case SourceGoogleFit:
		if c.GoogleFitAccessToken == "" {
			return fmt.Errorf("GOOGLE_FIT_ACCESS_TOKEN is required when STEP_SOURCE=%s", SourceGoogleFit)
		}
	default:
		return fmt.Errorf("unsupported STEP_SOURCE %q", c.StepSource)
	}

	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive")
	}
	if c.RefreshInterval < 0 {
		return fmt.Errorf("REFRESH_INTERVAL must not be negative")
	}
	if c.WorkerBatchSize <= 0 || c.WorkerBufferSize <= 0 {
		return fmt.Errorf("worker buffer and batch sizes must be positive")
	}
	if c.WorkerFlushEvery <= 0 {
		return fmt.Errorf("WORKER_FLUSH_EVERY must be positive")
	}
	return nil
}
