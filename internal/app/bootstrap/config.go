package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration for the prior-auth service.
// It merges file defaults and environment overrides to support both local and
// deployed runs. The base URL is injected here rather than derived from the
// first inbound request.
type Config struct {
	ServiceID string

	HTTPPort int
	GRPCPort int

	DatabaseURL string
	RedisURL    string
	MaxDBConns  int32

	BaseURL string

	ResolutionDelay time.Duration
	SweepInterval   time.Duration
	SweepBatchSize  int

	NotifyTimeout time.Duration

	// AdjudicationSeed fixes the simulated-outcome random source when
	// non-zero; zero seeds from the wall clock at startup.
	AdjudicationSeed int64
}

// configFile mirrors the YAML schema used by configs/default.yaml.
// It is intentionally separate from Config so runtime-only fields stay internal.
type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL string `yaml:"postgres_url"`
		RedisURL    string `yaml:"redis_url"`
	} `yaml:"dependencies"`
	Workflow struct {
		BaseURL                string `yaml:"base_url"`
		ResolutionDelaySeconds int    `yaml:"resolution_delay_seconds"`
		SweepIntervalSeconds   int    `yaml:"sweep_interval_seconds"`
		SweepBatchSize         int    `yaml:"sweep_batch_size"`
		AdjudicationSeed       int64  `yaml:"adjudication_seed"`
	} `yaml:"workflow"`
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
// This order keeps local bootstrap simple while allowing environment-specific
// overrides.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:       "prior-auth",
		HTTPPort:        9000,
		GRPCPort:        9090,
		MaxDBConns:      20,
		BaseURL:         "http://localhost:9000",
		ResolutionDelay: 30 * time.Second,
		SweepInterval:   5 * time.Second,
		SweepBatchSize:  100,
		NotifyTimeout:   8 * time.Second,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Service.GRPCPort > 0 {
			cfg.GRPCPort = f.Service.GRPCPort
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if f.Workflow.BaseURL != "" {
			cfg.BaseURL = f.Workflow.BaseURL
		}
		if f.Workflow.ResolutionDelaySeconds > 0 {
			cfg.ResolutionDelay = time.Duration(f.Workflow.ResolutionDelaySeconds) * time.Second
		}
		if f.Workflow.SweepIntervalSeconds > 0 {
			cfg.SweepInterval = time.Duration(f.Workflow.SweepIntervalSeconds) * time.Second
		}
		if f.Workflow.SweepBatchSize > 0 {
			cfg.SweepBatchSize = f.Workflow.SweepBatchSize
		}
		if f.Workflow.AdjudicationSeed != 0 {
			cfg.AdjudicationSeed = f.Workflow.AdjudicationSeed
		}
	}

	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.BaseURL = envOrDefault("BASE_URL", cfg.BaseURL)
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))
	cfg.ResolutionDelay = time.Duration(envInt("RESOLUTION_DELAY_SECONDS", int(cfg.ResolutionDelay.Seconds()))) * time.Second
	cfg.SweepInterval = time.Duration(envInt("SWEEP_INTERVAL_SECONDS", int(cfg.SweepInterval.Seconds()))) * time.Second
	cfg.SweepBatchSize = envInt("SWEEP_BATCH_SIZE", cfg.SweepBatchSize)
	cfg.NotifyTimeout = time.Duration(envInt("NOTIFY_TIMEOUT_SECONDS", int(cfg.NotifyTimeout.Seconds()))) * time.Second
	cfg.AdjudicationSeed = envInt64("ADJUDICATION_SEED", cfg.AdjudicationSeed)

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing DB_URL/POSTGRES_URL")
	}
	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("missing REDIS_URL")
	}

	return cfg, nil
}

// envOrDefault returns an env var when present, otherwise the provided fallback.
func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// envInt parses integer env vars with safe fallback on empty/invalid values.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envInt64(name string, fallback int64) int64 {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return v
}
