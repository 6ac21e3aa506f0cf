package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"walletprobe.com/internal/domain/entity"
	"walletprobe.com/internal/infrastructure/logger"
)

const (
	DefaultBaseURL  = "http://localhost:8080/api/v1"
	DefaultWalletID = "b49c66cb-90f8-4ad7-b2b3-fd993e9d9efd"
)

// Config holds the probe configuration
type Config struct {
	Target  Target  `mapstructure:"target"`
	Load    Load    `mapstructure:"load"`
	Log     Log     `mapstructure:"log"`
	Metrics Metrics `mapstructure:"metrics"`
}

// Target identifies the wallet service and the wallet under test
type Target struct {
	BaseURL  string    `mapstructure:"baseUrl"`
	WalletID string    `mapstructure:"walletId"`
	Wallet   uuid.UUID `mapstructure:"-"`
}

// Load configuration
type Load struct {
	Stages       []entity.Stage `mapstructure:"stages"`
	ThinkTime    time.Duration  `mapstructure:"thinkTime"`
	GracefulStop time.Duration  `mapstructure:"gracefulStop"`
}

// Log configuration
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Metrics configuration. An empty Addr disables the endpoint.
type Metrics struct {
	Addr string `mapstructure:"addr"`
}

// Profile returns the load profile built from the configured stages
func (c *Config) Profile() entity.LoadProfile {
	return entity.LoadProfile{Stages: c.Load.Stages}
}

// LoadConfig loads configuration from YAML files, .env files and the environment.
// Uses CONFIG_ENV environment variable to determine which config file to load
func LoadConfig(configDir string) (*Config, error) {
	// .env values never override variables already set
	for _, path := range []string{".env", filepath.Join(configDir, ".env")} {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", path, err)
		}
	}

	configEnv := os.Getenv("CONFIG_ENV")
	if configEnv == "" {
		configEnv = "local"
	}

	v := viper.New()
	v.SetDefault("target.baseUrl", DefaultBaseURL)
	v.SetDefault("target.walletId", DefaultWalletID)
	v.SetDefault("load.thinkTime", "100ms")
	v.SetDefault("load.gracefulStop", "30s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", logger.FormatJSON)
	v.SetDefault("metrics.addr", "")

	// Load base app-config.yaml as template/defaults (if it exists)
	baseConfigPath := filepath.Join(configDir, "app-config.yaml")
	if _, err := os.Stat(baseConfigPath); err == nil {
		v.SetConfigFile(baseConfigPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read base config file: %w", err)
		}
	}

	// Merge environment-specific config (e.g., local.yaml when CONFIG_ENV=local)
	envConfigPath := filepath.Join(configDir, configEnv+".yaml")
	if _, err := os.Stat(envConfigPath); err == nil {
		v.SetConfigFile(envConfigPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to merge env config file: %w", err)
		}
	}

	v.SetEnvPrefix("PROBE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// BASE_URL and WALLET_ID are also accepted without the prefix
	_ = v.BindEnv("target.baseUrl", "PROBE_TARGET_BASE_URL", "BASE_URL")
	_ = v.BindEnv("target.walletId", "PROBE_TARGET_WALLET_ID", "WALLET_ID")
	_ = v.BindEnv("load.thinkTime", "PROBE_THINK_TIME")
	_ = v.BindEnv("load.gracefulStop", "PROBE_GRACEFUL_STOP")
	_ = v.BindEnv("log.level", "PROBE_LOG_LEVEL", "LOG_LEVEL")
	_ = v.BindEnv("log.format", "PROBE_LOG_FORMAT")
	_ = v.BindEnv("metrics.addr", "PROBE_METRICS_ADDR")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Stages are a list, so the environment form is parsed by hand
	if raw := os.Getenv("PROBE_STAGES"); raw != "" {
		stages, err := ParseStages(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid PROBE_STAGES: %w", err)
		}
		cfg.Load.Stages = stages
	}
	if len(cfg.Load.Stages) == 0 {
		cfg.Load.Stages = entity.DefaultStages()
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	c.Target.BaseURL = strings.TrimRight(c.Target.BaseURL, "/")
	u, err := url.Parse(c.Target.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", entity.ErrInvalidBaseURL, c.Target.BaseURL)
	}

	wallet, err := uuid.Parse(c.Target.WalletID)
	if err != nil {
		return fmt.Errorf("invalid wallet id %q: %w", c.Target.WalletID, err)
	}
	if wallet == uuid.Nil {
		return entity.ErrMissingWalletID
	}
	c.Target.Wallet = wallet

	if err := c.Profile().Validate(); err != nil {
		return fmt.Errorf("invalid load profile: %w", err)
	}
	if c.Load.ThinkTime < 0 {
		return fmt.Errorf("think time must not be negative: %s", c.Load.ThinkTime)
	}
	if c.Load.GracefulStop < 0 {
		return fmt.Errorf("graceful stop must not be negative: %s", c.Load.GracefulStop)
	}

	switch c.Log.Format {
	case logger.FormatJSON, logger.FormatConsole:
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}

	return nil
}

// ParseStages parses a comma separated list of duration:target pairs,
// e.g. "1s:100,30s:2000,1s:100"
func ParseStages(raw string) ([]entity.Stage, error) {
	parts := strings.Split(raw, ",")
	stages := make([]entity.Stage, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		durationStr, targetStr, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("stage %q: expected duration:target", part)
		}
		duration, err := time.ParseDuration(strings.TrimSpace(durationStr))
		if err != nil {
			return nil, fmt.Errorf("stage %q: %w", part, err)
		}
		target, err := strconv.Atoi(strings.TrimSpace(targetStr))
		if err != nil {
			return nil, fmt.Errorf("stage %q: %w", part, err)
		}

		stages = append(stages, entity.Stage{Duration: duration, Target: target})
	}

	if len(stages) == 0 {
		return nil, entity.ErrNoStages
	}
	return stages, nil
}
