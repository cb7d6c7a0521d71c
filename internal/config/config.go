package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"spreadcli/internal/spread"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
}

// ServerConfig contains HTTP server configuration. A RateLimitRPS of zero
// disables API rate limiting.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" validate:"gte=0"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" validate:"gte=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format      string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output      string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir   string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// AnalysisConfig contains the spread analysis parameters
type AnalysisConfig struct {
	TickSize              float64 `yaml:"tick_size" envconfig:"TICK_SIZE" validate:"gt=0"`
	TickLevels            []int   `yaml:"tick_levels" envconfig:"TICK_LEVELS" validate:"min=1,dive,gt=0"`
	OutlierMADThreshold   float64 `yaml:"outlier_mad_threshold" envconfig:"OUTLIER_MAD_THRESHOLD" validate:"gt=0"`
	MinOutlierTicks       int     `yaml:"min_outlier_ticks" envconfig:"MIN_OUTLIER_TICKS" validate:"gte=1"`
	MinExpandingWindow    int     `yaml:"min_expanding_window" envconfig:"MIN_EXPANDING_WINDOW" validate:"gte=2"`
	StrictDailyOnly       bool    `yaml:"strict_daily_only" envconfig:"STRICT_DAILY_ONLY"`
	MinConditionalSamples int     `yaml:"min_conditional_samples" envconfig:"MIN_CONDITIONAL_SAMPLES" validate:"gte=1"`
	SwingWindow           int     `yaml:"swing_window" envconfig:"SWING_WINDOW" validate:"gte=3"`
	TopNLevels            int     `yaml:"top_n_levels" envconfig:"TOP_N_LEVELS" validate:"gte=1"`
	SRMinDistanceTicks    int     `yaml:"sr_min_distance_ticks" envconfig:"SR_MIN_DISTANCE_TICKS" validate:"gte=1"`
	SRLookbackDays        int     `yaml:"sr_lookback_days" envconfig:"SR_LOOKBACK_DAYS" validate:"gte=1"`
	BootstrapIterations   int     `yaml:"bootstrap_iterations" envconfig:"BOOTSTRAP_ITERATIONS" validate:"gte=1"`
	BootstrapSeed         int64   `yaml:"bootstrap_seed" envconfig:"BOOTSTRAP_SEED"`
}

// Default returns the built-in configuration defaults
func Default() *Config {
	params := spread.DefaultParams()
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimitRPS:    50,
			RateLimitBurst:  100,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/spreadcli.log",
		},
		Paths: PathsConfig{
			DataDir:   "data",
			OutputDir: "out",
			LogsDir:   "logs",
		},
		Analysis: AnalysisConfig{
			TickSize:              params.TickSize,
			TickLevels:            params.TickLevels,
			OutlierMADThreshold:   params.OutlierMADThreshold,
			MinOutlierTicks:       params.MinOutlierTicks,
			MinExpandingWindow:    params.MinExpandingWindow,
			StrictDailyOnly:       params.StrictDailyOnly,
			MinConditionalSamples: params.MinConditionalSamples,
			SwingWindow:           params.SwingWindow,
			TopNLevels:            params.TopNLevels,
			SRMinDistanceTicks:    params.SRMinDistanceTicks,
			SRLookbackDays:        params.SRLookbackDays,
			BootstrapIterations:   params.BootstrapIterations,
			BootstrapSeed:         params.BootstrapSeed,
		},
	}
}

// Load builds the configuration with the precedence env > file > defaults.
// The file is optional; a missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(ConfigFilePath())
}

// LoadFrom is Load with an explicit config file path.
func LoadFrom(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			if err := loadFromFile(configFile, cfg); err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
		}
	}

	if err := envconfig.Process("SPREAD", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// Params converts the analysis section into run parameters
func (c *Config) Params() spread.Params {
	return spread.Params{
		TickSize:              c.Analysis.TickSize,
		TickLevels:            c.Analysis.TickLevels,
		OutlierMADThreshold:   c.Analysis.OutlierMADThreshold,
		MinOutlierTicks:       c.Analysis.MinOutlierTicks,
		MinExpandingWindow:    c.Analysis.MinExpandingWindow,
		StrictDailyOnly:       c.Analysis.StrictDailyOnly,
		MinConditionalSamples: c.Analysis.MinConditionalSamples,
		SwingWindow:           c.Analysis.SwingWindow,
		TopNLevels:            c.Analysis.TopNLevels,
		SRMinDistanceTicks:    c.Analysis.SRMinDistanceTicks,
		SRLookbackDays:        c.Analysis.SRLookbackDays,
		BootstrapIterations:   c.Analysis.BootstrapIterations,
		BootstrapSeed:         c.Analysis.BootstrapSeed,
	}
}
