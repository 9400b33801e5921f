package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Matcher MatcherConfig `yaml:"matcher" mapstructure:"matcher"`
	Tables  TablesConfig  `yaml:"tables" mapstructure:"tables"`
	Batch   BatchConfig   `yaml:"batch" mapstructure:"batch"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// MatcherConfig configures the matching engine defaults. Per-query options
// override these values.
type MatcherConfig struct {
	Weights                WeightsConfig `yaml:"weights" mapstructure:"weights"`
	MaxDistanceMeters      float64       `yaml:"max_distance_meters" mapstructure:"max_distance_meters"`
	ExactDistanceMeters    float64       `yaml:"exact_distance_meters" mapstructure:"exact_distance_meters"`
	MinConfidenceScore     float64       `yaml:"min_confidence_score" mapstructure:"min_confidence_score"`
	StrictMode             bool          `yaml:"strict_mode" mapstructure:"strict_mode"`
	Verbose                bool          `yaml:"verbose" mapstructure:"verbose"`
	ConsistencyBonusMinRaw float64       `yaml:"consistency_bonus_min_raw" mapstructure:"consistency_bonus_min_raw"`
}

// WeightsConfig holds the relative factor weights. They are renormalized to
// sum to 100 before use.
type WeightsConfig struct {
	Name     float64 `yaml:"name" mapstructure:"name"`
	Address  float64 `yaml:"address" mapstructure:"address"`
	Distance float64 `yaml:"distance" mapstructure:"distance"`
	Category float64 `yaml:"category" mapstructure:"category"`
}

// TablesConfig points at an optional dictionary override file.
type TablesConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	MaxConcurrentQueries int `yaml:"max_concurrent_queries" mapstructure:"max_concurrent_queries"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PLACEMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("matcher.weights.name", 40)
	v.SetDefault("matcher.weights.address", 30)
	v.SetDefault("matcher.weights.distance", 20)
	v.SetDefault("matcher.weights.category", 10)
	v.SetDefault("matcher.max_distance_meters", 5000)
	v.SetDefault("matcher.exact_distance_meters", 50)
	v.SetDefault("matcher.min_confidence_score", 30)
	v.SetDefault("matcher.strict_mode", false)
	v.SetDefault("matcher.verbose", false)
	v.SetDefault("matcher.consistency_bonus_min_raw", 85)
	v.SetDefault("tables.path", "")
	v.SetDefault("batch.max_concurrent_queries", 8)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command mode depends on. Every problem is
// reported in a single error. Matcher settings are checked by
// scorer.ValidateConfig.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "match", "normalize":
	case "batch":
		if c.Batch.MaxConcurrentQueries < 1 || c.Batch.MaxConcurrentQueries > 64 {
			errs = append(errs, "batch.max_concurrent_queries must be between 1 and 64")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	switch c.Log.Format {
	case "", "json", "console":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be json or console, got %q", c.Log.Format))
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
