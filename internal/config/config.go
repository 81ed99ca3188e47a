package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tracewell/skiptrace/internal/dedupe"
	"github.com/tracewell/skiptrace/internal/metrics"
	"github.com/tracewell/skiptrace/internal/relevance"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig      `yaml:"store" mapstructure:"store"`
	Geo       GeoConfig        `yaml:"geo" mapstructure:"geo"`
	Extract   ExtractConfig    `yaml:"extract" mapstructure:"extract"`
	Relevance relevance.Config `yaml:"relevance" mapstructure:"relevance"`
	Dedupe    dedupe.Config    `yaml:"dedupe" mapstructure:"dedupe"`
	Metrics   metrics.Config   `yaml:"metrics" mapstructure:"metrics"`
	Pipeline  PipelineConfig   `yaml:"pipeline" mapstructure:"pipeline"`
	Server    ServerConfig     `yaml:"server" mapstructure:"server"`
	Log       LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// GeoConfig configures the regional reference data.
type GeoConfig struct {
	// RegionsPath overrides the embedded area-code/region tables.
	// Empty means use the compiled-in dataset.
	RegionsPath string `yaml:"regions_path" mapstructure:"regions_path"`
}

// ExtractConfig configures entity extraction behavior.
type ExtractConfig struct {
	// InteractiveCap caps entities per result in interactive commands.
	// Zero means uncapped (batch mode).
	InteractiveCap int `yaml:"interactive_cap" mapstructure:"interactive_cap"`
}

// PipelineConfig configures the analysis pipeline.
type PipelineConfig struct {
	MaxConcurrentSources int `yaml:"max_concurrent_sources" mapstructure:"max_concurrent_sources"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port      int     `yaml:"port" mapstructure:"port"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst int     `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Validate checks the fields a given mode depends on. Mode is the
// command about to run ("serve", "analyze", "extract").
func (c *Config) Validate(mode string) error {
	var missing []string

	checkCommon := func() {
		switch c.Store.Driver {
		case "sqlite", "postgres":
		default:
			missing = append(missing, "store.driver must be sqlite or postgres")
		}
		if c.Store.DatabaseURL == "" {
			missing = append(missing, "store.database_url is required")
		}
		if c.Pipeline.MaxConcurrentSources < 1 || c.Pipeline.MaxConcurrentSources > 32 {
			missing = append(missing, "pipeline.max_concurrent_sources must be between 1 and 32")
		}
	}

	switch mode {
	case "serve":
		checkCommon()
		if c.Server.Port <= 0 {
			missing = append(missing, "server.port must be > 0")
		}
		if c.Server.RateLimit <= 0 {
			missing = append(missing, "server.rate_limit must be > 0")
		}
	case "analyze":
		checkCommon()
	case "extract", "relevance":
		if c.Extract.InteractiveCap < 0 {
			missing = append(missing, "extract.interactive_cap must be >= 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(missing) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(missing, "; "))
	}
	return nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SKIPTRACE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "skiptrace.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 10.0)
	v.SetDefault("server.rate_burst", 20)
	v.SetDefault("pipeline.max_concurrent_sources", 4)
	v.SetDefault("extract.interactive_cap", 5)

	rel := relevance.DefaultConfig()
	v.SetDefault("relevance.name_token_weight", rel.NameTokenWeight)
	v.SetDefault("relevance.stem_weight", rel.StemWeight)
	v.SetDefault("relevance.city_weight", rel.CityWeight)
	v.SetDefault("relevance.state_weight", rel.StateWeight)
	v.SetDefault("relevance.proximity_weight", rel.ProximityWeight)
	v.SetDefault("relevance.phone_exact_weight", rel.PhoneExactWeight)
	v.SetDefault("relevance.phone_area_weight", rel.PhoneAreaWeight)
	v.SetDefault("relevance.email_weight", rel.EmailWeight)
	v.SetDefault("relevance.pattern_bonus", rel.PatternBonus)

	dd := dedupe.DefaultConfig()
	v.SetDefault("dedupe.snippet_threshold", dd.SnippetThreshold)
	v.SetDefault("dedupe.title_threshold", dd.TitleThreshold)
	v.SetDefault("dedupe.corroboration_boost", dd.CorroborationBoost)

	mt := metrics.DefaultConfig()
	v.SetDefault("metrics.high_confidence_threshold", mt.HighConfidenceThreshold)
	v.SetDefault("metrics.expected_results", mt.ExpectedResults)

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

	// Source tiers are a structured list; viper defaults handle scalars
	// only, so fall back to the built-in tiers when the file omits them.
	if len(cfg.Relevance.SourceTiers) == 0 {
		cfg.Relevance.SourceTiers = rel.SourceTiers
	}

	if err := relevance.Validate(cfg.Relevance); err != nil {
		return nil, eris.Wrap(err, "config: relevance weights")
	}

	return &cfg, nil
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
