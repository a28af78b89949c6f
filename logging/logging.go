package logging

import (
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const envPrefix = "SWINGKIT_"

// Config selects level, encoding and sampling for the process logger.
type Config struct {
	Level            string `yaml:"level"`
	Format           string `yaml:"format"` // json or console
	EnableSampling   bool   `yaml:"enable_sampling"`
	SampleInitial    int    `yaml:"sample_initial"`
	SampleThereafter int    `yaml:"sample_thereafter"`
	Development      bool   `yaml:"development"`
	OutputPaths      []string
}

func DefaultConfig() Config {
	return Config{
		Level:            "info",
		Format:           "json",
		EnableSampling:   true,
		SampleInitial:    100,
		SampleThereafter: 1000,
	}
}

// DevelopmentConfig logs every controller event to the console.
func DevelopmentConfig() Config {
	return Config{
		Level:       "debug",
		Format:      "console",
		Development: true,
	}
}

// ConfigFromEnv starts from the development config unless SWINGKIT_ENV is
// "production" and applies SWINGKIT_LOG_* overrides.
func ConfigFromEnv() Config {
	cfg := DevelopmentConfig()
	if strings.ToLower(os.Getenv(envPrefix+"ENV")) == "production" {
		cfg = DefaultConfig()
	}

	if level := os.Getenv(envPrefix + "LOG_LEVEL"); level != "" {
		cfg.Level = level
	}
	if format := os.Getenv(envPrefix + "LOG_FORMAT"); format != "" {
		cfg.Format = format
	}
	if sampling := os.Getenv(envPrefix + "LOG_SAMPLING"); sampling != "" {
		cfg.EnableSampling = strings.ToLower(sampling) == "true"
	}
	if initial := os.Getenv(envPrefix + "LOG_SAMPLE_INITIAL"); initial != "" {
		if v, err := strconv.Atoi(initial); err == nil {
			cfg.SampleInitial = v
		}
	}
	if thereafter := os.Getenv(envPrefix + "LOG_SAMPLE_THEREAFTER"); thereafter != "" {
		if v, err := strconv.Atoi(thereafter); err == nil {
			cfg.SampleThereafter = v
		}
	}
	return cfg
}

// New builds a zap logger. An unparseable level falls back to info.
func New(cfg Config) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zc = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	if cfg.Format == "console" {
		zc.Encoding = "console"
	} else {
		zc.Encoding = "json"
	}

	if cfg.EnableSampling {
		zc.Sampling = &zap.SamplingConfig{
			Initial:    cfg.SampleInitial,
			Thereafter: cfg.SampleThereafter,
		}
	} else {
		zc.Sampling = nil
	}

	if len(cfg.OutputPaths) > 0 {
		zc.OutputPaths = cfg.OutputPaths
	}

	return zc.Build(zap.AddStacktrace(zapcore.ErrorLevel))
}

// Named returns a child logger tagged with a component field.
func Named(log *zap.Logger, component string) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log.Named(component).With(zap.String("component", component))
}
