// Package config provides configuration loading and validation for the
// CodeSage CLI.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/KuaaMU/codesage/pkg/lang"
	"github.com/KuaaMU/codesage/pkg/report"
	"github.com/KuaaMU/codesage/pkg/review"
)

// Sentinel validation errors.
var (
	ErrInvalidWorkers = errors.New("analysis workers must be positive")
	ErrNoExtensions   = errors.New("analysis extensions must not be empty")
	ErrInvalidTimeout = errors.New("ai timeout must be positive")
)

// Config holds all configuration for the CodeSage CLI.
type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	AI       AIConfig       `mapstructure:"ai"       yaml:"ai"`
	Output   OutputConfig   `mapstructure:"output"   yaml:"output"`
}

// AnalysisConfig holds analysis-specific configuration.
type AnalysisConfig struct {
	Workers    int      `mapstructure:"workers"    yaml:"workers"`
	Extensions []string `mapstructure:"extensions" yaml:"extensions"`
}

// AIConfig holds the AI review configuration. The key may also arrive via
// CODESAGE_AI_API_KEY or the client's own fallback environment variables.
type AIConfig struct {
	APIKey  string        `mapstructure:"api_key"  yaml:"api_key,omitempty"`
	Model   string        `mapstructure:"model"    yaml:"model"`
	BaseURL string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"  yaml:"timeout"`
}

// OutputConfig holds output-specific configuration.
type OutputConfig struct {
	Format  string `mapstructure:"format"   yaml:"format"`
	NoColor bool   `mapstructure:"no_color" yaml:"no_color"`
}

// Load reads configuration from an optional file and CODESAGE_* environment
// variables, applying defaults and validation.
func Load(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("codesage")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("$HOME/.config/codesage")
	}

	viperCfg.SetEnvPrefix("CODESAGE")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if readErr := viperCfg.ReadInConfig(); readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	if unmarshalErr := viperCfg.Unmarshal(&config); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	if validateErr := validate(&config); validateErr != nil {
		return nil, fmt.Errorf("%w: %w", review.ErrConfig, validateErr)
	}

	return &config, nil
}

func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("analysis.workers", runtime.NumCPU())
	viperCfg.SetDefault("analysis.extensions", lang.Extensions())

	viperCfg.SetDefault("ai.model", "claude-3-5-sonnet-20241022")
	viperCfg.SetDefault("ai.base_url", "https://api.anthropic.com/v1")
	viperCfg.SetDefault("ai.timeout", "60s")

	viperCfg.SetDefault("output.format", report.FormatText)
	viperCfg.SetDefault("output.no_color", false)
}

func validate(config *Config) error {
	if config.Analysis.Workers <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, config.Analysis.Workers)
	}

	if len(config.Analysis.Extensions) == 0 {
		return ErrNoExtensions
	}

	if config.AI.Timeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, config.AI.Timeout)
	}

	// Output.Format is deliberately not validated here. Unknown selectors
	// degrade to text with a warning at render time instead of failing the
	// load.
	return nil
}
