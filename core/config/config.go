package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tristendillon/injscope/core/logger"
	"gopkg.in/yaml.v3"
)

const FileName = "injscope.yaml"

type Config struct {
	Snapshot string `yaml:"snapshot"`
	Tree     Tree   `yaml:"tree"`
	Output   Output `yaml:"output"`
	IDs      IDs    `yaml:"ids"`
}

type Tree struct {
	CollapseSiblings          bool `yaml:"collapse_siblings"`
	HideEmptyElementInjectors bool `yaml:"hide_empty_element_injectors"`
	HideFrameworkInjectors    bool `yaml:"hide_framework_injectors"`
}

type Output struct {
	Format string `yaml:"format"`
}

type IDs struct {
	Strategy string `yaml:"strategy"`
}

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"

	StrategyUUID       = "uuid"
	StrategyStable     = "stable"
	StrategySequential = "sequential"
)

func Default() *Config {
	return &Config{
		Snapshot: "snapshot.yaml",
		Tree: Tree{
			CollapseSiblings: true,
		},
		Output: Output{Format: FormatText},
		IDs:    IDs{Strategy: StrategyStable},
	}
}

func (c *Config) Validate() error {
	switch c.Output.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("unknown output format %q", c.Output.Format)
	}
	switch c.IDs.Strategy {
	case StrategyUUID, StrategyStable, StrategySequential:
	default:
		return fmt.Errorf("unknown id strategy %q", c.IDs.Strategy)
	}
	return nil
}

// Load reads injscope.yaml from the working directory, falling back to the
// defaults when there is none.
func Load() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("cannot determine working dir: %w", err)
	}
	return LoadFrom(filepath.Join(wd, FileName))
}

func LoadFrom(filePath string) (*Config, error) {
	if _, err := os.Stat(filePath); err != nil {
		logger.Debug("No config file found, using default config")
		return Default(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filePath, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filePath, err)
	}
	logger.Debug("Config file found: %s", filePath)
	logger.Debug("Config: %+v", *cfg)

	return cfg, nil
}
