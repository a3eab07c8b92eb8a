package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/stripboard/core/metrics"
	"github.com/kilianp07/stripboard/core/sched"
	"github.com/kilianp07/stripboard/infra/notify"
	"github.com/kilianp07/stripboard/infra/oracle"
	"github.com/kilianp07/stripboard/infra/store"
)

// OracleConfig selects and configures the planning backend.
type OracleConfig struct {
	// Mode is "rule" for the built-in planner or "http" for a remote one.
	Mode string        `json:"mode"`
	HTTP oracle.Config `json:"http"`
}

// SetDefaults applies sane defaults.
func (c *OracleConfig) SetDefaults() {
	if c.Mode == "" {
		c.Mode = "rule"
	}
}

// Validate checks the selected mode.
func (c OracleConfig) Validate() error {
	switch c.Mode {
	case "rule":
		return nil
	case "http":
		if c.HTTP.URL == "" {
			return fmt.Errorf("oracle: http mode requires a url")
		}
		return nil
	default:
		return fmt.Errorf("oracle: unknown mode %q", c.Mode)
	}
}

// Config is the full service configuration.
type Config struct {
	Scheduling sched.Config   `json:"scheduling"`
	Oracle     OracleConfig   `json:"oracle"`
	Metrics    metrics.Config `json:"metrics"`
	Storage    store.Config   `json:"storage"`
	Notify     notify.Config  `json:"notify"`
}

// Load reads the configuration file (JSON or YAML) and applies environment
// overrides with the SB_ prefix, "__" standing in for the key separator.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("SB_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "sb_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Scheduling.SetDefaults()
	cfg.Oracle.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.Storage.SetDefaults()
	cfg.Notify.SetDefaults()
	if err := cfg.Scheduling.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Oracle.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Notify.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
