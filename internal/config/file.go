package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig is the structure of a numfmt YAML configuration file.
// Pointer fields distinguish "absent" from the zero value.
type FileConfig struct {
	Op          string `yaml:"op"`
	MaxBuffer   string `yaml:"max_buffer"`
	Concurrency *int   `yaml:"concurrency"`
	Timeout     string `yaml:"timeout"`
	Output      string `yaml:"output"`
	Quiet       *bool  `yaml:"quiet"`
	Verbose     *bool  `yaml:"verbose"`
	NoColor     *bool  `yaml:"no_color"`
	JSONLogs    *bool  `yaml:"json_logs"`
	Server      struct {
		Listen         string   `yaml:"listen"`
		AllowedOrigins []string `yaml:"allowed_origins"`
		MaxValues      int      `yaml:"max_values"`
	} `yaml:"server"`
}

// LoadFile reads and parses a YAML configuration file.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if cfg.Timeout != "" {
		if _, err := time.ParseDuration(cfg.Timeout); err != nil {
			return nil, fmt.Errorf("parse config file %s: timeout: %w", path, err)
		}
	}
	return &cfg, nil
}

// apply copies file values into config for every field whose flag was not
// set on the command line.
func (fc *FileConfig) apply(config *AppConfig, fs *flag.FlagSet) {
	set := func(names ...string) bool { return isFlagSetAny(fs, names...) }

	if fc.Op != "" && config.Op == "" && !set("op") {
		config.Op = fc.Op
	}
	if fc.MaxBuffer != "" && !set("max-buffer") {
		config.MaxBuffer = fc.MaxBuffer
	}
	if fc.Concurrency != nil && !set("concurrency") {
		config.Concurrency = *fc.Concurrency
	}
	if fc.Timeout != "" && !set("timeout") {
		config.Timeout, _ = time.ParseDuration(fc.Timeout)
	}
	if fc.Output != "" && !set("output", "o") {
		config.OutputFile = fc.Output
	}
	if fc.Quiet != nil && !set("quiet", "q") {
		config.Quiet = *fc.Quiet
	}
	if fc.Verbose != nil && !set("verbose", "v") {
		config.Verbose = *fc.Verbose
	}
	if fc.NoColor != nil && !set("no-color") {
		config.NoColor = *fc.NoColor
	}
	if fc.JSONLogs != nil && !set("json-logs") {
		config.JSONLogs = *fc.JSONLogs
	}
	if fc.Server.Listen != "" && !set("serve") {
		config.Serve = fc.Server.Listen
	}
	if len(fc.Server.AllowedOrigins) > 0 && !set("cors-origins") {
		config.AllowedOrigins = fc.Server.AllowedOrigins
	}
	if fc.Server.MaxValues > 0 && !set("max-values") {
		config.MaxValues = fc.Server.MaxValues
	}
}
