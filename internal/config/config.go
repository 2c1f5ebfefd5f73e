package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// FileName is the default config file, looked up in the working directory.
	FileName = ".webidl-dts.yaml"
	// EnvVar names an alternative config file.
	EnvVar = "WEBIDL_DTS_CONFIG"

	defaultFetchTimeout = 30 * time.Second
)

// Config represents the .webidl-dts.yaml configuration file.
type Config struct {
	Emscripten    bool        `yaml:"emscripten"`
	Module        string      `yaml:"module"`
	DefaultExport bool        `yaml:"defaultExport"`
	Strict        bool        `yaml:"strict"`
	Repl          ReplConfig  `yaml:"repl"`
	Fetch         FetchConfig `yaml:"fetch"`
}

// ReplConfig holds playground server configuration.
type ReplConfig struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

// FetchConfig holds remote input configuration.
type FetchConfig struct {
	Timeout time.Duration `yaml:"timeout"` // e.g. "10s" (default 30s)
}

// FetchTimeout returns the configured fetch timeout or the default.
func (c *Config) FetchTimeout() time.Duration {
	if c.Fetch.Timeout > 0 {
		return c.Fetch.Timeout
	}
	return defaultFetchTimeout
}

// Load resolves and loads the config file with priority: flagPath > WEBIDL_DTS_CONFIG env > .webidl-dts.yaml in cwd.
// Returns a zero-value config if no file is found at the default path.
// Returns an error if an explicit path (flag or env) doesn't exist or contains invalid YAML.
func Load(flagPath string) (*Config, error) {
	path := flagPath
	explicit := true

	if path == "" {
		path = os.Getenv(EnvVar)
	}

	if path == "" {
		path = FileName
		explicit = false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return &cfg, nil
}

// Template is the commented config written by Init.
const Template = `# webidl-dts-gen configuration.
# Command-line flags take precedence over these values.

# Emit an Emscripten module instead of plain ambient declarations.
emscripten: false

# Name of the Emscripten module.
module: Module

# Add "export default <module>;" in Emscripten mode.
defaultExport: false

# Report unsupported constructs as errors and exit non-zero.
strict: false

repl:
  address: 127.0.0.1
  port: 8276

fetch:
  timeout: 30s
`

// ErrExists is returned by Init when the target file already exists.
var ErrExists = errors.New("config file already exists")

// Init writes Template to path. It never overwrites an existing file.
func Init(path string) error {
	if path == "" {
		path = FileName
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%s: %w", path, ErrExists)
		}
		return fmt.Errorf("creating config: %w", err)
	}
	if _, err := f.WriteString(Template); err != nil {
		f.Close()
		return fmt.Errorf("writing config: %w", err)
	}
	return f.Close()
}
