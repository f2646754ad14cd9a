package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/mcp-probe/internal/common"
)

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig         `toml:"server"`
	Tools   ToolsConfig          `toml:"tools"`
	Logging common.LoggingConfig `toml:"logging"`
}

// ServerConfig contains server identity and HTTP settings.
type ServerConfig struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
}

// ToolsConfig controls which built-in tools are registered and where
// filesystem tools are allowed to operate.
type ToolsConfig struct {
	// Enabled lists the built-in tool names to register, in order.
	// Unknown names are skipped with a warning.
	Enabled []string `toml:"enabled"`
	// Root confines read_file/list_files to a directory tree when set.
	// Empty means unrestricted.
	Root string `toml:"root"`
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
// A missing file is not an error; defaults apply.
func LoadFromFile(path string) (*Config, error) {
	config := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		} else {
			if err := toml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies PROBE_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if port := os.Getenv("PROBE_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("PROBE_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if root := os.Getenv("PROBE_TOOLS_ROOT"); root != "" {
		config.Tools.Root = root
	}
	if level := os.Getenv("PROBE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}
