package config

import "github.com/bobmcallan/mcp-probe/internal/common"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:    "mcp-probe",
			Version: common.GetVersion(),
			Host:    "localhost",
			Port:    4270,
		},
		Tools: ToolsConfig{
			Enabled: []string{"echo", "read_file", "list_files"},
			Root:    "",
		},
		Logging: common.LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console", "file"},
			FilePath:   "logs/probe.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}
