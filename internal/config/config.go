package config

import "time"

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Matching MatchingConfig `toml:"matching"`
	Logging  LoggingConfig  `toml:"logging"`
	MCP      MCPConfig      `toml:"mcp"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// MatchingConfig contains matching run settings
type MatchingConfig struct {
	TimeoutSeconds int `toml:"timeout_seconds"`
	Workers        int `toml:"workers"` // 0 = one per CPU
}

// Timeout returns the per-run bound as a duration
func (m MatchingConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutSeconds) * time.Second
}

// LoggingConfig contains logger settings
type LoggingConfig struct {
	JSON  bool `toml:"json"`
	Debug bool `toml:"debug"`
}

// MCPConfig contains MCP server settings
type MCPConfig struct {
	Enabled   bool   `toml:"enabled"`
	Transport string `toml:"transport"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "~/.local/share/internmatch/internmatch.db",
		},
		Matching: MatchingConfig{
			TimeoutSeconds: 30,
			Workers:        0,
		},
		Logging: LoggingConfig{
			JSON:  false,
			Debug: false,
		},
		MCP: MCPConfig{
			Enabled:   true,
			Transport: "stdio",
		},
	}
}
