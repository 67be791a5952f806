// Package config loads scribe's configuration from
// $XDG_CONFIG_HOME/scribe/config.yaml (or the platform equivalent), with
// environment variable overrides under the SCRIBE_ prefix.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Write   WriteConfig   `mapstructure:"write" yaml:"write"`
	Preview PreviewConfig `mapstructure:"preview" yaml:"preview"`
	History HistoryConfig `mapstructure:"history" yaml:"history"`
	Theme   ThemeConfig   `mapstructure:"theme" yaml:"theme"`
}

// WriteConfig sets the insertion defaults the CLI uses when flags are absent.
type WriteConfig struct {
	PacingMs int  `mapstructure:"pacing_ms" yaml:"pacing_ms"` // tick interval for animated insertion
	Strict   bool `mapstructure:"strict" yaml:"strict"`       // stop on first rejected mutation
}

// PreviewConfig configures the accept/reject workflow.
type PreviewConfig struct {
	FreshMarkerMs int `mapstructure:"fresh_marker_ms" yaml:"fresh_marker_ms"` // 0 disables the marker
}

// HistoryConfig configures the local run log.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"` // empty means the default location
}

// ThemeConfig allows customization of CLI colors. Values are ANSI color
// numbers (0-255) or hex codes (#RRGGBB).
type ThemeConfig struct {
	Primary string `mapstructure:"primary" yaml:"primary"`
	Success string `mapstructure:"success" yaml:"success"`
	Error   string `mapstructure:"error" yaml:"error"`
	Muted   string `mapstructure:"muted" yaml:"muted"`
}

// GetConfigDir returns the directory scribe's config file lives in.
func GetConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	return filepath.Join(base, "scribe"), nil
}

// Load reads the config file and environment. A missing file is not an
// error; defaults apply.
func Load() (*Config, error) {
	configPath, err := GetConfigDir()
	if err != nil {
		return nil, err
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AddConfigPath(".")

	viper.SetDefault("write.pacing_ms", 30)
	viper.SetDefault("write.strict", false)
	viper.SetDefault("preview.fresh_marker_ms", 1500)
	viper.SetDefault("history.enabled", true)

	viper.SetEnvPrefix("scribe")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// WriteDefault writes a starter config file, refusing to clobber an
// existing one. Returns the file path.
func WriteDefault() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config dir: %w", err)
	}
	path := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("config already exists at %s", path)
	}

	cfg := Config{
		Write:   WriteConfig{PacingMs: 30},
		Preview: PreviewConfig{FreshMarkerMs: 1500},
		History: HistoryConfig{Enabled: true},
	}
	out, err := yaml.Marshal(&cfg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	return path, nil
}
