// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Reader ReaderConfig `toml:"reader"`
	Log    LogConfig    `toml:"log"`
}

// ReaderConfig maps reading-related settings. Nil means unset.
type ReaderConfig struct {
	Lang         *string `toml:"lang"`
	WPM          *int    `toml:"wpm"`
	Chunk        *int    `toml:"chunk"`
	StartDelayMs *int    `toml:"start-delay-ms"`
	Mode         *string `toml:"mode"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Overlay returns base with every set field of over applied on top.
func Overlay(base, over ReaderConfig) ReaderConfig {
	if over.Lang != nil {
		base.Lang = over.Lang
	}
	if over.WPM != nil {
		base.WPM = over.WPM
	}
	if over.Chunk != nil {
		base.Chunk = over.Chunk
	}
	if over.StartDelayMs != nil {
		base.StartDelayMs = over.StartDelayMs
	}
	if over.Mode != nil {
		base.Mode = over.Mode
	}
	return base
}
