// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Game   GameConfig   `toml:"game"`
	Share  ShareConfig  `toml:"share"`
	Server ServerConfig `toml:"server"`
}

// GameConfig maps game-related settings.
type GameConfig struct {
	Player   *string  `toml:"player"`
	Duration *int     `toml:"duration"`
	Race     *bool    `toml:"race"`
	Mode     *string  `toml:"mode"`
	Words    *int     `toml:"words"`
	WordList *string  `toml:"wordlist"`
	CapsPct  *float64 `toml:"caps"`
	PunctPct *float64 `toml:"punct"`
}

// ShareConfig maps share-link settings.
type ShareConfig struct {
	BaseURL *string `toml:"base-url"`
}

// ServerConfig maps HTTP API settings.
type ServerConfig struct {
	Addr *string `toml:"addr"`
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
