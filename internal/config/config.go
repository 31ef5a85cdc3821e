package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Session SessionConfig `toml:"session"`
	Scenes  ScenesConfig  `toml:"scenes"`
	Tick    TickConfig    `toml:"tick"`
	HUD     HUDConfig     `toml:"hud"`
	Logging LoggingConfig `toml:"logging"`
}

type SessionConfig struct {
	PlayerJoinDelay       time.Duration `toml:"player_join_delay"`
	GameOverDelay         time.Duration `toml:"game_over_delay"`
	SunSpeedDivisor       float64       `toml:"sun_speed_divisor"` // 360 * divisor = seconds per in-game day
	CountTime             bool          `toml:"count_time"`
	WaveStartText         string        `toml:"wave_start_text"`
	GameOverText          string        `toml:"game_over_text"`
	SecondaryGameOverText string        `toml:"secondary_game_over_text"`
	Spawn                 SpawnConfig   `toml:"spawn"`
}

type SpawnConfig struct {
	X       float64 `toml:"x"`
	Y       float64 `toml:"y"`
	Z       float64 `toml:"z"`
	Heading float64 `toml:"heading"`
}

type ScenesConfig struct {
	ListPath    string `toml:"list_path"`
	StartIndex  int    `toml:"start_index"`
	MenuKeyword string `toml:"menu_keyword"`
	GameKeyword string `toml:"game_keyword"`
	FoldCase    bool   `toml:"fold_case"`
	Classifier  string `toml:"classifier"` // "keyword" or "lua"
	Script      string `toml:"script"`
}

type TickConfig struct {
	Rate        time.Duration `toml:"rate"`
	MaxCommands int           `toml:"max_commands"` // per tick
}

type HUDConfig struct {
	Enabled      bool          `toml:"enabled"`
	BindAddress  string        `toml:"bind_address"`
	Stopwatch    bool          `toml:"stopwatch"`
	InQueueSize  int           `toml:"in_queue_size"`
	OutQueueSize int           `toml:"out_queue_size"`
	WriteTimeout time.Duration `toml:"write_timeout"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes TOML on top of the defaults. name is only used in errors.
func Parse(data []byte, name string) (*Config, error) {
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", name, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", name, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Session.SunSpeedDivisor == 0 {
		return fmt.Errorf("session.sun_speed_divisor must be non-zero")
	}
	if c.Session.PlayerJoinDelay < 0 || c.Session.GameOverDelay < 0 {
		return fmt.Errorf("session delays must not be negative")
	}
	if c.Tick.Rate <= 0 {
		return fmt.Errorf("tick.rate must be positive")
	}
	switch c.Scenes.Classifier {
	case "keyword":
	case "lua":
		if c.Scenes.Script == "" {
			return fmt.Errorf("scenes.script is required for the lua classifier")
		}
	default:
		return fmt.Errorf("unknown scenes.classifier %q", c.Scenes.Classifier)
	}
	return nil
}

// Defaults returns the configuration used when a key is absent.
func Defaults() *Config {
	return &Config{
		Session: SessionConfig{
			PlayerJoinDelay:       time.Second,
			GameOverDelay:         5 * time.Second,
			SunSpeedDivisor:       4,
			CountTime:             true,
			WaveStartText:         "Press Enter to start the waves",
			GameOverText:          "Game Over",
			SecondaryGameOverText: "Press Escape to return to the menu",
		},
		Scenes: ScenesConfig{
			ListPath:    "data/yaml/scene_list.yaml",
			MenuKeyword: "Menu",
			GameKeyword: "Game",
			Classifier:  "keyword",
		},
		Tick: TickConfig{
			Rate:        20 * time.Millisecond,
			MaxCommands: 16,
		},
		HUD: HUDConfig{
			Enabled:      true,
			BindAddress:  "127.0.0.1:7070",
			Stopwatch:    true,
			InQueueSize:  64,
			OutQueueSize: 64,
			WriteTimeout: 5 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
