package config

//
// config.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"errors"
	"io/fs"
	"net/url"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/Synapsr/PodcastSync/internal/aerr"
)

// Backend contains connection configuration of the PodcastSync daemon.
type Backend struct {
	URL        string `toml:"url"`
	EventsPath string `toml:"events_path"`
}

// Player contains configuration of the external audio player.
type Player struct {
	Binary      string   `toml:"binary"`
	ExtraArgs   []string `toml:"extra_args"`
	PreferLocal bool     `toml:"prefer_local"`
}

// Mgmt contains configuration of the optional local management listener
// started in watch mode.
type Mgmt struct {
	Address       string `toml:"address"`
	EnableMetrics bool   `toml:"enable_metrics"`
}

type Config struct {
	Backend Backend `toml:"backend"`
	Player  Player  `toml:"player"`
	Mgmt    Mgmt    `toml:"mgmt"`

	StateDB               string `toml:"state_db"`
	VerifyIntervalMinutes int    `toml:"verify_interval_minutes"`

	DebugFlags DebugFlags `toml:"-"`
}

func Default() *Config {
	return &Config{
		Backend: Backend{
			URL:        "http://127.0.0.1:8799",
			EventsPath: "/api/v1/events",
		},
		Player: Player{
			Binary:      "mpv",
			PreferLocal: true,
		},
		Mgmt: Mgmt{
			Address:       "",
			EnableMetrics: true,
		},
		StateDB:               "podcastsync.sqlite",
		VerifyIntervalMinutes: 10,
	}
}

// Load read configuration from TOML file. Missing file is not an error -
// defaults apply; a broken file is.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) //nolint:gosec
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	} else if err != nil {
		return nil, aerr.Wrapf(err, "read config file failed").
			WithTag(aerr.ConfigurationError).WithMeta("path", path)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, aerr.Wrapf(err, "parse config file failed").
			WithTag(aerr.ConfigurationError).WithMeta("path", path)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Backend.URL == "" {
		return aerr.ErrInvalidConf.WithUserMsg("backend.url can't be empty")
	}

	if u, err := url.Parse(c.Backend.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return aerr.ErrInvalidConf.WithUserMsg("invalid backend.url: %s", c.Backend.URL)
	}

	if c.Backend.EventsPath == "" {
		return aerr.ErrInvalidConf.WithUserMsg("backend.events_path can't be empty")
	}

	if c.Player.Binary == "" {
		return aerr.ErrInvalidConf.WithUserMsg("player.binary can't be empty")
	}

	if c.VerifyIntervalMinutes <= 0 {
		return aerr.ErrInvalidConf.WithUserMsg("verify_interval_minutes must be positive")
	}

	return nil
}
