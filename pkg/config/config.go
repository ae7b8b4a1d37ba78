// Package config loads user settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/lineage/config.toml (or
// ~/.config/lineage/config.toml). Every key is optional; missing keys keep
// their defaults and unknown keys are rejected so that typos surface early.
//
//	[layout]
//	rank_spacing = 250
//	orientation = "horizontal"
//
//	[animation]
//	duration_ms = 750
//	easing = "cubic-in-out"
//	connector = "elbow"
//
//	[server]
//	addr = ":8080"
//	redis_url = "redis://localhost:6379/0"
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/layout"
)

// AppName names the config and cache directories.
const AppName = "lineage"

// Config is the whole configuration file.
type Config struct {
	Layout    layout.Config `toml:"layout"`
	Animation Animation     `toml:"animation"`
	Viewport  Viewport      `toml:"viewport"`
	Render    Render        `toml:"render"`
	Server    Server        `toml:"server"`
	Source    Source        `toml:"source"`
}

// Animation controls transitions between layouts.
type Animation struct {
	DurationMS int64  `toml:"duration_ms"`
	Easing     string `toml:"easing"`
	Connector  string `toml:"connector"`
}

// Duration returns DurationMS as a time.Duration.
func (a Animation) Duration() time.Duration {
	return time.Duration(a.DurationMS) * time.Millisecond
}

// Viewport describes the drawing surface of interactive hosts.
type Viewport struct {
	Width   int     `toml:"width"`
	Height  int     `toml:"height"`
	MinZoom float64 `toml:"min_zoom"`
	MaxZoom float64 `toml:"max_zoom"`
	OffsetX float64 `toml:"offset_x"`
}

// Render holds defaults for static output.
type Render struct {
	InitialDepth int `toml:"initial_depth"`
}

// Server configures `lineage serve`.
type Server struct {
	Addr        string `toml:"addr"`
	SessionTTL  string `toml:"session_ttl"`
	MaxSessions int    `toml:"max_sessions"`
	RedisURL    string `toml:"redis_url"`
	KeyPrefix   string `toml:"key_prefix"`
}

// TTL parses SessionTTL.
func (s Server) TTL() (time.Duration, error) {
	d, err := time.ParseDuration(s.SessionTTL)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidConfig, err, "server.session_ttl %q", s.SessionTTL)
	}
	return d, nil
}

// Source configures database-backed family trees.
type Source struct {
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: layout.DefaultConfig(),
		Animation: Animation{
			DurationMS: 750,
			Easing:     "cubic-in-out",
			Connector:  "elbow",
		},
		Viewport: Viewport{
			Width:   960,
			Height:  800,
			MinZoom: 0.4,
			MaxZoom: 4,
			OffsetX: 90,
		},
		Render: Render{InitialDepth: 1},
		Server: Server{
			Addr:        ":8080",
			SessionTTL:  "2h",
			MaxSessions: 1000,
		},
		Source: Source{
			MongoDatabase:   "lineage",
			MongoCollection: "families",
		},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// Load reads the config file at path on top of the defaults. An empty path
// means the default location, where a missing file is not an error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Config{}, err
	}
	return Parse(data)
}

// Parse decodes TOML on top of the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	if c.Animation.DurationMS < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "animation.duration_ms must not be negative")
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "viewport size must be positive")
	}
	if c.Viewport.MinZoom <= 0 || c.Viewport.MaxZoom < c.Viewport.MinZoom {
		return errors.New(errors.ErrCodeInvalidConfig, "viewport zoom range [%g, %g] is invalid", c.Viewport.MinZoom, c.Viewport.MaxZoom)
	}
	if c.Render.InitialDepth < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render.initial_depth must not be negative")
	}
	if _, err := c.Server.TTL(); err != nil {
		return err
	}
	return nil
}

// Encode writes cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
