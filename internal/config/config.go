// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Foyer Contributors

// Package config loads the client configuration from a YAML file and
// command-line flags. Precedence, lowest to highest: flag defaults,
// config file, explicitly set flags.
package config

import (
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/foyerhq/foyer/internal/xdg"
)

// Defaults.
const (
	DefaultServerURL = "http://localhost:8000"
	DefaultTimeout   = 15 * time.Second
	DefaultLogFormat = "text"
	DefaultLogLevel  = "info"
)

// Config is the fully resolved client configuration.
type Config struct {
	Server  Server  `koanf:"server"`
	Log     Log     `koanf:"log"`
	Session Session `koanf:"session"`
	Routes  Routes  `koanf:"routes"`
}

// Server configures the token service endpoint.
type Server struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
}

// Log configures diagnostic output.
type Log struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// Session configures where the durable session record lives. An empty
// Dir means the XDG state directory.
type Session struct {
	Dir string `koanf:"dir"`
}

// Routes configures the navigation guard patterns.
type Routes struct {
	Protected []string `koanf:"protected"`
	Entry     []string `koanf:"entry"`
}

// BindFlags registers the configuration flags on fs. Flag names use
// the same dotted keys as the YAML file, so an explicitly set flag
// overrides the file value for that key.
func BindFlags(fs *pflag.FlagSet) {
	fs.String("server.url", DefaultServerURL, "base URL of the token service")
	fs.Duration("server.timeout", DefaultTimeout, "HTTP request timeout")
	fs.String("log.format", DefaultLogFormat, "log format (text or json)")
	fs.String("log.level", DefaultLogLevel, "log level (debug, info, warn, error)")
	fs.String("session.dir", "", "session record directory (default: XDG state dir)")
	fs.StringSlice("routes.protected", nil, "glob patterns of paths requiring authentication")
	fs.StringSlice("routes.entry", nil, "glob patterns of entry paths")
}

// Load resolves the configuration. When path is empty the default XDG
// config file is used and its absence is tolerated; an explicit path
// that cannot be read is an error.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	explicit := path != ""
	if !explicit {
		path = xdg.ConfigFile()
	}

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_PARSE_FAILED").
				With("path", path).
				Wrap(err)
		}
	} else if explicit {
		return nil, oops.Code("CONFIG_READ_FAILED").
			With("path", path).
			Wrap(err)
	}

	// posflag keeps file-provided values for flags left at their
	// defaults, giving the file precedence over defaults but not over
	// flags the user actually set.
	if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
		return nil, oops.Code("CONFIG_PARSE_FAILED").Wrap(err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_PARSE_FAILED").Wrap(err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.URL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("server.url must not be empty")
	}
	if c.Server.Timeout <= 0 {
		return oops.Code("CONFIG_INVALID").
			With("timeout", c.Server.Timeout).
			Errorf("server.timeout must be positive")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return oops.Code("CONFIG_INVALID").
			With("format", c.Log.Format).
			Errorf("log.format must be text or json")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return oops.Code("CONFIG_INVALID").
			With("level", c.Log.Level).
			Errorf("unknown log.level")
	}
	return nil
}

// SessionDir returns the configured session directory, falling back to
// the XDG state location.
func (c *Config) SessionDir() string {
	if c.Session.Dir != "" {
		return c.Session.Dir
	}
	return xdg.SessionDir()
}
