package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "external-widget"

// EnvPrefix prefixes environment overrides, e.g. EXTWIDGET_TERMINAL_TTY
// sets terminal.tty.
const EnvPrefix = "EXTWIDGET_"

const (
	defaultSettleDelayMS = 10
	defaultChunkSize     = 4096
	defaultLogLevel      = "info"
	defaultMultiplexer   = "auto"
)

type Config struct {
	Terminal TerminalConfig `koanf:"terminal"`
	Render   RenderConfig   `koanf:"render"`
	Log      LogConfig      `koanf:"log"`
	Pages    PagesConfig    `koanf:"pages"`
}

// TerminalConfig selects the terminal graphics are written to.
type TerminalConfig struct {
	TTY         string `koanf:"tty"`         // explicit tty path, empty to detect
	Multiplexer string `koanf:"multiplexer"` // "auto", "tmux" or "none" (default: "auto")
}

// RenderConfig tunes how images are sent.
type RenderConfig struct {
	SettleDelayMS *int `koanf:"settle_delay_ms"` // pause after a transmission (default: 10, 0 disables)
	ChunkSize     int  `koanf:"chunk_size"`      // base64 bytes per chunk, multiple of 4 (default: 4096)
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `koanf:"level"` // "debug", "info", "warn" or "error" (default: "info")
	File  string `koanf:"file"`  // log file path (default: $XDG_STATE_HOME/external-widget/log.txt)
}

// PagesConfig holds the page cache configuration.
type PagesConfig struct {
	CacheDir string `koanf:"cache_dir"` // default: $XDG_CACHE_HOME/external-widget/pages
	Cache    *bool  `koanf:"cache"`     // cache split pages on disk (default: true)
}

func Load() (*Config, error) {
	return load(getConfigPaths())
}

func load(configPaths []string) (*Config, error) {
	k := koanf.New(".")

	// Config files in order of priority (last wins)
	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
		}
	}

	// Environment overrides everything
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.Terminal.TTY = expandPath(cfg.Terminal.TTY)
	cfg.Log.File = expandPath(cfg.Log.File)
	cfg.Pages.CacheDir = expandPath(cfg.Pages.CacheDir)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps EXTWIDGET_RENDER_CHUNK_SIZE to render.chunk_size. Only the
// first underscore separates the section from the key.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(s, "_", ".", 1)
}

func (c *Config) validate() error {
	switch strings.ToLower(c.Terminal.Multiplexer) {
	case "", "auto", "tmux", "none":
	default:
		return fmt.Errorf("terminal.multiplexer: unknown value %q", c.Terminal.Multiplexer)
	}
	if n := c.Render.ChunkSize; n < 0 || n%4 != 0 {
		return fmt.Errorf("render.chunk_size: %d is not a positive multiple of 4", n)
	}
	if c.Render.SettleDelayMS != nil && *c.Render.SettleDelayMS < 0 {
		return fmt.Errorf("render.settle_delay_ms: %d is negative", *c.Render.SettleDelayMS)
	}
	return nil
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/external-widget/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// Multiplexer returns the configured multiplexer mode.
func (c *Config) Multiplexer() string {
	if c.Terminal.Multiplexer == "" {
		return defaultMultiplexer
	}
	return strings.ToLower(c.Terminal.Multiplexer)
}

// SettleDelay returns the pause between a transmission and the first placement.
func (c *Config) SettleDelay() time.Duration {
	ms := defaultSettleDelayMS
	if c.Render.SettleDelayMS != nil {
		ms = *c.Render.SettleDelayMS
	}
	return time.Duration(ms) * time.Millisecond
}

// ChunkSize returns the transmission chunk size with the default applied.
func (c *Config) ChunkSize() int {
	if c.Render.ChunkSize <= 0 {
		return defaultChunkSize
	}
	return c.Render.ChunkSize
}

// LogLevel returns the log level name.
func (c *Config) LogLevel() string {
	if c.Log.Level == "" {
		return defaultLogLevel
	}
	return strings.ToLower(c.Log.Level)
}

// LogFile returns the log file path.
func (c *Config) LogFile() string {
	if c.Log.File == "" {
		return filepath.Join(xdg.StateHome, appName, "log.txt")
	}
	return c.Log.File
}

// CacheDir returns the directory split pages are cached in.
func (c *Config) CacheDir() string {
	if c.Pages.CacheDir == "" {
		return filepath.Join(xdg.CacheHome, appName, "pages")
	}
	return c.Pages.CacheDir
}

// CacheEnabled reports whether split pages are cached on disk.
func (c *Config) CacheEnabled() bool {
	if c.Pages.Cache == nil {
		return true
	}
	return *c.Pages.Cache
}
