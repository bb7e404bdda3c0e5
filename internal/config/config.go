package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"select2/internal/combobox"
	"select2/internal/domain"
	"select2/internal/eventbus"
)

// ErrConfigNotFound is returned by LoadFromPath for a missing file
var ErrConfigNotFound = errors.New("config file not found")

// Config represents the application configuration
type Config struct {
	Version   int               `mapstructure:"version" toml:"version"`
	Selected  string            `mapstructure:"selected" toml:"selected"` // name of the preselected person
	UI        UISettings        `mapstructure:"ui" toml:"ui"`
	LazyLoad  LazyLoadSettings  `mapstructure:"lazy_load" toml:"lazy_load"`
	Directory DirectorySettings `mapstructure:"directory" toml:"directory"`
	Options   []domain.Person   `mapstructure:"options" toml:"options"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	Title             string `mapstructure:"title" toml:"title"`
	Placeholder       string `mapstructure:"placeholder" toml:"placeholder"`
	SearchPlaceholder string `mapstructure:"search_placeholder" toml:"search_placeholder"`
	LoadingText       string `mapstructure:"loading_text" toml:"loading_text"`
	EmptyText         string `mapstructure:"empty_text" toml:"empty_text"`
	ErrorText         string `mapstructure:"error_text" toml:"error_text"`
	MaxRows           int    `mapstructure:"max_rows" toml:"max_rows"`
	Width             int    `mapstructure:"width" toml:"width"`
	Matcher           string `mapstructure:"matcher" toml:"matcher"` // substring or fuzzy
}

// LazyLoadSettings controls the directory fallback
type LazyLoadSettings struct {
	Enabled bool   `mapstructure:"enabled" toml:"enabled"`
	Delay   string `mapstructure:"delay" toml:"delay"` // simulated latency, e.g. "1s"
}

// DirectorySettings locates the sqlite people directory
type DirectorySettings struct {
	Path string `mapstructure:"path" toml:"path"`
}

// DelayDuration parses Delay; empty means no delay
func (l LazyLoadSettings) DelayDuration() (time.Duration, error) {
	if strings.TrimSpace(l.Delay) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(l.Delay)
	if err != nil {
		return 0, fmt.Errorf("invalid lazy_load.delay %q: %w", l.Delay, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid lazy_load.delay %q: must not be negative", l.Delay)
	}
	return d, nil
}

// SelectedPerson returns the configured selection, if it names anyone
func (c *Config) SelectedPerson() (domain.Person, bool) {
	if strings.TrimSpace(c.Selected) == "" {
		return domain.Person{}, false
	}
	for _, p := range c.Options {
		if strings.EqualFold(p.Name, c.Selected) {
			return p, true
		}
	}
	return domain.Person{Name: c.Selected}, true
}

// Validate checks values the UI cannot recover from
func (c *Config) Validate() error {
	if _, err := combobox.MatcherByName(c.UI.Matcher); err != nil {
		return fmt.Errorf("invalid ui.matcher: %w", err)
	}
	if c.UI.MaxRows <= 0 {
		return fmt.Errorf("invalid ui.max_rows %d: must be positive", c.UI.MaxRows)
	}
	if c.UI.Width < 0 {
		return fmt.Errorf("invalid ui.width %d: must not be negative", c.UI.Width)
	}
	if _, err := c.LazyLoad.DelayDuration(); err != nil {
		return err
	}
	return nil
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.Publisher
	filePath string
}

// NewConfigService creates a config service for the default location.
// SELECT2_CONFIG overrides the location.
func NewConfigService() ConfigService {
	if path := os.Getenv("SELECT2_CONFIG"); path != "" {
		return &configService{filePath: path, bus: eventbus.NullBus{}}
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	return &configService{
		filePath: filepath.Join(configDir, "select2", "config.toml"),
		bus:      eventbus.NullBus{},
	}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(bus eventbus.Publisher) ConfigService {
	cs := NewConfigService().(*configService)
	cs.bus = bus
	return cs
}

// NewConfigServiceForPath creates a config service bound to path
func NewConfigServiceForPath(path string, bus eventbus.Publisher) ConfigService {
	if bus == nil {
		bus = eventbus.NullBus{}
	}
	return &configService{filePath: path, bus: bus}
}

// Path returns the file the service reads and writes
func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration; a missing file yields the defaults
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, ErrConfigNotFound) {
		cfg = DefaultConfig()
	} else if err != nil {
		return nil, err
	}

	cs.bus.Publish(eventbus.ConfigLoadedEvent{
		Path:    cs.filePath,
		Options: len(cfg.Options),
	})
	return cfg, nil
}

// Save saves the configuration to the service's file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	return nil
}

// LoadFromPath loads configuration from a specific path. Values missing
// from the file take their defaults; SELECT2_* environment variables
// override both (SELECT2_UI_MATCHER=fuzzy).
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if !v.IsSet("options") {
		cfg.Options = DefaultConfig().Options
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// newViper returns a viper instance carrying the defaults and env binding
func newViper() *viper.Viper {
	def := DefaultConfig()

	v := viper.New()
	v.SetConfigType("toml")
	v.SetDefault("version", def.Version)
	v.SetDefault("selected", def.Selected)
	v.SetDefault("ui.title", def.UI.Title)
	v.SetDefault("ui.placeholder", def.UI.Placeholder)
	v.SetDefault("ui.search_placeholder", def.UI.SearchPlaceholder)
	v.SetDefault("ui.loading_text", def.UI.LoadingText)
	v.SetDefault("ui.empty_text", def.UI.EmptyText)
	v.SetDefault("ui.error_text", def.UI.ErrorText)
	v.SetDefault("ui.max_rows", def.UI.MaxRows)
	v.SetDefault("ui.width", def.UI.Width)
	v.SetDefault("ui.matcher", def.UI.Matcher)
	v.SetDefault("lazy_load.enabled", def.LazyLoad.Enabled)
	v.SetDefault("lazy_load.delay", def.LazyLoad.Delay)
	v.SetDefault("directory.path", def.Directory.Path)

	v.SetEnvPrefix("SELECT2")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	dataDir := "."
	if homeDir, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(homeDir, ".local", "share", "select2")
	}

	return &Config{
		Version:  1,
		Selected: "Arlene Mccoy",
		UI: UISettings{
			Title:             "select2",
			Placeholder:       "Select...",
			SearchPlaceholder: "Search...",
			LoadingText:       "Loading...",
			EmptyText:         "No element found",
			ErrorText:         "Could not load options",
			MaxRows:           8,
			Width:             32,
			Matcher:           combobox.MatcherSubstring,
		},
		LazyLoad: LazyLoadSettings{
			Enabled: true,
			Delay:   "1s",
		},
		Directory: DirectorySettings{
			Path: filepath.Join(dataDir, "directory.db"),
		},
		Options: domain.People(
			"Wade Cooper",
			"Arlene Mccoy",
			"Devon Webb",
			"Tom Cook",
			"Tanya Fox",
			"Hellen Schmidt",
		),
	}
}
