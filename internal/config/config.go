package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete phonebook configuration
type Config struct {
	Store   StoreConfig   `mapstructure:"store"`
	Logging LoggingConfig `mapstructure:"logging"`
	Demo    DemoConfig    `mapstructure:"demo"`
	Watch   WatchConfig   `mapstructure:"watch"`
}

// StoreConfig locates the record file
type StoreConfig struct {
	// Path is the record file. Relative paths resolve against the working directory.
	Path string `mapstructure:"path"`
}

// LoggingConfig controls structured logging
type LoggingConfig struct {
	// Level is one of debug, info, warn, error (default: info)
	Level string `mapstructure:"level"`
	// Dir is where phonebook.log is written; empty logs to stderr
	Dir string `mapstructure:"dir"`
}

// WorkerConfig paces one demo worker
type WorkerConfig struct {
	// Iterations is how many operations the worker performs
	Iterations int `mapstructure:"iterations"`
	// DelayMs is the pause after each operation in milliseconds
	DelayMs int `mapstructure:"delay_ms"`
}

// Delay returns the pause as a time.Duration
func (w WorkerConfig) Delay() time.Duration {
	return time.Duration(w.DelayMs) * time.Millisecond
}

// DemoConfig controls the concurrent reader/writer demo
type DemoConfig struct {
	// Reset truncates the store before seeding (default: true)
	Reset bool `mapstructure:"reset"`
	// SeedRecords is how many records are inserted before the workers start
	SeedRecords int `mapstructure:"seed_records"`
	// NameReader looks up phones by name
	NameReader WorkerConfig `mapstructure:"name_reader"`
	// PhoneReader looks up names by phone
	PhoneReader WorkerConfig `mapstructure:"phone_reader"`
	// Inserter appends records
	Inserter WorkerConfig `mapstructure:"inserter"`
	// Remover deletes records by name
	Remover WorkerConfig `mapstructure:"remover"`
}

// WatchConfig controls the file watcher
type WatchConfig struct {
	// DebounceMs coalesces bursts of file events (default: 100)
	DebounceMs int `mapstructure:"debounce_ms"`
}

// Debounce returns the debounce window as a time.Duration
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMs) * time.Millisecond
}

// Default returns a Config with sensible default values.
// Demo pacing mirrors the classic four-worker scenario.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Path: "database.txt",
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   "",
		},
		Demo: DemoConfig{
			Reset:       true,
			SeedRecords: 3,
			NameReader:  WorkerConfig{Iterations: 3, DelayMs: 1000},
			PhoneReader: WorkerConfig{Iterations: 3, DelayMs: 1500},
			Inserter:    WorkerConfig{Iterations: 6, DelayMs: 2000},
			Remover:     WorkerConfig{Iterations: 3, DelayMs: 2500},
		},
		Watch: WatchConfig{
			DebounceMs: 100,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("store.path", defaults.Store.Path)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)

	viper.SetDefault("demo.reset", defaults.Demo.Reset)
	viper.SetDefault("demo.seed_records", defaults.Demo.SeedRecords)
	setWorkerDefaults("demo.name_reader", defaults.Demo.NameReader)
	setWorkerDefaults("demo.phone_reader", defaults.Demo.PhoneReader)
	setWorkerDefaults("demo.inserter", defaults.Demo.Inserter)
	setWorkerDefaults("demo.remover", defaults.Demo.Remover)

	viper.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMs)
}

func setWorkerDefaults(prefix string, w WorkerConfig) {
	viper.SetDefault(prefix+".iterations", w.Iterations)
	viper.SetDefault(prefix+".delay_ms", w.DelayMs)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration, falling back to defaults if the
// loaded values do not validate
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "phonebook")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".phonebook"
	}
	return filepath.Join(home, ".config", "phonebook")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
