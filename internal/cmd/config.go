package cmd

import (
	"fmt"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/phonebook/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify phonebook configuration",
	Long: `View or modify phonebook configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  phonebook config set store.path /var/lib/phonebook/database.txt
  phonebook config set logging.level debug
  phonebook config set demo.inserter.delay_ms 500

Run 'phonebook config show' to see every key.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/phonebook/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

// configKeys maps every settable key to its value kind.
var configKeys = map[string]string{
	"store.path":                   "string",
	"logging.level":                "string",
	"logging.dir":                  "string",
	"demo.reset":                   "bool",
	"demo.seed_records":            "int",
	"demo.name_reader.iterations":  "int",
	"demo.name_reader.delay_ms":    "int",
	"demo.phone_reader.iterations": "int",
	"demo.phone_reader.delay_ms":   "int",
	"demo.inserter.iterations":     "int",
	"demo.inserter.delay_ms":       "int",
	"demo.remover.iterations":      "int",
	"demo.remover.delay_ms":        "int",
	"watch.debounce_ms":            "int",
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out)

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Config file: (none - using defaults)\n")
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "store:")
	fmt.Fprintf(out, "  path: %s\n", cfg.Store.Path)

	fmt.Fprintln(out, "logging:")
	fmt.Fprintf(out, "  level: %s\n", cfg.Logging.Level)
	fmt.Fprintf(out, "  dir: %s\n", cfg.Logging.Dir)

	fmt.Fprintln(out, "demo:")
	fmt.Fprintf(out, "  reset: %v\n", cfg.Demo.Reset)
	fmt.Fprintf(out, "  seed_records: %d\n", cfg.Demo.SeedRecords)
	workers := []struct {
		name string
		w    config.WorkerConfig
	}{
		{"name_reader", cfg.Demo.NameReader},
		{"phone_reader", cfg.Demo.PhoneReader},
		{"inserter", cfg.Demo.Inserter},
		{"remover", cfg.Demo.Remover},
	}
	for _, w := range workers {
		fmt.Fprintf(out, "  %s:\n", w.name)
		fmt.Fprintf(out, "    iterations: %d\n", w.w.Iterations)
		fmt.Fprintf(out, "    delay_ms: %d\n", w.w.DelayMs)
	}

	fmt.Fprintln(out, "watch:")
	fmt.Fprintf(out, "  debounce_ms: %d\n", cfg.Watch.DebounceMs)

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	keyType, ok := configKeys[key]
	if !ok {
		valid := make([]string, 0, len(configKeys))
		for k := range configKeys {
			valid = append(valid, k)
		}
		sort.Strings(valid)
		return fmt.Errorf("unknown configuration key: %s\nValid keys:\n  %s", key, strings.Join(valid, "\n  "))
	}

	// Validate the value based on type
	var typedValue any
	switch keyType {
	case "string":
		if key == "logging.level" && !slices.Contains(config.ValidLogLevels(), strings.ToLower(value)) {
			return fmt.Errorf("invalid value for %s: %s\nValid options: %s",
				key, value, strings.Join(config.ValidLogLevels(), ", "))
		}
		if key == "store.path" && strings.TrimSpace(value) == "" {
			return fmt.Errorf("invalid value for %s: must not be empty", key)
		}
		typedValue = value
	case "bool":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		typedValue = b
	case "int":
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected integer", key)
		}
		if intVal < 0 {
			return fmt.Errorf("invalid value for %s: must be non-negative", key)
		}
		typedValue = intVal
	}

	viper.Set(key, typedValue)

	// Ensure config directory exists
	configDir := config.ConfigDir()
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := config.ConfigFile()
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(out, "Config saved to %s\n", configFile)

	return nil
}

const defaultConfigContent = `# Phonebook Configuration

# Record file; one "name - phone" record per line
store:
  path: database.txt

# Structured JSON logging
logging:
  # Options: debug, info, warn, error
  level: info
  # Directory for phonebook.log; empty logs to stderr
  dir: ""

# Four-worker demo (phonebook demo)
demo:
  # Clear the record file before seeding
  reset: true
  # Records inserted before the workers start
  seed_records: 3
  name_reader:
    iterations: 3
    delay_ms: 1000
  phone_reader:
    iterations: 3
    delay_ms: 1500
  inserter:
    iterations: 6
    delay_ms: 2000
  remover:
    iterations: 3
    delay_ms: 2500

# Live view (phonebook watch)
watch:
  # Coalesce bursts of file events within this window
  debounce_ms: 100
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'phonebook config set' to modify values", configFile)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configFile, []byte(defaultConfigContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created config file at %s\n", configFile)
	fmt.Fprintln(out, "Edit this file to customize phonebook's behavior.")

	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", config.ConfigFile())
	}

	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", config.ConfigFile())
	fmt.Fprintf(out, "  2. ./config.yaml (current directory)\n")
	fmt.Fprintln(out, "\nEnvironment variables: PHONEBOOK_* (e.g., PHONEBOOK_STORE_PATH)")

	return nil
}
