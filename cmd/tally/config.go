package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/davetashner/tally/internal/config"
)

// Config command flags.
var (
	configGlobal   bool
	configDefaults bool
)

// configCmd is the parent command for config subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and modify tally configuration",
	Long: `View and modify tally configuration.

Tally reads configuration from .tally.yaml in the working directory.
A global config at ~/.config/tally/config.yaml provides defaults.
Repo-level settings override global settings, and flags override both.

Note: config set does a YAML round-trip and will not preserve comments.`,
}

// configShowCmd prints the effective configuration.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

// configGetCmd retrieves a configuration value.
var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a configuration value from the merged repo and global config.

Examples:
  tally config get model
  tally config get --global provider`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

// configSetCmd sets a configuration value.
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the config file.

By default, writes to .tally.yaml in the current directory.
Use --global to write to ~/.config/tally/config.yaml.
models takes a comma-separated list.

Examples:
  tally config set model gpt-4o
  tally config set models gpt-4o,gpt-4o-mini
  tally config set --global provider anthropic`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configShowCmd.Flags().BoolVar(&configDefaults, "defaults", false, "include built-in defaults for unset keys")
	configGetCmd.Flags().BoolVar(&configGlobal, "global", false, "use global config (~/.config/tally/config.yaml)")
	configSetCmd.Flags().BoolVar(&configGlobal, "global", false, "write to global config (~/.config/tally/config.yaml)")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}

// resetConfigFlags resets config command flags for testing.
func resetConfigFlags() {
	configGlobal, configDefaults = false, false
	for _, c := range []*cobra.Command{configShowCmd, configGetCmd, configSetCmd} {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Resolve(".", configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	if configDefaults {
		cfg = cfg.WithDefaults()
	}
	return config.Write(cmd.OutOrStdout(), cfg)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	var (
		cfg *config.Config
		err error
	)
	if configGlobal {
		cfg, err = config.LoadGlobal()
	} else {
		cfg, err = config.Resolve(".", configPath)
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := config.ValidateKey(args[0]); err != nil {
		return err
	}
	val, err := config.GetValue(cfg, args[0])
	if err != nil {
		return err
	}
	return printValue(cmd, val)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, rawValue := args[0], args[1]

	targetPath := filepath.Join(".", config.FileName)
	switch {
	case configGlobal:
		targetPath = config.GlobalConfigPath()
	case configPath != "":
		targetPath = configPath
	}

	data, err := config.LoadRaw(targetPath)
	if err != nil {
		return fmt.Errorf("loading config file: %w", err)
	}
	if err := config.SetValue(data, key, rawValue); err != nil {
		return err
	}

	// Round-trip validate before writing.
	roundTrip, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	var validCfg config.Config
	if err := yaml.Unmarshal(roundTrip, &validCfg); err != nil {
		return fmt.Errorf("invalid config after set: %w", err)
	}
	if err := config.Validate(&validCfg); err != nil {
		return err
	}

	if configGlobal {
		if err := cmdFS.MkdirAll(config.GlobalConfigDir(), 0o750); err != nil {
			return fmt.Errorf("creating config dir: %w", err)
		}
	}
	if err := config.WriteRaw(targetPath, data); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, rawValue)
	return nil
}

// printValue outputs a value: scalars as plain text, lists as YAML.
func printValue(cmd *cobra.Command, val any) error {
	switch v := val.(type) {
	case map[string]any, []any:
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(cmd.OutOrStdout(), string(data))
	default:
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), v)
	}
	return nil
}
