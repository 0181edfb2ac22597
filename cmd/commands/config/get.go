package config

import (
	"fmt"
	"strings"

	"github.com/kalisp/OpenCue/internal/config"
	"github.com/kalisp/OpenCue/internal/util"

	"github.com/spf13/cobra"
)

// GetCommand returns the "config get" command.
func GetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Get a configuration value",
		Long: "Get a persistent configuration value.\n\n" +
			"If no key is provided, every key and its value is listed along with\n" +
			"the configured facilities.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  cueadmin config get                           # list all settings\n" +
			"  cueadmin config get --key default-facility    # print a single value",
		Args:         cobra.ExactArgs(0),
		RunE:         runGet,
		SilenceUsage: true,
	}

	cmd.Flags().String("key", "", "Configuration key to fetch (prints a single value)")

	return cmd
}

func runGet(cmd *cobra.Command, args []string) error {
	keyFlag, _ := cmd.Flags().GetString("key")
	keyFlag = strings.TrimSpace(keyFlag)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if keyFlag == "" {
		for _, ks := range config.Keys {
			value := ks.Get(cfg)
			if value == "" {
				value = "(not set)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", ks.Name, value)
		}
		for _, name := range cfg.FacilityNames() {
			fmt.Fprintf(cmd.OutOrStdout(), "facility %s: %s\n", name, strings.Join(cfg.Facilities[name], ","))
		}
		return nil
	}

	ks := config.Lookup(util.NormalizeKey(keyFlag))
	if ks == nil {
		return fmt.Errorf("unknown configuration key %q (valid: %s)", keyFlag, strings.Join(config.KeyNames(), ", "))
	}

	value := ks.Get(cfg)
	if value == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "not set")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), value)
	}
	return nil
}
