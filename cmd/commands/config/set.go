package config

import (
	"fmt"
	"strings"

	"github.com/kalisp/OpenCue/internal/config"
	"github.com/kalisp/OpenCue/internal/util"

	"github.com/spf13/cobra"
)

// SetCommand returns the "config set" command.
func SetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: "Set a persistent configuration value.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  cueadmin config set default-facility dev\n" +
			"  cueadmin config set cuebot-hosts cuebot1.dev,cuebot2.dev:8443\n" +
			"  cueadmin config set connect-timeout 5s\n\n" +
			"Use --facility to set the hosts of a facility other than the default.",
		Args: cobra.ExactArgs(2),
		Run:  runSet,
	}

	return cmd
}

func runSet(cmd *cobra.Command, args []string) {
	key := util.NormalizeKey(args[0])
	value := strings.TrimSpace(args[1])

	ks := config.Lookup(key)
	if ks == nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: unknown configuration key %q\n", args[0])
		fmt.Fprintf(cmd.ErrOrStderr(), "Valid keys: %s\n", strings.Join(config.KeyNames(), ", "))
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}

	// cuebot-hosts applies to the default facility; --facility retargets it.
	facility, _ := cmd.Flags().GetString("facility")
	if ks.Name == "cuebot-hosts" && strings.TrimSpace(facility) != "" {
		previous := cfg.DefaultFacility
		cfg.DefaultFacility = facility
		err = ks.Set(cfg, value)
		cfg.DefaultFacility = previous
	} else {
		err = ks.Set(cfg, value)
	}
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: invalid value for %s: %v\n", ks.Name, err)
		return
	}

	if err := cfg.Save(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s set to %q\n", ks.Name, value)
}
