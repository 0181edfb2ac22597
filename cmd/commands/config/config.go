package config

import (
	"github.com/kalisp/OpenCue/internal/config"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage cueadmin configuration",
		Long: "View and modify persistent Cuebot connection settings.\n\n" +
			"Configuration is stored at ~/.config/cuego/config.json. The\n" +
			"CUEBOT_HOSTS, CUEBOT_FACILITY and CUEBOT_PORT environment variables\n" +
			"override it at run time.\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(SetCommand())
	cmd.AddCommand(GetCommand())

	return cmd
}
