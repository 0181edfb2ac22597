package auth

import (
	"strings"

	"github.com/kalisp/OpenCue/internal/config"

	"github.com/spf13/cobra"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage Cuebot access tokens",
		Long: `Manage the bearer tokens presented to Cuebot.

Tokens are stored per facility in the local keychain and sent with every
request to that facility's Cuebot hosts.`,
	}

	cmd.AddCommand(LoginCommand())
	cmd.AddCommand(LogoutCommand())
	cmd.AddCommand(StatusCommand())

	return cmd
}

// resolveFacility returns the --facility flag value, or the configured
// default facility.
func resolveFacility(cmd *cobra.Command) (string, error) {
	facility, _ := cmd.Flags().GetString("facility")
	if facility = strings.TrimSpace(facility); facility != "" {
		return facility, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	return cfg.Facility(), nil
}
