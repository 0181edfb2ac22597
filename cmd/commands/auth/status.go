package auth

import (
	"errors"
	"fmt"
	"slices"

	"github.com/kalisp/OpenCue/internal/auth"
	"github.com/kalisp/OpenCue/internal/config"
	"github.com/kalisp/OpenCue/internal/styles"

	"github.com/spf13/cobra"
)

func StatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which facilities have stored tokens",
		Long: `Show which configured facilities have a stored Cuebot token.

Example:
  cueadmin auth status`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			facilities := cfg.FacilityNames()
			if !slices.Contains(facilities, cfg.Facility()) {
				facilities = append([]string{cfg.Facility()}, facilities...)
			}

			store := auth.DefaultStore()
			for _, facility := range facilities {
				var state string
				_, err := store.GetToken(facility)
				switch {
				case err == nil:
					state = styles.SuccessText.Render("logged in")
				case errors.Is(err, auth.ErrTokenNotFound):
					state = styles.MutedText.Render("not logged in")
				default:
					state = styles.ErrorText.Render(fmt.Sprintf("error (%v)", err))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", styles.Label.Render(facility+":"), state)
			}
			return nil
		},
		SilenceUsage: true,
	}

	return cmd
}
