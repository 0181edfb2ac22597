package auth

import (
	"fmt"
	"os"
	"strings"

	"github.com/kalisp/OpenCue/internal/auth"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/spf13/cobra"
)

func LoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a Cuebot token for a facility",
		Long: `Store a Cuebot bearer token for a facility using the local keychain.

Example:
  cueadmin auth login --facility dev`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			facility, err := resolveFacility(cmd)
			if err != nil {
				return err
			}

			token, err := cmd.Flags().GetString("token")
			if err != nil {
				return err
			}

			token = strings.TrimSpace(token)
			if token == "" {
				if !term.IsTerminal(int(os.Stdin.Fd())) {
					return fmt.Errorf("--token is required when stdin is not a terminal")
				}
				if err := promptToken(facility, &token); err != nil {
					return err
				}
				token = strings.TrimSpace(token)
			}

			if token == "" {
				return fmt.Errorf("token cannot be empty")
			}

			if err := auth.DefaultStore().SetToken(facility, token); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved token for facility %s\n", auth.NormalizeFacility(facility))
			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().String("token", "", "Cuebot token (optional, overrides prompt)")

	return cmd
}

func promptToken(facility string, token *string) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Token for facility %s", facility)).
				EchoMode(huh.EchoModePassword).
				Value(token),
		),
	).WithAccessible(os.Getenv("ACCESSIBLE") != "").Run()
}

func LogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored Cuebot token for a facility",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			facility, err := resolveFacility(cmd)
			if err != nil {
				return err
			}
			if err := auth.DefaultStore().DeleteToken(facility); err != nil {
				return fmt.Errorf("facility %s: %w", facility, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed token for facility %s\n", auth.NormalizeFacility(facility))
			return nil
		},
		SilenceUsage: true,
	}
}
