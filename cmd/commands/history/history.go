package history

import "github.com/spf13/cobra"

// NewCommand returns the "history" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "View and manage Cuebot connection history",
		Long: "View the local log of Cuebot connection attempts and prune old entries.\n\n" +
			"History is stored locally in ~/.config/cuego/cuego.db.",
		SilenceUsage: true,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(PruneCommand())

	return cmd
}
