package history

import (
	"fmt"
	"time"

	"github.com/kalisp/OpenCue/internal/connlog"

	"github.com/spf13/cobra"
)

func PruneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Forget old connection attempts",
		Long: `Remove connection attempts recorded before a given age from the local
history. Ages accept Go durations plus d (days) and w (weeks).

Examples:
  cueadmin history prune --older-than 2w
  cueadmin history prune --older-than 36h`,
		Args:         cobra.NoArgs,
		RunE:         runPrune,
		SilenceUsage: true,
	}

	cmd.Flags().String("older-than", "", "Age of the oldest attempt to keep (required)")
	_ = cmd.MarkFlagRequired("older-than")

	return cmd
}

func runPrune(cmd *cobra.Command, args []string) error {
	raw, _ := cmd.Flags().GetString("older-than")
	cutoff, err := cutoffFlag(raw, time.Now())
	if err != nil {
		return fmt.Errorf("--older-than: %w", err)
	}

	repo, err := connlog.Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	removed, err := repo.Prune(cutoff)
	if err != nil {
		return err
	}

	noun := "attempts"
	if removed == 1 {
		noun = "attempt"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d connection %s recorded before %s.\n",
		removed, noun, cutoff.Local().Format(time.DateTime))
	return nil
}

