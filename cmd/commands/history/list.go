package history

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/kalisp/OpenCue/internal/connlog"
	"github.com/kalisp/OpenCue/internal/styles"

	"github.com/spf13/cobra"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent connection attempts",
		Long: `List recent Cuebot connection attempts stored locally.

Examples:
  cueadmin history list
  cueadmin history list --limit 50
  cueadmin history list --host cuebot1:8443
  cueadmin history list --since 2d
  cueadmin history list -o json`,
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().Int("limit", 25, "Number of entries to display")
	cmd.Flags().String("host", "", "Filter by exact host:port")
	cmd.Flags().String("since", "", "Only show attempts newer than this age (e.g. 90m, 2d, 1w)")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return fmt.Errorf("limit must be greater than 0")
	}

	host, _ := cmd.Flags().GetString("host")
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = "table"
	}
	if output != "table" && output != "json" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	filter := connlog.Filter{Host: strings.TrimSpace(host), Limit: limit}
	if since, _ := cmd.Flags().GetString("since"); since != "" {
		cutoff, err := cutoffFlag(since, time.Now())
		if err != nil {
			return fmt.Errorf("--since: %w", err)
		}
		filter.Since = cutoff
	}

	repo, err := connlog.Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	entries, err := repo.Query(cmd.Context(), filter)
	if err != nil {
		return err
	}

	if output == "json" {
		if entries == nil {
			entries = []connlog.Entry{}
		}
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No connection attempts recorded.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tFACILITY\tHOST\tOUTCOME\tDURATION\tDETAIL")
	fmt.Fprintln(w, "----\t--------\t----\t-------\t--------\t------")
	for _, entry := range entries {
		timeStr := entry.Timestamp.Local().Format("2006-01-02 15:04:05")
		detail := entry.Detail
		if detail == "" {
			detail = "-"
		}
		facility := entry.Facility
		if facility == "" {
			facility = "-"
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			timeStr,
			facility,
			entry.Host,
			outcomeText(entry.Outcome),
			formatDuration(entry.DurationMs),
			detail,
		)
	}
	w.Flush()
	return nil
}

func outcomeText(outcome string) string {
	if outcome == connlog.OutcomeSuccess {
		return styles.SuccessText.Render(outcome)
	}
	return styles.ErrorText.Render(outcome)
}

func formatDuration(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	d := time.Duration(ms) * time.Millisecond
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh", int(d.Hours()))
}
