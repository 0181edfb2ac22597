package ping

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"google.golang.org/grpc"

	"github.com/kalisp/OpenCue/internal/auth"
	"github.com/kalisp/OpenCue/internal/config"
	"github.com/kalisp/OpenCue/internal/connlog"
	"github.com/kalisp/OpenCue/internal/cuebot"
	"github.com/kalisp/OpenCue/internal/styles"
	"github.com/kalisp/OpenCue/pkg/cueerr"
)

// slowThreshold marks reachable hosts that took longer than this as slow.
const slowThreshold = time.Second

// deps are the collaborators of the ping command. Tests replace them.
type deps struct {
	store       auth.Store
	openLog     func() (*connlog.SQLiteRepository, error)
	dialOptions []grpc.DialOption
	interactive func() bool
}

func defaultDeps() deps {
	return deps{
		store:   auth.DefaultStore(),
		openLog: connlog.Open,
		interactive: func() bool {
			return term.IsTerminal(int(os.Stderr.Fd()))
		},
	}
}

// NewCommand returns the "ping" command.
func NewCommand() *cobra.Command {
	return newCommand(defaultDeps())
}

func newCommand(d deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Connect to a facility's Cuebot",
		Long: `Connect to the first Cuebot host of a facility that answers a health
check, failing over between hosts in order. With --all, every host is probed
concurrently and reported.

Every attempt is recorded in the local connection history unless
--no-history is given.

Examples:
  cueadmin ping
  cueadmin ping --facility dev
  cueadmin ping --all -o json
  CUEBOT_HOSTS=cuebot1,cuebot2 cueadmin ping`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPing(cmd, d)
		},
	}

	cmd.Flags().Bool("all", false, "Probe every host instead of stopping at the first live one")
	cmd.Flags().Bool("no-history", false, "Do not record attempts in the connection history")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runPing(cmd *cobra.Command, d deps) error {
	output, _ := cmd.Flags().GetString("output")
	if output != "table" && output != "json" {
		return fmt.Errorf("unsupported output format %q", output)
	}
	all, _ := cmd.Flags().GetBool("all")
	noHistory, _ := cmd.Flags().GetBool("no-history")
	facility, _ := cmd.Flags().GetString("facility")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	facility = strings.TrimSpace(facility)
	if err := cfg.ApplyEnv(os.Getenv, facility); err != nil {
		return err
	}

	opts, err := cuebot.FromConfig(cfg, facility, d.store)
	if err != nil {
		return err
	}
	opts.Logger = slog.Default()
	opts.DialOptions = d.dialOptions

	if !noHistory && d.openLog != nil {
		repo, err := d.openLog()
		if err != nil {
			slog.Warn("connection history unavailable", "err", err)
		} else {
			defer repo.Close()
			opts.Recorder = repo
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if all {
		return probeAll(ctx, cmd, opts, output)
	}
	return connect(ctx, cmd, opts, output, d.interactive != nil && d.interactive() && output == "table")
}

func connect(ctx context.Context, cmd *cobra.Command, opts cuebot.Options, output string, interactive bool) error {
	var (
		proxy      *cuebot.Proxy
		connectErr error
	)
	started := time.Now()

	if interactive {
		accessible := os.Getenv("ACCESSIBLE") != ""
		spinErr := spinner.New().
			Title(fmt.Sprintf("Connecting to cuebot (%s)...", opts.Facility)).
			Accessible(accessible).
			Output(cmd.ErrOrStderr()).
			Action(func() {
				proxy, connectErr = cuebot.Connect(ctx, opts)
			}).
			Run()
		if spinErr != nil {
			return spinErr
		}
	} else {
		proxy, connectErr = cuebot.Connect(ctx, opts)
	}
	if connectErr != nil {
		return connectErr
	}
	defer proxy.Close()

	latency := time.Since(started)

	if output == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(struct {
			Facility  string `json:"facility"`
			Host      string `json:"host"`
			LatencyMs int64  `json:"latency_ms"`
		}{proxy.Facility(), proxy.Addr(), latency.Milliseconds()})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s (facility %s) in %s\n",
		styles.SuccessText.Render("Connected to"),
		styles.AccentText.Render(proxy.Addr()),
		proxy.Facility(),
		latency.Round(time.Millisecond))
	return nil
}

type probeOutput struct {
	Host      string `json:"host"`
	Status    string `json:"status"`
	LatencyMs int64  `json:"latency_ms"`
	ErrorKind string `json:"error_kind,omitempty"`
	Error     string `json:"error,omitempty"`
}

func probeAll(ctx context.Context, cmd *cobra.Command, opts cuebot.Options, output string) error {
	results, err := cuebot.ProbeAll(ctx, opts)
	if err != nil {
		return err
	}

	rows := make([]probeOutput, len(results))
	reachable := 0
	for i, r := range results {
		row := probeOutput{Host: r.Host, LatencyMs: r.Latency.Milliseconds()}
		switch {
		case r.Err != nil:
			row.Status = styles.StatusUnreachable
			row.ErrorKind = string(cueerr.KindOf(r.Err))
			row.Error = r.Err.Error()
		case r.Latency > slowThreshold:
			row.Status = styles.StatusSlow
			reachable++
		default:
			row.Status = styles.StatusReachable
			reachable++
		}
		rows[i] = row
	}

	if output == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(rows); err != nil {
			return err
		}
	} else {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "HOST\tSTATUS\tLATENCY\tERROR")
		for _, row := range rows {
			errText := row.Error
			if errText == "" {
				errText = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%dms\t%s\n", row.Host, styles.StatusIndicator(row.Status), row.LatencyMs, errText)
		}
		w.Flush()
	}

	if reachable == 0 {
		return cueerr.ProxyCreationErrorf("no cuebot host reachable for facility %q", opts.Facility)
	}
	return nil
}
