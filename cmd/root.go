package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	authcmd "github.com/kalisp/OpenCue/cmd/commands/auth"
	cfgcmd "github.com/kalisp/OpenCue/cmd/commands/config"
	"github.com/kalisp/OpenCue/cmd/commands/history"
	"github.com/kalisp/OpenCue/cmd/commands/ping"
	"github.com/kalisp/OpenCue/internal/logging"
	"github.com/kalisp/OpenCue/internal/styles"
	"github.com/kalisp/OpenCue/pkg/cueerr"
)

// Exit codes returned by Execute.
const (
	ExitOK            = 0
	ExitFailure       = 1
	ExitCueError      = 2
	ExitProxyCreation = 3
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "cueadmin",
		Short: "Inspect and manage connections to OpenCue's Cuebot",
		Long: `cueadmin is a command-line tool for reaching the Cuebot hosts of an
OpenCue render farm. It resolves a facility to its Cuebot hosts, fails over
between them, and keeps a local history of connection attempts.

Quick start:
  cueadmin config set cuebot-hosts cuebot1,cuebot2   # Hosts of the default facility
  cueadmin ping                                      # Connect to the first live host
  cueadmin ping --all                                # Probe every host
  cueadmin history list                              # Recent connection attempts`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("log-level", "warn", "Set the log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "text", "Set the log format (text, logfmt, json)")
	cmd.PersistentFlags().String("facility", "", "Facility to use (defaults to the configured default-facility)")

	cmd.PersistentPreRunE = func(cc *cobra.Command, _ []string) error {
		flags := cc.Flags()

		var merr error

		logLevel, err := flags.GetString("log-level")
		if err != nil {
			merr = multierror.Append(merr, err)
		}

		logFormat, err := flags.GetString("log-format")
		if err != nil {
			merr = multierror.Append(merr, err)
		}

		if merr != nil {
			return fmt.Errorf("invalid argument: %w", merr)
		}

		h, err := logging.CreateHandler(cc.ErrOrStderr(), logLevel, logFormat)
		if err != nil {
			return fmt.Errorf("failed creating log handler: %w", err)
		}
		slog.SetDefault(slog.New(h))

		return nil
	}

	cmd.AddCommand(ping.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(authcmd.NewCommand())
	cmd.AddCommand(history.NewCommand())

	return cmd
}

// Execute runs the root command and exits with a code describing the
// failure, if any. This is called by main.main().
func Execute() {
	root := rootCmd()
	err := root.Execute()
	if err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "%s %v\n", styles.ErrorText.Render("Error:"), err)
	}
	os.Exit(ExitCode(err))
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case cueerr.IsProxyCreation(err):
		return ExitProxyCreation
	case cueerr.Is(err):
		return ExitCueError
	default:
		return ExitFailure
	}
}
