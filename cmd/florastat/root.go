package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/florastat/internal/log"
)

// Log output formats accepted by --log-format.
const (
	logFormatText = "text"
	logFormatJSON = "json"
)

// NewRootCmd creates the root command for florastat.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "florastat",
		Short: "Exploratory analysis of the Iris flower dataset",
		Long: `florastat loads the Iris measurements (sepal and petal length and width of
three species), cleans the species labels and reports descriptive
statistics, per-species aggregates and a grouped box plot.

Inputs are CSV files or tables imported into a SQLite database with
'florastat import'. Logs go to standard error; reports to standard output.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "Enable verbose logging")
	flags.String("log-format", logFormatText, "Log format: text or json")

	cmd.AddCommand(
		NewReportCmd(),
		NewImportCmd(),
		NewInitCmd(),
		NewVersionCmd(),
	)
	return cmd
}

// newLogger builds the logger selected by the persistent flags. It writes
// to the command's error stream. A command run without the root gets text
// logs.
func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	format, err := cmd.Flags().GetString("log-format")
	if err != nil {
		format = logFormatText
	}

	verbose := getVerboseFlag(cmd)
	switch format {
	case logFormatText:
		return log.NewLogger(cmd.ErrOrStderr(), verbose), nil
	case logFormatJSON:
		return log.NewJSONLogger(cmd.ErrOrStderr(), verbose), nil
	default:
		return nil, fmt.Errorf("unknown log format %q: want %s or %s", format, logFormatText, logFormatJSON)
	}
}

// getVerboseFlag reports whether --verbose was given.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	return err == nil && verbose
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "florastat:", err)
		os.Exit(1)
	}
}
