// Package cli provides the command-line interface for worklogger.
package cli

import (
	"context"

	"go-worklogger/internal/voice"

	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "dev"

	verbose bool

	// interrupts lets Ctrl+C end a recording without quitting.
	interrupts = &voice.Interrupts{}
)

var rootCmd = &cobra.Command{
	Use:   "worklogger",
	Short: "Log Jira work from plain-language descriptions",
	Long: `Worklogger turns sentences like "2h on PROJ-123 fixing bugs yesterday" into
Jira worklogs. An LLM extracts ticket, time, comment and date; each entry is
then posted to Jira and the result reported.

Run without arguments for an interactive session.`,
	Version:      Version,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runInteractive,
}

// Execute runs the root command with a context cancelled on Ctrl+C.
func Execute() error {
	ctx, stop := interrupts.NotifyContext(context.Background())
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "print all log records to the terminal")

	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(voiceCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(micTestCmd)
	rootCmd.AddCommand(versionCmd)
}
