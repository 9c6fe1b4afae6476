package main

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "vouch",
	Short: "Vouch - leaked credential validation",
	Long: `Vouch checks whether leaked credentials (API keys, webhook URLs,
identity numbers, tokens) are still active. Secrets come from files or from
GitHub secret scanning alerts; each secret is dispatched to the checker for
its type and probed under a hard per-call deadline.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")

	// Add subcommands
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(checkersCmd)
	rootCmd.AddCommand(versionCmd)
}

// setupLogging configures the global zerolog logger on stderr.
func setupLogging(cmd *cobra.Command) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	if quiet {
		level = zerolog.ErrorLevel
	}

	writer := zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}
	log.Logger = zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
