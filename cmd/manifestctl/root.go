// Command manifestctl builds, inspects, and validates Iceberg manifest files.
package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "manifestctl",
	Short: "Build and inspect Apache Iceberg manifest files",
	Long: `manifestctl is a small command-line tool for working with Apache Iceberg
manifest files outside of a full catalog/engine stack.

It can write a manifest from a built-in demo set of data files,
dump the contents of an existing manifest, and validate that a manifest
round-trips cleanly through the reader.`,
	Version: "0.1.0",
}

type loggerCtxKey struct{}

// Execute runs the root command, wiring a zerolog.Logger into the command
// context every subcommand reads back via loggerFromContext. The logger is
// built in PersistentPreRunE, after cobra has parsed the verbose flag.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func loggerFromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(loggerCtxKey{}).(zerolog.Logger); ok {
		return logger
	}
	return zerolog.Nop()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}

		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().Logger()

		cmd.SetContext(context.WithValue(cmd.Context(), loggerCtxKey{}, logger))
		return nil
	}
}

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
