// Package main provides the hatch CLI entry point.
//
// Overview:
//   - Responsibility: CLI command parsing and execution
//   - Key Types: Cobra command structure
//   - Concurrency Model: Single-threaded CLI execution
//   - Error Semantics: Exit code 1 with a single error line
//   - Performance Notes: The template catalog is loaded once at startup
//
// Usage:
//
//	hatch new demo --variant chi --port 8080
//	hatch list
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"go.eggybyte.com/hatch/internal/catalog"
	"go.eggybyte.com/hatch/internal/logx"
	"go.eggybyte.com/hatch/internal/ui"
	"go.eggybyte.com/hatch/internal/version"
)

var (
	verbose    bool
	jsonOutput bool
	logFormat  string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "hatch",
	Short: "Generate Go web service projects from templates",
	Long: `hatch generates a ready-to-build Go HTTP service from embedded templates.

Templates come in two variants:
- chi: net/http style handlers on go-chi/chi
- gin: handlers on gin-gonic/gin

Each variant is split into groups (global, docker, internal, app, other)
that can be generated together or one at a time.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ui.SetVerbose(verbose)
		ui.SetJSONOutput(jsonOutput)
	},
}

// newLogger builds the engine logger from the global flags. Logs go to
// stderr so they never mix with rendered output.
func newLogger() logx.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return logx.New(
		logx.WithFormat(logx.ParseFormat(logFormat)),
		logx.WithLevel(level),
		logx.WithWriter(os.Stderr),
	)
}

// Execute runs the root command and exits with status 1 on failure.
func Execute() {
	// Panics on a broken embedded catalog before any command runs.
	catalog.Default()

	if err := rootCmd.Execute(); err != nil {
		ui.Error("%v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "logfmt", "Log format for engine logs (logfmt, json)")

	rootCmd.Version = version.String()
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func main() {
	Execute()
}
