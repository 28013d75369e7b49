package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"go.eggybyte.com/hatch/internal/ui"
	"go.eggybyte.com/hatch/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show hatch version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if ui.JSONOutput() {
			ui.Result(version.Get(), "%s", version.String())
			return
		}
		fmt.Fprintln(ui.Stdout(), version.Full())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
