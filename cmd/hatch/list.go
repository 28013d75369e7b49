package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"go.eggybyte.com/hatch/internal/catalog"
	"go.eggybyte.com/hatch/internal/ui"
)

var listCmd = &cobra.Command{
	Use:   "list [variant]",
	Short: "List variants, groups and template paths",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

// listing maps variant -> group -> virtual paths.
type listing map[catalog.Variant]map[catalog.Group][]string

func runList(cmd *cobra.Command, args []string) error {
	cat := catalog.Default()

	variants := cat.Variants()
	if len(args) == 1 {
		v, err := catalog.ParseVariant(args[0])
		if err != nil {
			return err
		}
		variants = []catalog.Variant{v}
	}

	out := make(listing, len(variants))
	for _, v := range variants {
		out[v] = make(map[catalog.Group][]string)
		for _, g := range cat.Groups(v) {
			out[v][g] = cat.Paths(v, g)
		}
	}

	if ui.JSONOutput() {
		ui.Result(out, "%d variant(s)", len(variants))
		return nil
	}

	w := ui.Stdout()
	for _, v := range variants {
		fmt.Fprintf(w, "%s\n", v)
		for _, g := range cat.Groups(v) {
			fmt.Fprintf(w, "  %s\n", g)
			for _, p := range out[v][g] {
				fmt.Fprintf(w, "    %s\n", p)
			}
		}
	}
	return nil
}
