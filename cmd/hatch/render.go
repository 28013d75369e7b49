package main

import (
	"github.com/spf13/cobra"

	"go.eggybyte.com/hatch/internal/catalog"
	"go.eggybyte.com/hatch/internal/templates"
	"go.eggybyte.com/hatch/internal/ui"
	"go.eggybyte.com/hatch/internal/vars"
)

var renderCmd = &cobra.Command{
	Use:   "render <variant> <group> <path>",
	Short: "Render a single template to stdout",
	Long: `Render one catalog template with a variable context built from
--name and --set, and print the result.

Examples:
  hatch render chi docker Dockerfile --set port=9000
  hatch render gin other config.yaml --set app_secret=dev`,
	Args: cobra.ExactArgs(3),
	RunE: runRender,
}

var (
	renderName string
	renderSet  []string
)

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVar(&renderName, "name", "example", "Project name used for the preview")
	renderCmd.Flags().StringArrayVar(&renderSet, "set", nil, "Template variable as key=value (repeatable)")
}

func runRender(cmd *cobra.Command, args []string) error {
	cat := catalog.Default()

	variant, err := catalog.ParseVariant(args[0])
	if err != nil {
		return err
	}
	group, err := catalog.ParseGroup(args[1])
	if err != nil {
		return err
	}

	raw := map[string]string{}
	if err := parseSet(renderSet, raw); err != nil {
		return err
	}
	raw[vars.KeyProjectName] = renderName
	raw[vars.KeyVariant] = string(variant)

	ctx, err := vars.NewBuilder(cat).Build(raw)
	if err != nil {
		return err
	}

	out, err := templates.NewLoader(cat).Preview(variant, group, args[2], ctx)
	if err != nil {
		return err
	}
	_, err = ui.Stdout().Write(out)
	return err
}
