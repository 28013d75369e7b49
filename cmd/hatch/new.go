package main

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"go.eggybyte.com/hatch/internal/catalog"
	"go.eggybyte.com/hatch/internal/config"
	"go.eggybyte.com/hatch/internal/errors"
	"go.eggybyte.com/hatch/internal/scaffold"
	"go.eggybyte.com/hatch/internal/ui"
	"go.eggybyte.com/hatch/internal/vars"
	"go.eggybyte.com/hatch/internal/vcs"
)

// newCmd represents the new command.
var newCmd = &cobra.Command{
	Use:   "new <project-name>",
	Short: "Generate a new project",
	Long: `Generate a new Go service project.

The project name is sanitized into an identifier (app_name) used for the
binary, the Docker image and the default module path and destination.

Settings are resolved in this order, later wins:
  hatch.yaml (or --config), --set key=value, dedicated flags.

Examples:
  hatch new demo
  hatch new "Order Service" --variant gin --db postgres --port 9000
  hatch new demo --groups global,docker --dest ./demo --policy overwrite
  hatch new demo --set owner=platform --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

// newOptions holds the flags of the new command.
type newOptions struct {
	variant    string
	groups     string
	dest       string
	policy     string
	port       string
	db         string
	module     string
	set        []string
	configPath string
	git        bool
	dryRun     bool
}

var newOpts newOptions

func init() {
	rootCmd.AddCommand(newCmd)

	f := newCmd.Flags()
	f.StringVar(&newOpts.variant, "variant", string(catalog.VariantChi), "Framework variant (chi, gin)")
	f.StringVar(&newOpts.groups, "groups", "", "Comma separated groups to generate (default: all groups of the variant)")
	f.StringVar(&newOpts.dest, "dest", "", "Destination directory (default: ./<app_name>)")
	f.StringVar(&newOpts.policy, "policy", string(scaffold.PolicyFail), "Existing file policy (fail, overwrite, skip)")
	f.StringVar(&newOpts.port, "port", "", "HTTP port of the generated service")
	f.StringVar(&newOpts.db, "db", "", "Database driver (mysql, postgres, sqlite)")
	f.StringVar(&newOpts.module, "module", "", "Go module path (default: app_name)")
	f.StringArrayVar(&newOpts.set, "set", nil, "Template variable as key=value (repeatable)")
	f.StringVar(&newOpts.configPath, "config", "", "Path to hatch.yaml (default: ./hatch.yaml when present)")
	f.BoolVar(&newOpts.git, "git", false, "Initialize a git repository in the destination")
	f.BoolVar(&newOpts.dryRun, "dry-run", false, "Render and list files without writing")
}

// plan is the fully resolved input of one new run.
type plan struct {
	request scaffold.Request
	git     bool
}

// runNew executes the new command.
//
// Parameters:
//   - cmd: Cobra command
//   - args: Project name
//
// Returns:
//   - error: Execution error if any
func runNew(cmd *cobra.Command, args []string) error {
	cat := catalog.Default()

	file, err := loadConfig(newOpts.configPath)
	if err != nil {
		return err
	}

	p, err := resolve(cat, cmd.Flags().Changed, newOpts, file, args[0])
	if err != nil {
		return err
	}

	asm := scaffold.New(cat, scaffold.WithLogger(newLogger()))

	if newOpts.dryRun {
		files, err := asm.Plan(p.request)
		if err != nil {
			return err
		}
		for i, f := range files {
			ui.Step(i+1, len(files), "%s (%s, %d bytes)", f.Path, f.Group, len(f.Content))
		}
		ui.Result(plannedPaths(files), "Dry run: %d file(s) would be written to %s", len(files), p.request.Destination)
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	ui.Info("Generating %s (%s) into %s", p.request.Context[vars.KeyProjectName], p.request.Variant, p.request.Destination)
	report, err := asm.Generate(ctx, p.request)
	if err != nil {
		return err
	}
	for i, f := range report.Files {
		ui.Step(i+1, len(report.Files), "%-11s %s", f.Outcome, f.Path)
	}

	if p.git {
		created, err := vcs.Init(osfs.New(p.request.Destination))
		if err != nil {
			return err
		}
		if created {
			ui.Success("Initialized git repository in %s", p.request.Destination)
		} else {
			ui.Debug("Git repository already present")
		}
	}

	ui.Result(report, "Project generated: %d written, %d overwritten, %d skipped",
		report.Count(scaffold.OutcomeWritten),
		report.Count(scaffold.OutcomeOverwritten),
		report.Count(scaffold.OutcomeSkipped))
	return nil
}

// loadConfig loads path, or ./hatch.yaml when path is empty and the file
// exists. A missing default file yields an empty config.
func loadConfig(path string) (*config.File, error) {
	if path == "" {
		if _, err := os.Stat(config.DefaultPath); err != nil {
			return &config.File{}, nil
		}
		path = config.DefaultPath
	}

	file, diags := config.Load(path)
	for _, d := range diags.Items() {
		if d.Severity == config.SeverityWarning {
			ui.Warning("%s: %s: %s", path, d.Path, d.Message)
		}
	}
	if err := diags.Err(); err != nil {
		return nil, err
	}
	ui.Debug("Loaded configuration from %s", path)
	return file, nil
}

// resolve merges config, --set pairs and flags into a scaffold request.
// changed reports whether a flag was given explicitly.
func resolve(cat *catalog.Catalog, changed func(string) bool, opts newOptions, file *config.File, name string) (*plan, error) {
	pick := func(flag, flagValue, fileValue string) string {
		if changed(flag) || fileValue == "" {
			return flagValue
		}
		return fileValue
	}

	variant, err := catalog.ParseVariant(pick("variant", opts.variant, file.Variant))
	if err != nil {
		return nil, err
	}
	policy, err := scaffold.ParsePolicy(pick("policy", opts.policy, file.Policy))
	if err != nil {
		return nil, err
	}

	raw := make(map[string]string, len(file.Vars)+8)
	for k, v := range file.Vars {
		raw[k] = v
	}
	if err := parseSet(opts.set, raw); err != nil {
		return nil, err
	}
	raw[vars.KeyProjectName] = name
	raw[vars.KeyVariant] = string(variant)
	if changed("port") {
		raw[vars.KeyPort] = opts.port
	}
	if changed("db") {
		raw[vars.KeyDBDriver] = opts.db
	}
	if changed("module") {
		raw[vars.KeyModulePath] = opts.module
	}
	if _, ok := raw[vars.KeyAppSecret]; !ok {
		secret, err := newSecret()
		if err != nil {
			return nil, err
		}
		raw[vars.KeyAppSecret] = secret
	}

	vctx, err := vars.NewBuilder(cat).Build(raw)
	if err != nil {
		return nil, err
	}

	groups, err := catalog.ParseGroups(pick("groups", opts.groups, strings.Join(file.Groups, ",")))
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		groups = cat.Groups(variant)
	}

	dest := pick("dest", opts.dest, file.Destination)
	if dest == "" {
		dest = filepath.Join(".", vctx[vars.KeyAppName].(string))
	}

	return &plan{
		request: scaffold.Request{
			Variant:     variant,
			Groups:      groups,
			Destination: dest,
			Context:     vctx,
			Policy:      policy,
		},
		git: opts.git || (!changed("git") && file.Git),
	}, nil
}

// parseSet adds key=value pairs to raw.
func parseSet(pairs []string, raw map[string]string) error {
	for _, kv := range pairs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return errors.Build(errors.CodeValidation).
				WithOp("parse --set").
				WithKey("set").
				WithMsgf("expected key=value, got %q", kv).
				Err()
		}
		raw[strings.TrimSpace(k)] = v
	}
	return nil
}

// newSecret returns 32 random bytes hex encoded.
func newSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(errors.CodeValidation, "generate app_secret", err)
	}
	return hex.EncodeToString(b), nil
}

func plannedPaths(files []scaffold.RenderedFile) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}
