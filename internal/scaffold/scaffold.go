// Package scaffold assembles a project tree from catalog templates.
//
// Overview:
//   - Responsibility: Validate a Request, render its groups and materialize the result
//   - Key Types: Assembler, Request, RenderedFile, Report
//   - Concurrency Model: Synchronous; runs with distinct destinations share no mutable state
//   - Error Semantics: One terminal error per run; writes are rolled back on failure
//   - Performance Notes: All files are rendered in memory before the first write
//
// Usage:
//
//	asm := scaffold.New(catalog.Default())
//	report, err := asm.Generate(ctx, scaffold.Request{
//		Variant:     catalog.VariantChi,
//		Groups:      []catalog.Group{catalog.GroupGlobal, catalog.GroupDocker},
//		Destination: "./demo",
//		Context:     vctx,
//		Policy:      scaffold.PolicyFail,
//	})
package scaffold

import (
	"context"
	"path/filepath"
	"slices"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"go.eggybyte.com/hatch/internal/catalog"
	"go.eggybyte.com/hatch/internal/errors"
	"go.eggybyte.com/hatch/internal/logx"
	"go.eggybyte.com/hatch/internal/projectfs"
	"go.eggybyte.com/hatch/internal/templates"
)

// Assembler turns requests into rendered and written project trees.
//
// Concurrency:
//   - Safe for concurrent use with distinct destinations
type Assembler struct {
	cat    *catalog.Catalog
	loader *templates.Loader
	newFS  func(root string) billy.Filesystem
	log    logx.Logger
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithFilesystem sets the factory that opens the destination filesystem.
// The default opens the host filesystem at the destination.
func WithFilesystem(open func(root string) billy.Filesystem) Option {
	return func(a *Assembler) {
		if open != nil {
			a.newFS = open
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logx.Logger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.log = l
		}
	}
}

// New creates an Assembler over cat.
//
// Parameters:
//   - cat: Template catalog
//   - opts: Optional filesystem and logger
//
// Returns:
//   - *Assembler: Assembler instance
func New(cat *catalog.Catalog, opts ...Option) *Assembler {
	a := &Assembler{
		cat:    cat,
		loader: templates.NewLoader(cat),
		newFS:  func(root string) billy.Filesystem { return osfs.New(root) },
		log:    logx.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Plan validates req and renders every requested file without touching
// the destination.
//
// Parameters:
//   - req: Generation request; Destination is not accessed
//
// Returns:
//   - []RenderedFile: Files in staging order
//   - error: VALIDATION, UNSUPPORTED_GROUP, COMPILE, RENDER or CONFLICT error
func (a *Assembler) Plan(req Request) ([]RenderedFile, error) {
	return a.stage(context.Background(), &req)
}

// Generate renders req and writes the result under req.Destination.
//
// Parameters:
//   - ctx: Checked between phases; cancellation aborts with CANCELED
//   - req: Generation request
//
// Returns:
//   - *Report: Per-file outcomes in staging order
//   - error: First failure; nothing written under PolicyFail conflicts, and
//     partial writes are rolled back on FILESYSTEM errors
//
// Concurrency:
//   - Runs must not share a destination
//
// Performance:
//   - Rendering finishes before the first write
func (a *Assembler) Generate(ctx context.Context, req Request) (*Report, error) {
	files, err := a.stage(ctx, &req)
	if err != nil {
		return nil, err
	}
	log := a.log.With("destination", req.Destination, "variant", string(req.Variant))
	log.Info("templates rendered", "groups", len(req.Groups), "files", len(files))
	log.Debug("render context", "vars", req.Context.Keys())

	pfs := projectfs.New(a.newFS(req.Destination), projectfs.WithLogger(log))

	if req.Policy == PolicyFail {
		if err := checkConflicts(pfs, files); err != nil {
			return nil, err
		}
	}
	if err := checkCanceled(ctx, "write"); err != nil {
		return nil, err
	}

	report := &Report{
		Destination: req.Destination,
		Variant:     req.Variant,
		Groups:      slices.Clone(req.Groups),
		Files:       make([]FileResult, 0, len(files)),
	}

	tx := pfs.Begin()
	for _, f := range files {
		res := FileResult{
			Path:       f.Path,
			OutputPath: filepath.Join(req.Destination, filepath.FromSlash(f.Path)),
			Group:      f.Group,
			Bytes:      len(f.Content),
		}

		if req.Policy == PolicySkip {
			exists, err := pfs.Exists(f.Path)
			if err != nil {
				return nil, a.abort(log, tx, err)
			}
			if exists {
				res.Outcome = OutcomeSkipped
				report.Files = append(report.Files, res)
				log.Debug("file skipped", "path", f.Path)
				continue
			}
		}

		replaced, err := tx.WriteFile(f.Path, f.Content, f.Mode)
		if err != nil {
			return nil, a.abort(log, tx, err)
		}
		res.Outcome = OutcomeWritten
		if replaced {
			res.Outcome = OutcomeOverwritten
		}
		report.Files = append(report.Files, res)
	}
	tx.Commit()

	log.Info("project generated",
		"written", report.Count(OutcomeWritten),
		"overwritten", report.Count(OutcomeOverwritten),
		"skipped", report.Count(OutcomeSkipped))
	return report, nil
}

// abort rolls back tx and returns cause, joined with any rollback failure.
func (a *Assembler) abort(log logx.Logger, tx *projectfs.Tx, cause error) error {
	created := len(tx.Created())
	if rbErr := tx.Rollback(); rbErr != nil {
		log.Error(rbErr, "rollback incomplete")
		return errors.Join(cause, rbErr)
	}
	log.Warn("write failed, changes rolled back", "path", errors.PathOf(cause), "removed", created)
	return cause
}

// stage validates req in place and renders its groups in request order.
func (a *Assembler) stage(ctx context.Context, req *Request) ([]RenderedFile, error) {
	if err := a.validate(req); err != nil {
		return nil, err
	}
	if err := checkCanceled(ctx, "render"); err != nil {
		return nil, err
	}

	var files []RenderedFile
	owner := make(map[string]catalog.Group)
	for _, g := range req.Groups {
		if err := checkCanceled(ctx, "render"); err != nil {
			return nil, err
		}

		reg, err := a.loader.Registry(req.Variant, g)
		if err != nil {
			return nil, err
		}
		entries, _ := a.cat.Entries(req.Variant, g)
		for _, e := range entries {
			if prev, dup := owner[e.Path]; dup {
				return nil, errors.Build(errors.CodeConflict).
					WithOp("stage").
					WithPath(e.Path).
					WithMsgf("produced by both %q and %q", prev, g).
					Err()
			}
			out, err := reg.Render(e.Path, req.Context)
			if err != nil {
				return nil, err
			}
			owner[e.Path] = g
			files = append(files, RenderedFile{
				Path:    e.Path,
				Content: out,
				Mode:    e.Mode,
				Group:   g,
			})
		}
	}
	return files, nil
}

// validate normalizes the policy, removes duplicate groups and checks that
// the variant supports every requested group. It performs no I/O.
func (a *Assembler) validate(req *Request) error {
	policy, err := ParsePolicy(string(req.Policy))
	if err != nil {
		return err
	}
	req.Policy = policy

	if req.Destination == "" {
		return validationErr("destination", "destination is required")
	}
	if !a.cat.HasVariant(req.Variant) {
		return validationErr("variant", "unknown variant %q", req.Variant)
	}
	if len(req.Groups) == 0 {
		return validationErr("groups", "at least one group is required")
	}

	groups := make([]catalog.Group, 0, len(req.Groups))
	for _, g := range req.Groups {
		if slices.Contains(groups, g) {
			continue
		}
		if !a.cat.Supports(req.Variant, g) {
			return errors.Build(errors.CodeUnsupportedGroup).
				WithOp("validate").
				WithKey(string(g)).
				WithMsgf("variant %q does not provide group %q", req.Variant, g).
				Err()
		}
		groups = append(groups, g)
	}
	req.Groups = groups
	return nil
}

func checkConflicts(pfs *projectfs.ProjectFS, files []RenderedFile) error {
	var existing []string
	for _, f := range files {
		ok, err := pfs.Exists(f.Path)
		if err != nil {
			return err
		}
		if ok {
			existing = append(existing, f.Path)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return errors.Build(errors.CodeConflict).
		WithOp("check destination").
		WithPath(existing[0]).
		WithMsgf("%d file(s) already exist, nothing was written", len(existing)).
		Err()
}

func checkCanceled(ctx context.Context, phase string) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(errors.CodeCanceled, phase, err)
	}
	return nil
}

func validationErr(key, format string, args ...any) error {
	return errors.Build(errors.CodeValidation).
		WithOp("validate").
		WithKey(key).
		WithMsgf(format, args...).
		Err()
}
