// Package templates compiles catalog entries and renders them against a variable context.
//
// Overview:
//   - Responsibility: Parse template bodies into named sets and execute them strictly
//   - Key Types: Registry (one compiled group), Loader (catalog-backed registry cache)
//   - Concurrency Model: A Registry is read-only after Compile and safe for concurrent Render
//   - Error Semantics: COMPILE errors carry the template path, RENDER errors carry path and key
//   - Performance Notes: Each group is parsed once; the Loader caches compiled groups
//
// Usage:
//
//	reg, err := templates.Compile(entries)
//	out, err := reg.Render("go.mod", ctx)
package templates

import (
	"bytes"
	"regexp"
	"sort"
	"text/template"

	"go.eggybyte.com/hatch/internal/catalog"
	"go.eggybyte.com/hatch/internal/errors"
	"go.eggybyte.com/hatch/internal/vars"
)

var (
	missingKeyRe      = regexp.MustCompile(`map has no entry for key "([^"]+)"`)
	missingTemplateRe = regexp.MustCompile(`template "([^"]+)" not defined`)
)

// Registry is a compiled set of named templates. Every entry is registered
// under its virtual path; helpers declared with {{define}} share the set.
//
// Concurrency:
//   - Safe for concurrent Render calls
type Registry struct {
	set   *template.Template
	names []string
}

// Compile parses entries into a new Registry.
//
// Parameters:
//   - entries: Catalog entries of one group, registered under Entry.Path
//
// Returns:
//   - *Registry: Compiled registry
//   - error: COMPILE error naming the first entry that fails to parse
//
// Concurrency:
//   - Safe for concurrent use; each call builds an independent set
//
// Performance:
//   - One parse per entry
func Compile(entries []catalog.Entry) (*Registry, error) {
	root := template.New("").Option("missingkey=error").Funcs(funcMap())
	for _, e := range entries {
		if _, err := root.New(e.Path).Parse(e.Body); err != nil {
			return nil, errors.Build(errors.CodeCompile).
				WithOp("compile").
				WithPath(e.Path).
				WithErr(err).
				Err()
		}
	}

	var names []string
	for _, t := range root.Templates() {
		if t.Name() != "" {
			names = append(names, t.Name())
		}
	}
	sort.Strings(names)
	return &Registry{set: root, names: names}, nil
}

// Names returns every registered template name sorted, including helpers
// declared with {{define}}.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Render executes the template registered under path.
//
// Parameters:
//   - path: Virtual path the template was registered under
//   - ctx: Variable context; every referenced variable must be present
//
// Returns:
//   - []byte: Rendered content, nil on error
//   - error: RENDER error for an unknown path, a missing variable (Key is the
//     variable name) or an undefined sub-template (Key is the template name)
//
// Concurrency:
//   - Safe for concurrent use
//
// Performance:
//   - Output is buffered in memory
func (r *Registry) Render(path string, ctx vars.Context) ([]byte, error) {
	t := r.set.Lookup(path)
	if t == nil || path == "" {
		return nil, errors.Build(errors.CodeRender).
			WithOp("render").
			WithPath(path).
			WithKey(path).
			WithMsg("template not registered").
			Err()
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, ctx); err != nil {
		return nil, renderErr(path, err)
	}
	return buf.Bytes(), nil
}

func renderErr(path string, err error) error {
	b := errors.Build(errors.CodeRender).WithOp("render").WithPath(path).WithErr(err)

	msg := err.Error()
	switch {
	case missingKeyRe.MatchString(msg):
		key := missingKeyRe.FindStringSubmatch(msg)[1]
		b = b.WithKey(key).WithMsgf("missing variable %q", key)
	case missingTemplateRe.MatchString(msg):
		name := missingTemplateRe.FindStringSubmatch(msg)[1]
		b = b.WithKey(name).WithMsgf("undefined template %q", name)
	}
	return b.Err()
}
