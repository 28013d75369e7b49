// Package catalog holds the embedded template catalog of the scaffold engine.
//
// Overview:
//   - Responsibility: Map (variant, group) to an ordered list of template entries
//   - Key Types: Variant, Group, Entry, Manifest, Catalog
//   - Concurrency Model: A Catalog is immutable after New and safe to share
//   - Error Semantics: Authoring mistakes surface as CATALOG_INTEGRITY errors; Default panics on them
//   - Performance Notes: Bodies are read once from the embedded filesystem
//
// Usage:
//
//	cat := catalog.Default()
//	entries, ok := cat.Entries(catalog.VariantChi, catalog.GroupGlobal)
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"

	"go.eggybyte.com/hatch/internal/errors"
)

//go:embed templates
var templateFS embed.FS

// Variant selects the framework flavour of the generated project.
type Variant string

const (
	VariantChi Variant = "chi"
	VariantGin Variant = "gin"
)

// Group is a subset of the generated tree produced together.
type Group string

const (
	GroupGlobal   Group = "global"
	GroupDocker   Group = "docker"
	GroupInternal Group = "internal"
	GroupApp      Group = "app"
	GroupOther    Group = "other"
)

// AllGroups lists every group in canonical generation order.
var AllGroups = []Group{GroupGlobal, GroupDocker, GroupInternal, GroupApp, GroupOther}

// ParseVariant maps a name to a Variant known to the default manifest.
func ParseVariant(s string) (Variant, error) {
	v := Variant(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := defaultManifest[v]; !ok {
		return "", errors.Build(errors.CodeValidation).
			WithOp("parse variant").
			WithKey("variant").
			WithMsgf("unknown variant %q", s).
			Err()
	}
	return v, nil
}

// ParseGroup maps a name to a Group.
func ParseGroup(s string) (Group, error) {
	g := Group(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(AllGroups, g) {
		return "", errors.Build(errors.CodeValidation).
			WithOp("parse group").
			WithKey("groups").
			WithMsgf("unknown group %q", s).
			Err()
	}
	return g, nil
}

// ParseGroups parses a comma separated list of group names.
func ParseGroups(csv string) ([]Group, error) {
	var groups []Group
	for _, name := range strings.Split(csv, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		g, err := ParseGroup(name)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// Entry is one template of a group: the virtual path it renders to and its body.
type Entry struct {
	Path string
	Body string
	Mode fs.FileMode
}

// Source points a virtual path at a template file inside the catalog filesystem.
type Source struct {
	Path string
	File string
}

// Manifest declares, per variant and group, the ordered template sources.
type Manifest map[Variant]map[Group][]Source

// Catalog is the read-only (variant, group) -> entries mapping.
type Catalog struct {
	branches map[Variant]map[Group][]Entry
}

// New reads every source of m from fsys and checks catalog integrity:
// each group is non-empty, each path is a clean relative path, paths are
// unique within a group and every source file exists.
func New(fsys fs.FS, m Manifest) (*Catalog, error) {
	c := &Catalog{branches: make(map[Variant]map[Group][]Entry, len(m))}

	variants := make([]Variant, 0, len(m))
	for v := range m {
		variants = append(variants, v)
	}
	slices.Sort(variants)

	for _, variant := range variants {
		groups := m[variant]
		branch := make(map[Group][]Entry, len(groups))
		for _, group := range orderedGroups(groups) {
			sources := groups[group]
			if len(sources) == 0 {
				return nil, integrityErr(variant, group, "", "group has no templates")
			}

			seen := make(map[string]struct{}, len(sources))
			entries := make([]Entry, 0, len(sources))
			for _, src := range sources {
				if err := checkPath(src.Path); err != nil {
					return nil, integrityErr(variant, group, src.Path, err.Error())
				}
				if _, dup := seen[src.Path]; dup {
					return nil, integrityErr(variant, group, src.Path, "duplicate virtual path")
				}
				seen[src.Path] = struct{}{}

				body, err := fs.ReadFile(fsys, src.File)
				if err != nil {
					return nil, integrityErr(variant, group, src.Path, fmt.Sprintf("read %s: %v", src.File, err))
				}
				entries = append(entries, Entry{
					Path: src.Path,
					Body: string(body),
					Mode: modeFor(src.Path),
				})
			}
			branch[group] = entries
		}
		c.branches[variant] = branch
	}
	return c, nil
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		panic(err)
	}
	c, err := New(sub, defaultManifest)
	if err != nil {
		panic(err)
	}
	return c
})

// Default returns the catalog built from the embedded templates. It is built
// on first use and panics if the embedded manifest is inconsistent.
func Default() *Catalog {
	return defaultCatalog()
}

// Entries returns the entries of (v, g) in catalog order. The slice is a
// copy; ok is false when the variant does not provide the group.
func (c *Catalog) Entries(v Variant, g Group) ([]Entry, bool) {
	entries, ok := c.branches[v][g]
	if !ok {
		return nil, false
	}
	return slices.Clone(entries), true
}

// Supports reports whether variant v provides group g.
func (c *Catalog) Supports(v Variant, g Group) bool {
	_, ok := c.branches[v][g]
	return ok
}

// HasVariant reports whether v is cataloged.
func (c *Catalog) HasVariant(v Variant) bool {
	_, ok := c.branches[v]
	return ok
}

// Variants returns the cataloged variants sorted by name.
func (c *Catalog) Variants() []Variant {
	out := make([]Variant, 0, len(c.branches))
	for v := range c.branches {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// Groups returns the groups provided by v. Known groups come first in
// canonical order, followed by any others sorted by name.
func (c *Catalog) Groups(v Variant) []Group {
	return orderedGroups(c.branches[v])
}

// orderedGroups returns the keys of groups in canonical order, followed by
// unknown groups sorted by name.
func orderedGroups[T any](groups map[Group]T) []Group {
	out := make([]Group, 0, len(groups))
	for _, g := range AllGroups {
		if _, ok := groups[g]; ok {
			out = append(out, g)
		}
	}
	var extra []Group
	for g := range groups {
		if !slices.Contains(AllGroups, g) {
			extra = append(extra, g)
		}
	}
	slices.Sort(extra)
	return append(out, extra...)
}

// Paths returns the virtual paths of (v, g) in catalog order.
func (c *Catalog) Paths(v Variant, g Group) []string {
	entries := c.branches[v][g]
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Path
	}
	return out
}

func checkPath(p string) error {
	switch {
	case p == "" || p == ".":
		return fmt.Errorf("empty virtual path")
	case strings.Contains(p, `\`):
		return fmt.Errorf("virtual path must use forward slashes")
	case path.IsAbs(p):
		return fmt.Errorf("virtual path must be relative")
	case path.Clean(p) != p:
		return fmt.Errorf("virtual path is not clean")
	case p == ".." || strings.HasPrefix(p, "../"):
		return fmt.Errorf("virtual path escapes the destination")
	}
	return nil
}

func modeFor(p string) fs.FileMode {
	if strings.HasSuffix(p, ".sh") {
		return 0o755
	}
	return 0o644
}

func integrityErr(v Variant, g Group, p, msg string) error {
	return errors.Build(errors.CodeCatalogIntegrity).
		WithOp(fmt.Sprintf("catalog %s/%s", v, g)).
		WithPath(p).
		WithMsg(msg).
		Err()
}
