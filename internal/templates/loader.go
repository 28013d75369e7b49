package templates

import (
	"sync"

	"go.eggybyte.com/hatch/internal/catalog"
	"go.eggybyte.com/hatch/internal/errors"
	"go.eggybyte.com/hatch/internal/vars"
)

type groupKey struct {
	variant catalog.Variant
	group   catalog.Group
}

// Loader compiles catalog groups on demand and caches the result.
//
// Concurrency:
//   - Safe for concurrent use
//
// Performance:
//   - Each (variant, group) is compiled at most once per Loader
type Loader struct {
	cat *catalog.Catalog

	mu    sync.Mutex
	cache map[groupKey]*Registry
}

// NewLoader creates a Loader over cat.
//
// Parameters:
//   - cat: Template catalog
//
// Returns:
//   - *Loader: Loader instance
func NewLoader(cat *catalog.Catalog) *Loader {
	return &Loader{
		cat:   cat,
		cache: make(map[groupKey]*Registry),
	}
}

// Registry returns the compiled registry of (v, g).
//
// Parameters:
//   - v: Variant
//   - g: Group
//
// Returns:
//   - *Registry: Compiled group
//   - error: UNSUPPORTED_GROUP when the variant does not provide g, COMPILE on parse failure
//
// Concurrency:
//   - Safe for concurrent use
func (l *Loader) Registry(v catalog.Variant, g catalog.Group) (*Registry, error) {
	k := groupKey{variant: v, group: g}

	l.mu.Lock()
	defer l.mu.Unlock()
	if reg, ok := l.cache[k]; ok {
		return reg, nil
	}

	entries, ok := l.cat.Entries(v, g)
	if !ok {
		return nil, errors.Build(errors.CodeUnsupportedGroup).
			WithOp("load group").
			WithKey(string(g)).
			WithMsgf("variant %q does not provide group %q", v, g).
			Err()
	}
	reg, err := Compile(entries)
	if err != nil {
		return nil, err
	}
	l.cache[k] = reg
	return reg, nil
}

// Preview renders a single catalog entry.
//
// Parameters:
//   - v: Variant
//   - g: Group containing the entry
//   - path: Virtual path of the entry
//   - ctx: Variable context
//
// Returns:
//   - []byte: Rendered content
//   - error: UNSUPPORTED_GROUP, COMPILE or RENDER error
//
// Concurrency:
//   - Safe for concurrent use
func (l *Loader) Preview(v catalog.Variant, g catalog.Group, path string, ctx vars.Context) ([]byte, error) {
	reg, err := l.Registry(v, g)
	if err != nil {
		return nil, err
	}
	return reg.Render(path, ctx)
}
