// Package projectfs provides the output filesystem used to materialize generated projects.
//
// Overview:
//   - Responsibility: Write files under a destination root and undo a partial run
//   - Key Types: ProjectFS (billy-backed writer), Tx (journal of one materialization)
//   - Concurrency Model: Not safe for concurrent use; one Tx per destination at a time
//   - Error Semantics: FILESYSTEM errors carrying the offending path
//   - Performance Notes: Backups of overwritten files are held in memory until Commit
//
// Usage:
//
//	pfs := projectfs.NewOS("./demo")
//	tx := pfs.Begin()
//	if _, err := tx.WriteFile("go.mod", data, 0o644); err != nil {
//		_ = tx.Rollback()
//	}
//	tx.Commit()
package projectfs

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"go.eggybyte.com/hatch/internal/errors"
	"go.eggybyte.com/hatch/internal/logx"
)

// ProjectFS provides file operations relative to a destination root.
//
// Parameters:
//   - fs: Billy filesystem rooted at the destination
//   - log: Logger receiving per-file debug lines
//
// Concurrency:
//   - Not safe for concurrent use
type ProjectFS struct {
	fs  billy.Filesystem
	log logx.Logger
}

// Option configures a ProjectFS.
type Option func(*ProjectFS)

// WithLogger sets the logger used for per-file debug output.
func WithLogger(l logx.Logger) Option {
	return func(p *ProjectFS) {
		if l != nil {
			p.log = l
		}
	}
}

// New creates a ProjectFS over fs.
//
// Parameters:
//   - fs: Billy filesystem rooted at the destination
//   - opts: Optional configuration
//
// Returns:
//   - *ProjectFS: Project filesystem instance
func New(fs billy.Filesystem, opts ...Option) *ProjectFS {
	p := &ProjectFS{fs: fs, log: logx.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewOS creates a ProjectFS rooted at dir on the host filesystem.
func NewOS(dir string, opts ...Option) *ProjectFS {
	return New(osfs.New(dir), opts...)
}

// Exists reports whether name exists.
//
// Parameters:
//   - name: Slash-separated path relative to the root
//
// Returns:
//   - bool: True if a file or directory exists at name
//   - error: FILESYSTEM error for failures other than absence
func (p *ProjectFS) Exists(name string) (bool, error) {
	_, err := p.fs.Stat(native(name))
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, fsErr("stat", name, err)
	}
}

// ReadFile reads the content of name.
func (p *ProjectFS) ReadFile(name string) ([]byte, error) {
	data, err := util.ReadFile(p.fs, native(name))
	if err != nil {
		return nil, fsErr("read", name, err)
	}
	return data, nil
}

// WriteFile writes data to name, creating parent directories.
//
// Parameters:
//   - name: Slash-separated path relative to the root
//   - data: File content
//   - mode: Permission bits used when the file is created
//
// Returns:
//   - error: FILESYSTEM error if any
//
// Concurrency:
//   - Single-threaded per file
func (p *ProjectFS) WriteFile(name string, data []byte, mode fs.FileMode) error {
	if dir := path.Dir(name); dir != "." {
		if err := p.fs.MkdirAll(native(dir), 0o755); err != nil {
			return fsErr("mkdir", dir, err)
		}
	}
	if err := util.WriteFile(p.fs, native(name), data, mode); err != nil {
		return fsErr("write", name, err)
	}
	p.log.Debug("file written", "path", name, "bytes", len(data))
	return nil
}

// Remove deletes name. A missing file is not an error.
func (p *ProjectFS) Remove(name string) error {
	if err := p.fs.Remove(native(name)); err != nil && !os.IsNotExist(err) {
		return fsErr("remove", name, err)
	}
	p.log.Debug("file removed", "path", name)
	return nil
}

// Begin starts a journaled sequence of writes.
func (p *ProjectFS) Begin() *Tx {
	return &Tx{p: p, dirs: make(map[string]struct{})}
}

type backup struct {
	name string
	data []byte
	mode fs.FileMode
}

// Tx journals the effects of WriteFile so that a failed materialization can
// be undone: created files are removed, overwritten files restored and
// directories created by the Tx removed. A destination root that did not
// exist before the first write is removed last.
type Tx struct {
	p           *ProjectFS
	created     []string
	backups     []backup
	dirList     []string
	dirs        map[string]struct{}
	rootChecked bool
	rootCreated bool
	done        bool
}

// WriteFile writes data to name and records how to undo it.
//
// Parameters:
//   - name: Slash-separated path relative to the root
//   - data: File content
//   - mode: Permission bits used when the file is created
//
// Returns:
//   - bool: True if an existing file was replaced
//   - error: FILESYSTEM error naming the path
func (tx *Tx) WriteFile(name string, data []byte, mode fs.FileMode) (bool, error) {
	if !tx.rootChecked {
		ok, err := tx.p.Exists(".")
		if err != nil {
			return false, err
		}
		tx.rootChecked = true
		tx.rootCreated = !ok
	}
	if err := tx.mkdirs(path.Dir(name)); err != nil {
		return false, err
	}

	existed := false
	info, err := tx.p.fs.Stat(native(name))
	switch {
	case err == nil:
		existed = true
		if info.IsDir() {
			return false, errors.Build(errors.CodeFileSystem).
				WithOp("write").
				WithPath(name).
				WithMsg("destination is a directory").
				Err()
		}
		old, err := tx.p.ReadFile(name)
		if err != nil {
			return false, err
		}
		tx.backups = append(tx.backups, backup{name: name, data: old, mode: info.Mode().Perm()})
	case os.IsNotExist(err):
		tx.created = append(tx.created, name)
	default:
		return false, fsErr("stat", name, err)
	}

	if err := util.WriteFile(tx.p.fs, native(name), data, mode); err != nil {
		return false, fsErr("write", name, err)
	}
	tx.p.log.Debug("file written", "path", name, "bytes", len(data))
	return existed, nil
}

// mkdirs creates the missing ancestors of dir one level at a time so each
// created directory is journaled.
func (tx *Tx) mkdirs(dir string) error {
	if dir == "." || dir == "" {
		return nil
	}
	var missing []string
	for d := dir; d != "." && d != "/"; d = path.Dir(d) {
		ok, err := tx.p.Exists(d)
		if err != nil {
			return err
		}
		if ok {
			break
		}
		missing = append(missing, d)
	}
	slices.Reverse(missing)
	for _, d := range missing {
		if err := tx.p.fs.MkdirAll(native(d), 0o755); err != nil {
			return fsErr("mkdir", d, err)
		}
		if _, seen := tx.dirs[d]; !seen {
			tx.dirs[d] = struct{}{}
			tx.dirList = append(tx.dirList, d)
		}
	}
	return nil
}

// Created returns the files created so far.
func (tx *Tx) Created() []string {
	return slices.Clone(tx.created)
}

// Rollback undoes every recorded write in reverse order. It keeps going
// after a failure and returns the errors joined.
func (tx *Tx) Rollback() error {
	if tx.done {
		return nil
	}
	tx.done = true

	var errs []error
	for i := len(tx.backups) - 1; i >= 0; i-- {
		b := tx.backups[i]
		if err := util.WriteFile(tx.p.fs, native(b.name), b.data, b.mode); err != nil {
			errs = append(errs, fsErr("restore", b.name, err))
			continue
		}
		tx.p.log.Debug("file restored", "path", b.name)
	}
	for i := len(tx.created) - 1; i >= 0; i-- {
		if err := tx.p.Remove(tx.created[i]); err != nil {
			errs = append(errs, err)
		}
	}

	dirs := slices.Clone(tx.dirList)
	slices.SortStableFunc(dirs, func(a, b string) int {
		return strings.Count(b, "/") - strings.Count(a, "/")
	})
	for _, d := range dirs {
		if err := tx.p.fs.Remove(native(d)); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fsErr("remove dir", d, err))
			continue
		}
		tx.p.log.Debug("directory removed", "path", d)
	}
	if tx.rootCreated {
		if err := tx.p.fs.Remove("."); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fsErr("remove dir", ".", err))
		} else {
			tx.p.log.Debug("destination removed")
		}
	}
	return errors.Join(errs...)
}

// Commit discards the journal. Rollback after Commit does nothing.
func (tx *Tx) Commit() {
	tx.done = true
	tx.created = nil
	tx.backups = nil
	tx.dirList = nil
	tx.rootCreated = false
}

func native(name string) string {
	return filepath.FromSlash(name)
}

func fsErr(op, name string, err error) error {
	return errors.Build(errors.CodeFileSystem).
		WithOp(op).
		WithPath(name).
		WithErr(err).
		Err()
}
