// Package vcs initializes a git repository in a generated project.
package vcs

import (
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/storage/filesystem"

	"go.eggybyte.com/hatch/internal/errors"
)

// DotGit is the repository directory inside the worktree.
const DotGit = ".git"

// Init creates a non-bare repository whose worktree is fs and whose storage
// lives under fs/.git. It returns false without error when .git already exists.
func Init(fs billy.Filesystem) (bool, error) {
	if _, err := fs.Stat(DotGit); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, errors.Build(errors.CodeFileSystem).WithOp("git init").WithPath(DotGit).WithErr(err).Err()
	}

	dotGit, err := fs.Chroot(DotGit)
	if err != nil {
		return false, errors.Build(errors.CodeFileSystem).WithOp("git init").WithPath(DotGit).WithErr(err).Err()
	}

	storage := filesystem.NewStorage(dotGit, cache.NewObjectLRUDefault())
	if _, err := git.Init(storage, fs); err != nil {
		return false, errors.Wrapf(errors.CodeFileSystem, "git init", err, "initialize repository at %s", fs.Root())
	}
	return true, nil
}
