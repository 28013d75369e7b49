package vcs

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/storage/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "go.mod", []byte("module demo\n"), 0o644))

	created, err := Init(fs)
	require.NoError(t, err)
	assert.True(t, created)

	_, err = fs.Stat(".git/HEAD")
	require.NoError(t, err)

	dotGit, err := fs.Chroot(DotGit)
	require.NoError(t, err)
	repo, err := git.Open(filesystem.NewStorage(dotGit, cache.NewObjectLRUDefault()), fs)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)
	status, err := wt.Status()
	require.NoError(t, err)
	assert.Equal(t, git.Untracked, status.File("go.mod").Worktree)
}

func TestInitExisting(t *testing.T) {
	fs := memfs.New()
	_, err := Init(fs)
	require.NoError(t, err)

	created, err := Init(fs)
	require.NoError(t, err)
	assert.False(t, created)
}
