package version

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	saved := [3]string{Version, Commit, BuildTime}
	t.Cleanup(func() { Version, Commit, BuildTime = saved[0], saved[1], saved[2] })

	Version, Commit, BuildTime = "v1.2.3", "4a9b2c1", "2025-10-31T12:10:00Z"
	assert.Equal(t, "hatch version v1.2.3 (commit 4a9b2c1, built 2025-10-31T12:10:00Z)", String())

	full := Full()
	assert.True(t, strings.HasPrefix(full, String()+"\n"))
	assert.Contains(t, full, runtime.Version())
}

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
	assert.Equal(t, runtime.Version(), info.GoVersion)
}
