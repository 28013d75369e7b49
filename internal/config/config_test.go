package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.eggybyte.com/hatch/internal/errors"
)

func TestLoad(t *testing.T) {
	content := `variant: chi
groups: [global, docker]
policy: overwrite
destination: ./out
git: true
vars:
  port: "8080"
  module_path: github.com/acme/demo
`
	path := filepath.Join(t.TempDir(), "hatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	f, diags := Load(path)
	require.NotNil(t, f)
	require.False(t, diags.HasErrors(), "%v", diags.Items())
	assert.NoError(t, diags.Err())

	assert.Equal(t, "chi", f.Variant)
	assert.Equal(t, []string{"global", "docker"}, f.Groups)
	assert.Equal(t, "overwrite", f.Policy)
	assert.Equal(t, "./out", f.Destination)
	assert.True(t, f.Git)
	assert.Equal(t, "8080", f.Vars["port"])
}

func TestLoadMissingFile(t *testing.T) {
	f, diags := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Nil(t, f)
	require.True(t, diags.HasErrors())
	assert.True(t, errors.IsCode(diags.Err(), errors.CodeValidation))
}

func TestParseEmpty(t *testing.T) {
	f, diags := Parse(nil)
	require.NotNil(t, f)
	assert.False(t, diags.HasErrors())
	assert.Empty(t, diags.Items())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		path    string
	}{
		{name: "unknown variant", content: "variant: rocket\n", path: "variant"},
		{name: "unknown group", content: "groups: [global, frontend]\n", path: "groups[1]"},
		{name: "unknown policy", content: "policy: merge\n", path: "policy"},
		{name: "derived variable", content: "vars:\n  app_name: x\n", path: "vars.app_name"},
		{name: "unknown field", content: "variantt: chi\n", path: ""},
		{name: "bad yaml", content: "groups: [global\n", path: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, diags := Parse([]byte(tt.content))
			require.True(t, diags.HasErrors())
			items := diags.Items()
			assert.Equal(t, SeverityError, items[0].Severity)
			assert.Equal(t, tt.path, items[0].Path)

			err := diags.Err()
			assert.True(t, errors.IsCode(err, errors.CodeValidation))
			assert.Equal(t, tt.path, errors.KeyOf(err))
		})
	}
}

func TestParseWarnings(t *testing.T) {
	f, diags := Parse([]byte("vars:\n  app_secret: abc\n  variant: gin\n"))
	require.NotNil(t, f)
	assert.False(t, diags.HasErrors())
	assert.Len(t, diags.Items(), 2)
	assert.NoError(t, diags.Err())
}
