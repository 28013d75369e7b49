package main

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.eggybyte.com/hatch/internal/catalog"
	"go.eggybyte.com/hatch/internal/config"
	"go.eggybyte.com/hatch/internal/errors"
	"go.eggybyte.com/hatch/internal/scaffold"
	"go.eggybyte.com/hatch/internal/ui"
	"go.eggybyte.com/hatch/internal/vars"
)

func defaultOptions() newOptions {
	return newOptions{variant: "chi", policy: "fail"}
}

func changedSet(flags ...string) func(string) bool {
	return func(name string) bool { return slices.Contains(flags, name) }
}

func TestResolveDefaults(t *testing.T) {
	p, err := resolve(catalog.Default(), changedSet(), defaultOptions(), &config.File{}, "My Demo")
	require.NoError(t, err)

	req := p.request
	assert.Equal(t, catalog.VariantChi, req.Variant)
	assert.Equal(t, catalog.AllGroups, req.Groups)
	assert.Equal(t, "my_demo", req.Destination)
	assert.Equal(t, scaffold.PolicyFail, req.Policy)
	assert.Equal(t, "My Demo", req.Context[vars.KeyProjectName])
	assert.Len(t, req.Context[vars.KeyAppSecret], 64)
	assert.False(t, p.git)
}

func TestResolveConfigFile(t *testing.T) {
	file := &config.File{
		Variant:     "gin",
		Groups:      []string{"global"},
		Policy:      "skip",
		Destination: "out",
		Git:         true,
		Vars:        map[string]string{"port": "9000", "app_secret": "fixed"},
	}
	p, err := resolve(catalog.Default(), changedSet(), defaultOptions(), file, "demo")
	require.NoError(t, err)

	req := p.request
	assert.Equal(t, catalog.VariantGin, req.Variant)
	assert.Equal(t, []catalog.Group{catalog.GroupGlobal}, req.Groups)
	assert.Equal(t, scaffold.PolicySkip, req.Policy)
	assert.Equal(t, "out", req.Destination)
	assert.Equal(t, 9000, req.Context[vars.KeyPort])
	assert.Equal(t, "fixed", req.Context[vars.KeyAppSecret])
	assert.True(t, p.git)
}

func TestResolveFlagsOverrideConfig(t *testing.T) {
	file := &config.File{Variant: "gin", Policy: "skip", Git: true, Vars: map[string]string{"port": "9000"}}
	opts := defaultOptions()
	opts.variant = "chi"
	opts.port = "7000"
	opts.groups = "docker"
	opts.set = []string{"db_driver=postgres", "owner=platform"}

	p, err := resolve(catalog.Default(), changedSet("variant", "port", "groups", "git"), opts, file, "demo")
	require.NoError(t, err)

	req := p.request
	assert.Equal(t, catalog.VariantChi, req.Variant)
	assert.Equal(t, []catalog.Group{catalog.GroupDocker}, req.Groups)
	assert.Equal(t, scaffold.PolicySkip, req.Policy)
	assert.Equal(t, 7000, req.Context[vars.KeyPort])
	assert.Equal(t, "postgres", req.Context[vars.KeyDBDriver])
	assert.Equal(t, "platform", req.Context["owner"])
	assert.False(t, p.git)
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*newOptions)
		key    string
	}{
		{name: "bad set", mutate: func(o *newOptions) { o.set = []string{"novalue"} }, key: "set"},
		{name: "bad variant", mutate: func(o *newOptions) { o.variant = "rocket" }, key: "variant"},
		{name: "bad group", mutate: func(o *newOptions) { o.groups = "global,web" }, key: "groups"},
		{name: "bad policy", mutate: func(o *newOptions) { o.policy = "merge" }, key: "policy"},
		{name: "bad port", mutate: func(o *newOptions) { o.port = "99999" }, key: "port"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := defaultOptions()
			tt.mutate(&opts)
			_, err := resolve(catalog.Default(), changedSet("variant", "groups", "policy", "port"), opts, &config.File{}, "demo")
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.CodeValidation), "%v", err)
			assert.Equal(t, tt.key, errors.KeyOf(err))
		})
	}
}

func captureUI(t *testing.T) *bytes.Buffer {
	t.Helper()
	var out bytes.Buffer
	ui.SetOutput(&out, &out)
	t.Cleanup(func() { ui.SetOutput(os.Stdout, os.Stderr) })
	return &out
}

func TestNewCommandWritesProject(t *testing.T) {
	out := captureUI(t)
	dest := filepath.Join(t.TempDir(), "demo")

	rootCmd.SetArgs([]string{"new", "demo", "--dest", dest, "--groups", "global,docker", "--port", "8080", "--git"})
	require.NoError(t, rootCmd.Execute())

	dockerfile, err := os.ReadFile(filepath.Join(dest, "Dockerfile"))
	require.NoError(t, err)
	assert.Contains(t, string(dockerfile), "EXPOSE 8080")

	_, err = os.Stat(filepath.Join(dest, ".git", "HEAD"))
	require.NoError(t, err)
	assert.Contains(t, out.String(), "5 written")
	assert.Contains(t, out.String(), "Initialized git repository in "+dest)
}

func TestListCommand(t *testing.T) {
	out := captureUI(t)

	rootCmd.SetArgs([]string{"list", "gin"})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "gin\n")
	assert.Contains(t, out.String(), "    pkg/result/reply.go\n")
	assert.NotContains(t, out.String(), "rejection.go")
}

func TestRenderCommand(t *testing.T) {
	out := captureUI(t)

	rootCmd.SetArgs([]string{"render", "chi", "docker", "Dockerfile", "--name", "shop", "--set", "port=9100"})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "EXPOSE 9100")
	assert.Contains(t, out.String(), "/app/shop")
}
