package templates

import (
	"go/format"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.eggybyte.com/hatch/internal/catalog"
	"go.eggybyte.com/hatch/internal/errors"
	"go.eggybyte.com/hatch/internal/vars"
)

func fullContext(t *testing.T, variant string) vars.Context {
	t.Helper()
	ctx, err := vars.Build(map[string]string{
		"project_name": "demo",
		"variant":      variant,
		"port":         "8080",
		"app_secret":   "s3cr3t",
	})
	require.NoError(t, err)
	return ctx
}

func TestCompileAndRender(t *testing.T) {
	reg, err := Compile([]catalog.Entry{
		{Path: "a.txt", Body: "name={{ .project_name }} port={{ .port }}"},
		{Path: "b.txt", Body: "static"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt"}, reg.Names())

	out, err := reg.Render("a.txt", vars.Context{"project_name": "demo", "port": 8080})
	require.NoError(t, err)
	assert.Equal(t, "name=demo port=8080", string(out))

	out, err = reg.Render("b.txt", nil)
	require.NoError(t, err)
	assert.Equal(t, "static", string(out))
}

func TestCompileErrorNamesPath(t *testing.T) {
	_, err := Compile([]catalog.Entry{
		{Path: "ok.txt", Body: "fine"},
		{Path: "broken.txt", Body: "{{ .x "},
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeCompile))
	assert.Equal(t, "broken.txt", errors.PathOf(err))
}

func TestRenderMissingVariable(t *testing.T) {
	reg, err := Compile([]catalog.Entry{{Path: "cfg", Body: "secret: {{ .app_secret }}"}})
	require.NoError(t, err)

	out, err := reg.Render("cfg", vars.Context{"project_name": "demo"})
	require.Error(t, err)
	assert.Nil(t, out)
	assert.True(t, errors.IsCode(err, errors.CodeRender))
	assert.Equal(t, "app_secret", errors.KeyOf(err))
	assert.Equal(t, "cfg", errors.PathOf(err))
}

func TestRenderUnregisteredPath(t *testing.T) {
	reg, err := Compile([]catalog.Entry{{Path: "a", Body: "a"}})
	require.NoError(t, err)

	_, err = reg.Render("nope", vars.Context{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeRender))
	assert.Equal(t, "nope", errors.PathOf(err))
}

func TestDefineAndInclude(t *testing.T) {
	reg, err := Compile([]catalog.Entry{
		{Path: "helpers", Body: `{{ define "banner" }}# {{ .project_name | upper }}{{ end }}`},
		{Path: "README.md", Body: "{{ template \"banner\" . }}\ndone"},
	})
	require.NoError(t, err)
	assert.Contains(t, reg.Names(), "banner")

	out, err := reg.Render("README.md", vars.Context{"project_name": "demo"})
	require.NoError(t, err)
	assert.Equal(t, "# DEMO\ndone", string(out))
}

func TestIncludeAcrossEntries(t *testing.T) {
	reg, err := Compile([]catalog.Entry{
		{Path: "footer.txt", Body: "v{{ .version }}"},
		{Path: "main.txt", Body: `{{ .project_name }} {{ template "footer.txt" . }}`},
	})
	require.NoError(t, err)

	out, err := reg.Render("main.txt", vars.Context{"project_name": "demo", "version": "1.0.0"})
	require.NoError(t, err)
	assert.Equal(t, "demo v1.0.0", string(out))
}

func TestRenderMissingSubTemplate(t *testing.T) {
	reg, err := Compile([]catalog.Entry{{Path: "main.txt", Body: `x{{ template "ghost" . }}`}})
	require.NoError(t, err)

	_, err = reg.Render("main.txt", vars.Context{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeRender))
	assert.Equal(t, "ghost", errors.KeyOf(err))
}

func TestMissingVariableInsideInclude(t *testing.T) {
	reg, err := Compile([]catalog.Entry{
		{Path: "part", Body: "{{ .port }}"},
		{Path: "main", Body: `{{ template "part" . }}`},
	})
	require.NoError(t, err)

	_, err = reg.Render("main", vars.Context{})
	require.Error(t, err)
	assert.Equal(t, "port", errors.KeyOf(err))
	assert.Equal(t, "main", errors.PathOf(err))
}

func TestFuncs(t *testing.T) {
	reg, err := Compile([]catalog.Entry{
		{Path: "f", Body: `{{ .n | upper }}|{{ .n | lower }}|{{ .t | title }}|{{ .n | replace "_" "-" }}|{{ .empty | default "none" }}|{{ .n | default "none" }}|{{ .zero | default 7 }}`},
	})
	require.NoError(t, err)

	out, err := reg.Render("f", vars.Context{"n": "My_App", "t": "hello big world", "empty": "", "zero": 0})
	require.NoError(t, err)
	assert.Equal(t, "MY_APP|my_app|Hello Big World|My-App|none|My_App|7", string(out))
}

func TestRenderDeterministic(t *testing.T) {
	entries, ok := catalog.Default().Entries(catalog.VariantChi, catalog.GroupInternal)
	require.True(t, ok)
	ctx := fullContext(t, "chi")

	a, err := Compile(entries)
	require.NoError(t, err)
	b, err := Compile(entries)
	require.NoError(t, err)

	for _, e := range entries {
		x, err := a.Render(e.Path, ctx)
		require.NoError(t, err)
		y, err := b.Render(e.Path, ctx)
		require.NoError(t, err)
		assert.Equal(t, x, y, e.Path)
	}
}

func TestDefaultCatalogRendersCompletely(t *testing.T) {
	cat := catalog.Default()
	for _, v := range cat.Variants() {
		ctx := fullContext(t, string(v))
		for _, g := range cat.Groups(v) {
			entries, _ := cat.Entries(v, g)
			reg, err := Compile(entries)
			require.NoError(t, err, "%s/%s", v, g)
			for _, e := range entries {
				out, err := reg.Render(e.Path, ctx)
				require.NoError(t, err, "%s/%s/%s", v, g, e.Path)
				assert.NotContains(t, string(out), "<no value>", e.Path)
			}
		}
	}
}

func TestGeneratedGoSourcesAreFormatted(t *testing.T) {
	cat := catalog.Default()
	for _, v := range cat.Variants() {
		for _, driver := range []string{"mysql", "postgres", "sqlite"} {
			ctx, err := vars.Build(map[string]string{
				"project_name": "demo",
				"variant":      string(v),
				"db_driver":    driver,
				"app_secret":   "s3cr3t",
			})
			require.NoError(t, err)

			for _, g := range cat.Groups(v) {
				entries, _ := cat.Entries(v, g)
				reg, err := Compile(entries)
				require.NoError(t, err)
				for _, e := range entries {
					if !strings.HasSuffix(e.Path, ".go") {
						continue
					}
					out, err := reg.Render(e.Path, ctx)
					require.NoError(t, err)
					formatted, err := format.Source(out)
					require.NoError(t, err, "%s/%s %s", v, driver, e.Path)
					assert.Equal(t, string(formatted), string(out), "%s/%s %s is not gofmt clean", v, driver, e.Path)
				}
			}
		}
	}
}

func TestLoaderPreview(t *testing.T) {
	l := NewLoader(catalog.Default())
	ctx := fullContext(t, "chi")

	out, err := l.Preview(catalog.VariantChi, catalog.GroupDocker, "Dockerfile", ctx)
	require.NoError(t, err)
	assert.Contains(t, string(out), "EXPOSE 8080")

	first, err := l.Registry(catalog.VariantChi, catalog.GroupDocker)
	require.NoError(t, err)
	second, err := l.Registry(catalog.VariantChi, catalog.GroupDocker)
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, err = l.Preview(catalog.Variant("rocket"), catalog.GroupDocker, "Dockerfile", ctx)
	assert.True(t, errors.IsCode(err, errors.CodeUnsupportedGroup))

	_, err = l.Preview(catalog.VariantGin, catalog.GroupInternal, "pkg/result/rejection.go", ctx)
	assert.True(t, errors.IsCode(err, errors.CodeRender))
}
