// Package vars builds the variable context consumed by template rendering.
//
// Overview:
//   - Responsibility: Validate raw caller input, apply defaults, derive identifiers
//   - Key Types: Context (read-only variable map), Builder
//   - Concurrency Model: A Builder is safe for concurrent use; a Context must not be mutated
//   - Error Semantics: VALIDATION errors naming the first offending field
//   - Performance Notes: One struct validation pass per build
//
// Usage:
//
//	ctx, err := vars.Build(map[string]string{"project_name": "demo", "variant": "chi"})
//	port := ctx["port"]
package vars

import (
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/go-playground/validator/v10"
	"golang.org/x/mod/module"

	"go.eggybyte.com/hatch/internal/catalog"
	"go.eggybyte.com/hatch/internal/errors"
)

// Context maps variable names to the values substituted into templates.
// It is built once per run and treated as read-only afterwards.
type Context map[string]any

// Keys returns the variable names sorted.
func (c Context) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Variable names understood by the built-in templates.
const (
	KeyProjectName = "project_name"
	KeyAppName     = "app_name"
	KeyVariant     = "variant"
	KeyModulePath  = "module_path"
	KeyPort        = "port"
	KeyDBDriver    = "db_driver"
	KeyDBDSN       = "db_dsn"
	KeyRedisAddr   = "redis_addr"
	KeyVersion     = "version"
	KeyGoVersion   = "go_version"
	KeyAppSecret   = "app_secret"
)

// Defaults applied when a key is absent or blank.
const (
	DefaultPort      = "8000"
	DefaultDBDriver  = "mysql"
	DefaultRedisAddr = "127.0.0.1:6379"
	DefaultVersion   = "0.1.0"
	DefaultGoVersion = "1.22"
)

var known = []string{
	KeyProjectName, KeyAppName, KeyVariant, KeyModulePath, KeyPort, KeyDBDriver,
	KeyDBDSN, KeyRedisAddr, KeyVersion, KeyGoVersion, KeyAppSecret,
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// input is validated in declaration order, so the first failing field is
// the first one listed here.
type input struct {
	ProjectName string `key:"project_name" validate:"required"`
	Variant     string `key:"variant" validate:"required,variant"`
	ModulePath  string `key:"module_path" validate:"required,modpath"`
	Port        string `key:"port" validate:"required,port"`
	DBDriver    string `key:"db_driver" validate:"required,oneof=mysql postgres sqlite"`
	DBDSN       string `key:"db_dsn" validate:"required"`
	RedisAddr   string `key:"redis_addr" validate:"required,hostname_port"`
	Version     string `key:"version" validate:"required,version"`
	GoVersion   string `key:"go_version" validate:"required,goversion"`
}

// Builder validates and normalizes raw input against a catalog.
type Builder struct {
	validate *validator.Validate
}

// NewBuilder returns a Builder that accepts the variants of cat.
func NewBuilder(cat *catalog.Catalog) *Builder {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("key")
	})
	_ = v.RegisterValidation("variant", func(fl validator.FieldLevel) bool {
		return cat.HasVariant(catalog.Variant(fl.Field().String()))
	})
	_ = v.RegisterValidation("modpath", func(fl validator.FieldLevel) bool {
		return module.CheckImportPath(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("port", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Field().String())
		return err == nil && n >= 1 && n <= 65535
	})
	_ = v.RegisterValidation("version", func(fl validator.FieldLevel) bool {
		_, err := semver.NewVersion(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("goversion", func(fl validator.FieldLevel) bool {
		ver, err := semver.NewVersion(fl.Field().String())
		return err == nil && ver.Major() == 1 && ver.Prerelease() == ""
	})
	return &Builder{validate: v}
}

// Build validates raw against the default catalog.
func Build(raw map[string]string) (Context, error) {
	return NewBuilder(catalog.Default()).Build(raw)
}

// Build validates raw, applies defaults and returns the rendering context.
// Keys outside the built-in set are passed through as strings.
func (b *Builder) Build(raw map[string]string) (Context, error) {
	get := func(k string) string { return strings.TrimSpace(raw[k]) }
	orDefault := func(k, def string) string {
		if v := get(k); v != "" {
			return v
		}
		return def
	}

	in := input{
		ProjectName: get(KeyProjectName),
		Variant:     strings.ToLower(get(KeyVariant)),
		Port:        orDefault(KeyPort, DefaultPort),
		DBDriver:    strings.ToLower(orDefault(KeyDBDriver, DefaultDBDriver)),
		RedisAddr:   orDefault(KeyRedisAddr, DefaultRedisAddr),
		Version:     orDefault(KeyVersion, DefaultVersion),
		GoVersion:   orDefault(KeyGoVersion, DefaultGoVersion),
	}

	appName := Sanitize(in.ProjectName)
	if in.ProjectName != "" && appName == "" {
		return nil, fieldErr(KeyProjectName, "must contain at least one letter or digit")
	}
	if _, ok := raw[KeyAppName]; ok {
		return nil, fieldErr(KeyAppName, "is derived from project_name and cannot be set")
	}

	in.ModulePath = orDefault(KeyModulePath, appName)
	in.DBDSN = orDefault(KeyDBDSN, defaultDSN(in.DBDriver, appName))

	if err := b.validate.Struct(in); err != nil {
		return nil, translate(err)
	}

	port, _ := strconv.Atoi(in.Port)
	version, _ := semver.NewVersion(in.Version)

	ctx := Context{
		KeyProjectName: in.ProjectName,
		KeyAppName:     appName,
		KeyVariant:     in.Variant,
		KeyModulePath:  in.ModulePath,
		KeyPort:        port,
		KeyDBDriver:    in.DBDriver,
		KeyDBDSN:       in.DBDSN,
		KeyRedisAddr:   in.RedisAddr,
		KeyVersion:     version.String(),
		KeyGoVersion:   in.GoVersion,
	}
	if secret, ok := raw[KeyAppSecret]; ok {
		ctx[KeyAppSecret] = secret
	}

	extra := make([]string, 0, len(raw))
	for k := range raw {
		if !slices.Contains(known, k) {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		if !identRe.MatchString(k) {
			return nil, fieldErr(k, "is not a valid template variable name")
		}
		ctx[k] = raw[k]
	}
	return ctx, nil
}

// Sanitize derives an identifier from a human-readable project name:
// lowercase ASCII letters and digits, other runs collapsed to a single
// underscore, no leading or trailing underscore, never starting with a digit.
func Sanitize(name string) string {
	var b strings.Builder
	sep := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if sep && b.Len() > 0 {
				b.WriteByte('_')
			}
			sep = false
			b.WriteRune(r)
			continue
		}
		sep = true
	}
	s := b.String()
	if s != "" && s[0] >= '0' && s[0] <= '9' {
		s = "app_" + s
	}
	return s
}

func defaultDSN(driver, app string) string {
	switch driver {
	case "postgres":
		return fmt.Sprintf("host=127.0.0.1 port=5432 user=postgres password=postgres dbname=%s sslmode=disable", app)
	case "sqlite":
		return app + ".db"
	default:
		return fmt.Sprintf("root:password@tcp(127.0.0.1:3306)/%s?charset=utf8mb4&parseTime=True&loc=Local", app)
	}
}

var tagMessages = map[string]string{
	"required":      "is required",
	"variant":       "is not a cataloged variant",
	"modpath":       "is not a valid module path",
	"port":          "must be an integer between 1 and 65535",
	"oneof":         "must be one of: %s",
	"hostname_port": "must be host:port",
	"version":       "must be a semantic version",
	"goversion":     "must be a Go release such as 1.22",
}

func translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errors.Wrap(errors.CodeValidation, "build context", err)
	}
	fe := verrs[0]
	msg, ok := tagMessages[fe.Tag()]
	if !ok {
		msg = "failed " + fe.Tag() + " check"
	}
	if strings.Contains(msg, "%s") {
		msg = fmt.Sprintf(msg, fe.Param())
	}
	return fieldErr(fe.Field(), fmt.Sprintf("%s (got %q)", msg, fmt.Sprint(fe.Value())))
}

func fieldErr(key, msg string) error {
	return errors.Build(errors.CodeValidation).
		WithOp("build context").
		WithKey(key).
		WithMsgf("%s %s", key, msg).
		Err()
}
