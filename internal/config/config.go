// Package config loads the optional hatch.yaml project file.
//
// Overview:
//   - Responsibility: Parse hatch.yaml, validate it and report diagnostics
//   - Key Types: File, Diagnostic, Diagnostics
//   - Concurrency Model: Immutable after loading
//   - Error Semantics: Problems are collected as diagnostics; Err converts errors to VALIDATION
//   - Performance Notes: Single-pass parsing
//
// Usage:
//
//	file, diags := config.Load("hatch.yaml")
//	if diags.HasErrors() {
//		return diags.Err()
//	}
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"go.eggybyte.com/hatch/internal/catalog"
	"go.eggybyte.com/hatch/internal/errors"
)

// DefaultPath is the file looked up when --config is not given.
const DefaultPath = "hatch.yaml"

// File is the content of hatch.yaml. Command-line flags override every field.
//
// Parameters:
//   - Variant: Framework variant (chi, gin)
//   - Groups: Groups to generate, all groups of the variant when empty
//   - Policy: Existing-file policy (fail, overwrite, skip)
//   - Destination: Output directory
//   - Git: Initialize a git repository after generation
//   - Vars: Template variables
type File struct {
	Variant     string            `yaml:"variant" validate:"omitempty,variant"`
	Groups      []string          `yaml:"groups" validate:"omitempty,dive,group"`
	Policy      string            `yaml:"policy" validate:"omitempty,oneof=fail overwrite skip"`
	Destination string            `yaml:"destination"`
	Git         bool              `yaml:"git"`
	Vars        map[string]string `yaml:"vars"`
}

// Diagnostic represents a configuration issue.
type Diagnostic struct {
	Severity   DiagnosticSeverity `json:"severity"`
	Message    string             `json:"message"`
	Path       string             `json:"path,omitempty"`
	Suggestion string             `json:"suggestion,omitempty"`
}

// DiagnosticSeverity represents the severity of a diagnostic.
type DiagnosticSeverity string

const (
	SeverityError   DiagnosticSeverity = "error"
	SeverityWarning DiagnosticSeverity = "warning"
)

// Diagnostics collects configuration issues in the order found.
type Diagnostics struct {
	items []Diagnostic
}

// NewDiagnostics creates an empty collection.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{items: make([]Diagnostic, 0)}
}

// AddError records an error.
func (d *Diagnostics) AddError(message, path, suggestion string) {
	d.items = append(d.items, Diagnostic{Severity: SeverityError, Message: message, Path: path, Suggestion: suggestion})
}

// AddWarning records a warning.
func (d *Diagnostics) AddWarning(message, path, suggestion string) {
	d.items = append(d.items, Diagnostic{Severity: SeverityWarning, Message: message, Path: path, Suggestion: suggestion})
}

// HasErrors reports whether any error was recorded.
func (d *Diagnostics) HasErrors() bool {
	for _, item := range d.items {
		if item.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Items returns a copy of all diagnostics.
func (d *Diagnostics) Items() []Diagnostic {
	out := make([]Diagnostic, len(d.items))
	copy(out, d.items)
	return out
}

// Err returns the first error as a VALIDATION error, or nil.
func (d *Diagnostics) Err() error {
	for _, item := range d.items {
		if item.Severity != SeverityError {
			continue
		}
		msg := item.Message
		if item.Suggestion != "" {
			msg += " (" + item.Suggestion + ")"
		}
		return errors.Build(errors.CodeValidation).
			WithOp("load config").
			WithKey(item.Path).
			WithMsg(msg).
			Err()
	}
	return nil
}

// Load reads and validates the file at path.
//
// Parameters:
//   - path: Path to hatch.yaml
//
// Returns:
//   - *File: Parsed file, nil when it cannot be read or parsed
//   - *Diagnostics: Issues found
//
// Concurrency:
//   - Single-threaded file I/O
func Load(path string) (*File, *Diagnostics) {
	data, err := os.ReadFile(path)
	if err != nil {
		diags := NewDiagnostics()
		if os.IsNotExist(err) {
			diags.AddError("configuration file not found", path, "remove --config or create the file")
		} else {
			diags.AddError(fmt.Sprintf("failed to read configuration file: %v", err), path, "check file permissions")
		}
		return nil, diags
	}
	return Parse(data)
}

// Parse decodes and validates hatch.yaml content. Unknown keys are errors.
func Parse(data []byte) (*File, *Diagnostics) {
	diags := NewDiagnostics()

	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		diags.AddError(fmt.Sprintf("failed to parse YAML: %v", err), "", "check YAML syntax and field names")
		return nil, diags
	}

	validateFile(&f, diags)
	return &f, diags
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		return name
	})
	_ = v.RegisterValidation("variant", func(fl validator.FieldLevel) bool {
		_, err := catalog.ParseVariant(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("group", func(fl validator.FieldLevel) bool {
		_, err := catalog.ParseGroup(fl.Field().String())
		return err == nil
	})
	return v
}

var suggestions = map[string]string{
	"variant": "use chi or gin",
	"group":   "use global, docker, internal, app or other",
	"oneof":   "use one of: %s",
}

func validateFile(f *File, diags *Diagnostics) {
	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			diags.AddError(err.Error(), "", "")
			return
		}
		for _, fe := range verrs {
			suggestion := suggestions[fe.Tag()]
			if strings.Contains(suggestion, "%s") {
				suggestion = fmt.Sprintf(suggestion, fe.Param())
			}
			diags.AddError(fmt.Sprintf("invalid value %q", fmt.Sprint(fe.Value())), fe.Field(), suggestion)
		}
	}

	if _, ok := f.Vars["app_name"]; ok {
		diags.AddError("app_name is derived from project_name", "vars.app_name", "remove it")
	}
	if _, ok := f.Vars["variant"]; ok {
		diags.AddWarning("vars.variant is ignored", "vars.variant", "set the top-level variant field")
	}
	if _, ok := f.Vars["app_secret"]; ok {
		diags.AddWarning("app_secret stored in a config file", "vars.app_secret", "leave it out to get a random secret per project")
	}
}
