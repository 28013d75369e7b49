package scaffold

import (
	"io/fs"
	"strings"

	"go.eggybyte.com/hatch/internal/catalog"
	"go.eggybyte.com/hatch/internal/errors"
	"go.eggybyte.com/hatch/internal/vars"
)

// Policy decides what happens when a destination file already exists.
type Policy string

const (
	// PolicyFail refuses to write anything if any destination file exists.
	PolicyFail Policy = "fail"
	// PolicyOverwrite replaces existing files.
	PolicyOverwrite Policy = "overwrite"
	// PolicySkip keeps existing files and writes the rest.
	PolicySkip Policy = "skip"
)

// Policies lists the accepted policies.
var Policies = []Policy{PolicyFail, PolicyOverwrite, PolicySkip}

// ParsePolicy maps a name to a Policy. An empty name selects PolicyFail.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicyFail, nil
	case PolicyFail, PolicyOverwrite, PolicySkip:
		return p, nil
	default:
		return "", errors.Build(errors.CodeValidation).
			WithOp("parse policy").
			WithKey("policy").
			WithMsgf("unknown policy %q (want fail, overwrite or skip)", s).
			Err()
	}
}

// Request describes one generation run.
type Request struct {
	Variant     catalog.Variant
	Groups      []catalog.Group
	Destination string
	Context     vars.Context
	Policy      Policy
}

// RenderedFile is one staged output file.
type RenderedFile struct {
	Path    string
	Content []byte
	Mode    fs.FileMode
	Group   catalog.Group
}

// Outcome records what happened to one file.
type Outcome string

const (
	OutcomeWritten     Outcome = "written"
	OutcomeSkipped     Outcome = "skipped"
	OutcomeOverwritten Outcome = "overwritten"
)

// FileResult is the Report line for one file.
type FileResult struct {
	Path       string        `json:"path"`
	OutputPath string        `json:"output_path"`
	Group      catalog.Group `json:"group"`
	Outcome    Outcome       `json:"outcome"`
	Bytes      int           `json:"bytes"`
}

// Report lists the materialized files in staging order.
type Report struct {
	Destination string          `json:"destination"`
	Variant     catalog.Variant `json:"variant"`
	Groups      []catalog.Group `json:"groups"`
	Files       []FileResult    `json:"files"`
}

// Count returns how many files ended with outcome o.
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, f := range r.Files {
		if f.Outcome == o {
			n++
		}
	}
	return n
}
