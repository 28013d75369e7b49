package logx

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger := New(WithWriter(&buf))

	logger.Info("file written", "path", "go.mod")

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, `msg="file written"`)
	assert.Contains(t, out, "path=go.mod")
	assert.NotContains(t, out, "time=")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(WithWriter(&buf), WithLevel(slog.LevelWarn))

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(WithWriter(&buf), WithFormat(FormatJSON))

	logger.With("variant", "chi").Error(errors.New("boom"), "render failed", "path", "main.go")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "ERROR", rec["level"])
	assert.Equal(t, "chi", rec["variant"])
	assert.Equal(t, "boom", rec["error"])
	assert.Equal(t, "main.go", rec["path"])
}

func TestSensitiveFieldsMasked(t *testing.T) {
	var buf bytes.Buffer
	logger := New(WithWriter(&buf))

	logger.Info("context built", "app_secret", "s3cr3t", "project_name", "demo")

	assert.NotContains(t, buf.String(), "s3cr3t")
	assert.Contains(t, buf.String(), "app_secret=***")
	assert.Contains(t, buf.String(), "project_name=demo")
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("JSON"))
	assert.Equal(t, FormatLogfmt, ParseFormat("logfmt"))
	assert.Equal(t, FormatLogfmt, ParseFormat(""))
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().With("k", "v").Error(errors.New("x"), "ignored")
	})
}
