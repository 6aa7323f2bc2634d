package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWriter_JSONCarriesRunID(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	SetupWriter(&buf, "debug", "json")

	ctx := WithRunID(context.Background(), "run-1")
	FromContext(ctx).Debug("hello", "city", "Paris")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "run-1", line["run_id"])
	assert.Equal(t, "Paris", line["city"])
}

func TestSetupWriter_LevelFilters(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	SetupWriter(&buf, "WARN", "text")

	WithComponent("worker").Info("dropped")
	assert.Empty(t, buf.String())

	WithComponent("worker").Warn("kept")
	assert.Contains(t, buf.String(), "component=worker")
	assert.Contains(t, buf.String(), "msg=kept")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"bogus": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestScoped(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil)).With("source", "GeoNames")

	Scoped(context.Background(), base).Info("plain")
	assert.NotContains(t, buf.String(), "run_id")

	buf.Reset()
	Scoped(WithRunID(context.Background(), "run-7"), base).Info("tagged")
	assert.Contains(t, buf.String(), "run_id=run-7")
	assert.Contains(t, buf.String(), "source=GeoNames")
}
