package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lingoflash/internal/logger"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logger.DEBUG, logger.ParseLevel("debug"))
	assert.Equal(t, logger.WARN, logger.ParseLevel("WARNING"))
	assert.Equal(t, logger.ERROR, logger.ParseLevel("error"))
	assert.Equal(t, logger.INFO, logger.ParseLevel("nonsense"))
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithLevel(logger.WARN), logger.WithColors(false))

	log.Info("hidden")
	log.Warn("shown %d", 1)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "shown 1")
}

func TestLogger_TextFieldsAreSorted(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithColors(false)).
		WithPrefix("study_service").
		WithFields(map[string]any{"zeta": 1, "alpha": "a"})

	log.Info("saved")

	out := buf.String()
	assert.Contains(t, out, "[study_service]")
	assert.Less(t, strings.Index(out, "alpha=a"), strings.Index(out, "zeta=1"))
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithFormat(logger.FormatJSON)).
		WithPrefix("api").
		WithField("request_id", "abc")

	log.Error("failed: %s", "boom")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "failed: boom", entry["msg"])
	assert.Equal(t, "api", entry["component"])
	assert.Equal(t, "abc", entry["request_id"])
}

func TestLogger_WithFieldDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := logger.New(logger.WithOutput(&buf), logger.WithColors(false))
	_ = parent.WithField("child", true)

	parent.Info("parent line")
	assert.NotContains(t, buf.String(), "child=")
}

func TestContext(t *testing.T) {
	log := logger.Nop().WithField("k", "v")
	ctx := logger.NewContext(context.Background(), log)

	assert.Same(t, log, logger.FromContext(ctx))
	assert.Same(t, logger.Default(), logger.FromContext(context.Background()))
}
