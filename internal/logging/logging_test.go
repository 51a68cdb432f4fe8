package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starter-api/backend/internal/config"
	"github.com/starter-api/backend/internal/logging"
)

func baseConfig() config.Logging {
	return config.Logging{
		Level:    "info",
		Format:   "json",
		Handlers: []string{"console"},
		Loggers:  map[string]string{logging.DB: "warn", logging.App: "debug"},
	}
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

// TestRegistry_namedLevels verifies each named logger filters by its own
// level while sharing one output.
func TestRegistry_namedLevels(t *testing.T) {
	var buf bytes.Buffer
	reg, err := logging.New(baseConfig(), logging.WithConsole(&buf))
	require.NoError(t, err)

	reg.Logger(logging.DB).Info("dropped")
	reg.Logger(logging.DB).Warn("kept db")
	reg.Logger(logging.App).Debug("kept app")
	reg.Logger("unconfigured").Debug("dropped")
	reg.Root().Info("kept root")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 3)
	assert.Equal(t, "kept db", lines[0]["msg"])
	assert.Equal(t, logging.DB, lines[0]["logger"])
	assert.Equal(t, "kept app", lines[1]["msg"])
	assert.Equal(t, "kept root", lines[2]["msg"])
	assert.NotContains(t, lines[2], "logger")
}

func TestRegistry_sameLoggerForName(t *testing.T) {
	reg, err := logging.New(baseConfig(), logging.WithConsole(&bytes.Buffer{}))
	require.NoError(t, err)

	assert.Same(t, reg.Logger(logging.App), reg.Logger(logging.App))
}

func TestRegistry_requestID(t *testing.T) {
	var buf bytes.Buffer
	reg, err := logging.New(baseConfig(), logging.WithConsole(&buf))
	require.NoError(t, err)

	ctx := context.WithValue(context.Background(), chimiddleware.RequestIDKey, "req-42")
	reg.Root().InfoContext(ctx, "with id")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "req-42", lines[0]["request_id"])
}

func TestRegistry_verboseFormat(t *testing.T) {
	var buf bytes.Buffer
	cfg := baseConfig()
	cfg.Format = "verbose"
	reg, err := logging.New(cfg, logging.WithConsole(&buf), logging.WithAttr())
	require.NoError(t, err)

	reg.Root().Info("hello", "k", "v")

	out := buf.String()
	assert.Contains(t, out, "msg=hello")
	assert.Contains(t, out, "k=v")
	assert.Regexp(t, `time="?\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}`, out)
}

func TestRegistry_fileHandler(t *testing.T) {
	var buf bytes.Buffer
	cfg := baseConfig()
	cfg.Handlers = []string{"console", "file"}
	cfg.File = filepath.Join(t.TempDir(), "app.log")
	cfg.FileMaxSizeMB = 1

	reg, err := logging.New(cfg, logging.WithConsole(&buf))
	require.NoError(t, err)

	reg.Logger(logging.App).Info("both outputs")
	require.NoError(t, reg.Close())

	data, err := os.ReadFile(cfg.File)
	require.NoError(t, err)
	assert.Contains(t, string(data), "both outputs")
	assert.Contains(t, buf.String(), "both outputs")
}

func TestNew_errors(t *testing.T) {
	cfg := baseConfig()
	cfg.Level = "loud"
	_, err := logging.New(cfg)
	assert.Error(t, err)

	cfg = baseConfig()
	cfg.Handlers = []string{"email"}
	_, err = logging.New(cfg)
	assert.ErrorContains(t, err, "email")

	cfg = baseConfig()
	cfg.Handlers = nil
	_, err = logging.New(cfg)
	assert.Error(t, err)
}
