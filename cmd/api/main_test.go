package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// run executes the root command with args and returns its stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ENV_DIR", t.TempDir())
	t.Setenv("SECRET_KEY", "super-secret-value")
	t.Setenv("DATABASE_PASSWORD", "db-password")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
		passwordAttrs = nil
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestSettings_redactsSecrets(t *testing.T) {
	out, err := run(t, "", "settings")
	require.NoError(t, err)

	assert.NotContains(t, out, "super-secret-value")
	assert.NotContains(t, out, "db-password")

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	security := got["security"].(map[string]any)
	assert.Equal(t, "[REDACTED]", security["secret_key"])
	assert.Equal(t, "local", got["environment"])
}

func TestCheckPassword(t *testing.T) {
	out, err := run(t, "correct-horse-battery-staple\n", "check-password")
	require.NoError(t, err)
	assert.Contains(t, out, "password accepted")

	_, err = run(t, "12345678\n", "check-password")
	assert.Error(t, err)

	_, err = run(t, "jonathan.smith\n", "check-password", "--attr", "jonathan.smith")
	assert.Error(t, err)

	_, err = run(t, "", "check-password")
	assert.EqualError(t, err, "no password on stdin")
}
