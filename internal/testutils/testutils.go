package testutils

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/nfrund/codebattle/internal/config"
	"github.com/nfrund/codebattle/internal/logging"
	"github.com/stretchr/testify/require"
)

// ProjectRoot walks up from the working directory to the directory holding go.mod.
func ProjectRoot(t *testing.T) string {
	t.Helper()

	path, err := os.Getwd()
	require.NoError(t, err)
	for {
		if _, err := os.Stat(filepath.Join(path, "go.mod")); err == nil {
			return path
		}
		if path == filepath.Dir(path) {
			t.Fatalf("could not find project root with go.mod")
		}
		path = filepath.Dir(path)
	}
}

// ConfigForTests loads .env.test into the test's environment and parses it.
// Variables are restored when the test ends.
func ConfigForTests(t *testing.T) *config.Config {
	t.Helper()

	env, err := godotenv.Read(filepath.Join(ProjectRoot(t), ".env.test"))
	require.NoError(t, err, "failed to load .env.test")
	for key, value := range env {
		t.Setenv(key, value)
	}

	cfg, err := config.Parse()
	require.NoError(t, err)
	return cfg
}

// Logger returns a logger configured from cfg. Output is discarded unless
// the test runs with -v.
func Logger(t *testing.T, cfg config.Provider) *slog.Logger {
	t.Helper()

	var w io.Writer = io.Discard
	if testing.Verbose() {
		w = os.Stderr
	}
	return logging.NewWithWriter(w, cfg.GetLogFormat(), cfg.GetLogLevel())
}
