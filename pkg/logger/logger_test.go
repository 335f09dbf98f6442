package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewWritesJSONToFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "memindex.log")

	log, err := New(Config{Level: "debug", Format: "json", OutputFile: logFile})
	require.NoError(t, err)

	log.Info("hello from test")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	require.Contains(t, string(data), `"hello from test"`)
	require.Contains(t, string(data), `"service":"memindex"`)
}

func TestNewDefaultsToInfoOnBadLevel(t *testing.T) {
	log, err := New(Config{Level: "loud", OutputFile: "stderr"})
	require.NoError(t, err)

	require.False(t, log.Core().Enabled(zapcore.DebugLevel))
	require.True(t, log.Core().Enabled(zapcore.InfoLevel))
}

func TestNewConsoleFormat(t *testing.T) {
	log, err := New(Config{Level: "info", Format: "console", OutputFile: "stdout"})
	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestNewRejectsUnwritableFile(t *testing.T) {
	_, err := New(Config{OutputFile: filepath.Join(t.TempDir(), "missing", "dir", "x.log")})
	require.Error(t, err)
}
