package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var started = time.Date(2026, 2, 12, 21, 38, 36, 0, time.UTC)

func TestLogFilePath(t *testing.T) {
	tests := []struct {
		name    string
		logsDir string
		want    string
	}{
		{"relative dir", "radarlogs", filepath.Join("radarlogs", "radar.20260212_213836.log")},
		{"dot prefix", "./radarlogs", filepath.Join(".", "radarlogs", "radar.20260212_213836.log")},
		{"absolute dir", filepath.Join("/var", "log", "radar"), filepath.Join("/var", "log", "radar", "radar.20260212_213836.log")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LogFilePath(tt.logsDir, "radar", started))
		})
	}
}

func TestOpenLogFile_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")

	f, err := OpenLogFile(dir, "radar", started)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, LogFilePath(dir, "radar", started), f.Name())
	_, err = f.WriteString("hello\n")
	assert.NoError(t, err)
}

func TestOpenLogFile_KeepsPreviousRun(t *testing.T) {
	dir := t.TempDir()
	path := LogFilePath(dir, "radar", started)
	require.NoError(t, os.WriteFile(path, []byte("previous\n"), 0644))

	f, err := OpenLogFile(dir, "radar", started)
	require.NoError(t, err)
	defer f.Close()

	old, err := os.ReadFile(path + ".old")
	require.NoError(t, err)
	assert.Equal(t, "previous\n", string(old))

	info, err := f.Stat()
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}
