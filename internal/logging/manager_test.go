package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"verbose", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestSetup_FileOnly_NoConsole(t *testing.T) {
	var file, console bytes.Buffer
	m := NewManager()
	require.NoError(t, m.Setup(Options{Level: "info", File: &file, Console: &console}))

	log := m.Logger()
	log.Info().Str("map", "de_mirage").Msg("hello file")

	assert.Contains(t, file.String(), "hello file")
	assert.Contains(t, file.String(), `"map":"de_mirage"`)
	assert.Empty(t, console.String(), "nothing should be written to the console when a file is set")
}

func TestSetup_NoFile_WritesToConsole(t *testing.T) {
	var console bytes.Buffer
	m := NewManager()
	require.NoError(t, m.Setup(Options{Level: "info", Console: &console}))

	log := m.Logger()
	log.Info().Msg("hello console")

	assert.Contains(t, console.String(), "hello console")
}

func TestSetup_LevelFilters(t *testing.T) {
	var file bytes.Buffer
	m := NewManager()
	require.NoError(t, m.Setup(Options{Level: "warn", File: &file}))

	log := m.Logger()
	log.Info().Msg("quiet")
	log.Warn().Msg("loud")

	assert.NotContains(t, file.String(), "quiet")
	assert.Contains(t, file.String(), "loud")
}

func TestComponent_TagsEntries(t *testing.T) {
	var file bytes.Buffer
	m := NewManager()
	require.NoError(t, m.Setup(Options{Level: "debug", File: &file}))
	file.Reset()

	log := m.Component("server")
	log.Debug().Msg("listening")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(file.Bytes(), &entry))
	assert.Equal(t, "server", entry["component"])
	assert.Equal(t, "listening", entry["message"])
}

func TestLogger_BeforeSetupIsSilent(t *testing.T) {
	m := NewManager()
	log := m.Logger()
	assert.NotPanics(t, func() { log.Info().Msg("dropped") })
	assert.NoError(t, m.Close())
}
