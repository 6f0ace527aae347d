package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/rs/zerolog"
)

// Options configures the log outputs.
type Options struct {
	// Level is one of debug, info, warn, error. Unknown values fall back to info.
	Level string
	// File receives logs when set. Console output is used only without a file.
	File io.Writer
	// GelfAddress enables shipping to Graylog over UDP when non-empty.
	GelfAddress string
	// Console overrides os.Stdout.
	Console io.Writer
}

// Manager owns the service logger and its outputs.
type Manager struct {
	logger zerolog.Logger
	gelf   *gelf.Writer
}

// NewManager creates a logging manager. Logger returns a disabled logger until Setup runs.
func NewManager() *Manager {
	return &Manager{logger: zerolog.Nop()}
}

// ParseLevel converts a string log level to a zerolog level.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Setup builds the logger. A GELF writer that cannot be created is reported
// in the returned error, but the file or console logger still works.
func (m *Manager) Setup(opts Options) error {
	var writers []io.Writer

	if opts.File != nil {
		writers = append(writers, opts.File)
	} else {
		console := opts.Console
		if console == nil {
			console = os.Stdout
		}
		writers = append(writers, zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339})
	}

	var gelfErr error
	if opts.GelfAddress != "" {
		w, err := gelf.NewWriter(opts.GelfAddress)
		if err != nil {
			gelfErr = fmt.Errorf("failed to connect to graylog at %s: %w", opts.GelfAddress, err)
		} else {
			m.gelf = w
			writers = append(writers, w)
		}
	}

	lvl := ParseLevel(opts.Level)
	m.logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lvl).
		With().
		Timestamp().
		Logger()
	m.logger.Info().Str("level", lvl.String()).Msg("Logging initialized")

	return gelfErr
}

// Logger returns the configured logger.
func (m *Manager) Logger() zerolog.Logger {
	return m.logger
}

// Component returns a child logger tagged with the component name.
func (m *Manager) Component(name string) zerolog.Logger {
	return m.logger.With().Str("component", name).Logger()
}

// Close releases the GELF connection, if any.
func (m *Manager) Close() error {
	if m.gelf != nil {
		err := m.gelf.Close()
		m.gelf = nil
		return err
	}
	return nil
}
