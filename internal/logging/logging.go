package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// LogFilePath names the log file of one service run, e.g. radarlogs/radar.20260212_213836.log.
func LogFilePath(logsDir, service string, started time.Time) string {
	return filepath.Join(logsDir, fmt.Sprintf("%s.%s.log", service, started.Format("20060102_150405")))
}

// OpenLogFile creates logsDir if needed and opens the run's log file for appending.
// A file left by a run started in the same second is kept as <name>.old.
func OpenLogFile(logsDir, service string, started time.Time) (*os.File, error) {
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs dir: %w", err)
	}

	path := LogFilePath(logsDir, service, started)
	if _, err := os.Stat(path); err == nil {
		if err := os.Rename(path, path+".old"); err != nil {
			return nil, fmt.Errorf("failed to move previous log file: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return f, nil
}
