package logging

import (
	"time"

	"github.com/rs/zerolog"
)

// DispatcherLogger writes the dispatcher's key-value logs for one radar client.
type DispatcherLogger struct {
	logger zerolog.Logger
}

// NewDispatcherLogger tags every entry with the dispatcher component and, when
// remote is set, the client's remote address.
func NewDispatcherLogger(logger zerolog.Logger, remote string) *DispatcherLogger {
	ctx := logger.With().Str("component", "dispatcher")
	if remote != "" {
		ctx = ctx.Str("remote", remote)
	}
	return &DispatcherLogger{logger: ctx.Logger()}
}

// Debug logs a debug message with optional key-value pairs.
func (l *DispatcherLogger) Debug(msg string, keysAndValues ...any) {
	appendPairs(l.logger.Debug(), keysAndValues).Msg(msg)
}

// Info logs an info message with optional key-value pairs.
func (l *DispatcherLogger) Info(msg string, keysAndValues ...any) {
	appendPairs(l.logger.Info(), keysAndValues).Msg(msg)
}

// Error logs an error message with optional key-value pairs.
func (l *DispatcherLogger) Error(msg string, keysAndValues ...any) {
	appendPairs(l.logger.Error(), keysAndValues).Msg(msg)
}

// appendPairs adds typed fields to ev. A trailing key without a value and
// non-string keys are dropped; an "error" value uses zerolog's error field.
func appendPairs(ev *zerolog.Event, keysAndValues []any) *zerolog.Event {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		switch v := keysAndValues[i+1].(type) {
		case error:
			if key == zerolog.ErrorFieldName {
				ev = ev.Err(v)
			} else {
				ev = ev.AnErr(key, v)
			}
		case string:
			ev = ev.Str(key, v)
		case int:
			ev = ev.Int(key, v)
		case time.Duration:
			ev = ev.Dur(key, v)
		default:
			ev = ev.Interface(key, v)
		}
	}
	return ev
}
