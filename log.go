package verifymail

import (
	"io"

	"github.com/rs/zerolog"
)

// Logger receives structured diagnostic events from a Validator. The
// signature mirrors the common key/value structured-logging shape so a
// caller's existing logger (zerolog, zap, slog, logr) can be adapted with a
// thin wrapper.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// zerologLogger is the default Logger, backed by zerolog. A library has no
// business writing to a consumer's terminal uninvited, so the default sink
// is io.Discard; callers that want output construct their own via
// NewZerologLogger.
type zerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger wraps a zerolog.Logger as a Logger.
func NewZerologLogger(l zerolog.Logger) Logger {
	return &zerologLogger{logger: l}
}

func newDiscardLogger() Logger {
	return &zerologLogger{logger: zerolog.New(io.Discard)}
}

func (l *zerologLogger) event(e *zerolog.Event, msg string, keysAndValues ...interface{}) {
	for i := 0; i < len(keysAndValues); i += 2 {
		key, _ := keysAndValues[i].(string)
		if i+1 < len(keysAndValues) {
			e = e.Interface(key, keysAndValues[i+1])
		} else {
			e = e.Interface(key, nil)
		}
	}
	e.Msg(msg)
}

func (l *zerologLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.event(l.logger.Debug(), msg, keysAndValues...)
}

func (l *zerologLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.event(l.logger.Warn(), msg, keysAndValues...)
}

func (l *zerologLogger) Error(msg string, keysAndValues ...interface{}) {
	l.event(l.logger.Error(), msg, keysAndValues...)
}

// newLogger returns l if non-nil, otherwise a discarding default.
func newLogger(l Logger) logger {
	if l == nil {
		return logger{Logger: newDiscardLogger()}
	}
	return logger{Logger: l}
}

// logger adapts a Logger into the small set of methods this package
// actually calls, so call sites read naturally (v.log.debug(...)).
type logger struct {
	Logger
}

func (l logger) debug(msg string, keysAndValues ...interface{}) { l.Debug(msg, keysAndValues...) }
func (l logger) warn(msg string, keysAndValues ...interface{})  { l.Warn(msg, keysAndValues...) }
func (l logger) error(msg string, keysAndValues ...interface{}) { l.Error(msg, keysAndValues...) }
