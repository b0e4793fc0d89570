package kernel

import (
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the generic logiface logger type maestro logs through.
// Using the generified form (logiface.Event, not a concrete Event type
// parameter) lets callers plug in any backend — zerolog, logrus, the
// built-in stumpy writer — without this package depending on one,
// exactly how the teacher's Loop takes a backend-agnostic logger.
type Logger = logiface.Logger[logiface.Event]

// NewDefaultLogger builds the package default: a stumpy (zero-alloc
// JSON) writer over os.Stderr, generified for use as a Logger.
func NewDefaultLogger() *Logger {
	typed := logiface.New[*stumpy.Event](stumpy.WithStumpy())
	return typed.Logger()
}

// logEvent logs a maestro-lifecycle event at Info level with the given
// fields; a no-op if logger is nil or logging is disabled.
func logEvent(logger *Logger, msg string, fields map[string]any) {
	if logger == nil {
		return
	}
	b := logger.Info()
	for k, v := range fields {
		b = b.Interface(k, v)
	}
	b.Log(msg)
}

// logErr logs a failure at Error level.
func logErr(logger *Logger, msg string, err error, fields map[string]any) {
	if logger == nil {
		return
	}
	b := logger.Err().Err(err)
	for k, v := range fields {
		b = b.Interface(k, v)
	}
	b.Log(msg)
}
