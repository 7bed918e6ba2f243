package appstate

import "time"

// LogEntry describes one container operation for logging. Op is "eval" for
// evaluator runs and "change" for change-notification delivery.
type LogEntry struct {
	Op        string
	Engine    string
	Expr      string
	Name      string
	Container string
	Duration  time.Duration
	Err       error
}

// Logger records container events.
type Logger interface {
	Log(LogEntry)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(LogEntry)

// Log implements Logger.
func (f LoggerFunc) Log(entry LogEntry) {
	if f != nil {
		f(entry)
	}
}

type noopLogger struct{}

func (noopLogger) Log(LogEntry) {}

// WithLogger attaches a logger to the container.
func WithLogger(logger Logger) Option {
	return func(cfg *config) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}
