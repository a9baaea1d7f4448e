package core

import "time"

// Logger is the minimal structured logging surface used by the flow layer.
// Arguments are alternating key/value pairs, slog style.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// Runtime carries the ambient dependencies shared by all flows: logger,
// metrics recorder, and clock.
type Runtime struct {
	logger  Logger
	metrics MetricsRecorder
	clock   Clock
}

// Option customizes a Runtime.
type Option func(*Runtime)

// WithLogger overrides the default no-op logger.
func WithLogger(l Logger) Option {
	return func(rt *Runtime) {
		if l != nil {
			rt.logger = l
		}
	}
}

// WithMetrics overrides the default no-op metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(rt *Runtime) {
		if m != nil {
			rt.metrics = m
		}
	}
}

// WithClock overrides the wall clock.
func WithClock(c Clock) Option {
	return func(rt *Runtime) {
		if c != nil {
			rt.clock = c
		}
	}
}

// NewRuntime builds a runtime with no-op defaults.
func NewRuntime(opts ...Option) *Runtime {
	rt := &Runtime{
		logger:  noopLogger{},
		metrics: NopMetricsRecorder{},
		clock:   ClockFunc(func() time.Time { return time.Now().UTC() }),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Logger returns the configured logger.
func (rt *Runtime) Logger() Logger { return rt.logger }
