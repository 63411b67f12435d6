package logger

import (
	"io"
	"log/slog"
	"os"
)

type options struct {
	appName     string
	level       slog.Level
	output      io.Writer
	development bool
}

// Option configures logger construction.
type Option func(*options)

// WithDevelopment switches to a human-readable text handler at debug level
// and tags every record with the application name.
func WithDevelopment(appName string) Option {
	return func(o *options) {
		o.appName = appName
		o.development = true
		o.level = slog.LevelDebug
	}
}

// WithProduction keeps the JSON handler and tags every record with the
// application name.
func WithProduction(appName string) Option {
	return func(o *options) {
		o.appName = appName
	}
}

// WithLevel overrides the minimum record level.
func WithLevel(level slog.Level) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithOutput redirects log output. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.output = w
		}
	}
}

// New constructs a *slog.Logger. Without options it produces a JSON logger
// at info level writing to stdout.
func New(opts ...Option) *slog.Logger {
	o := options{
		level:  slog.LevelInfo,
		output: os.Stdout,
	}

	for _, opt := range opts {
		opt(&o)
	}

	handlerOpts := &slog.HandlerOptions{Level: o.level}

	var handler slog.Handler
	if o.development {
		handler = slog.NewTextHandler(o.output, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(o.output, handlerOpts)
	}

	log := slog.New(handler)
	if o.appName != "" {
		log = log.With(slog.String("app", o.appName))
	}
	return log
}
