package ulogger

import (
	"io"
	"os"

	"github.com/ordishs/gocore"
)

type Options struct {
	logLevel   string
	loggerType string
	writer     io.Writer
	skip       int
	pretty     bool
}

type Option func(*Options)

// DefaultOptions reads the logger defaults from the gocore config.
func DefaultOptions() *Options {
	logLevel, _ := gocore.Config().Get("logLevel", "INFO")
	loggerType, _ := gocore.Config().Get("logger_type", "zerolog")

	return &Options{
		logLevel:   logLevel,
		loggerType: loggerType,
		writer:     os.Stdout,
		pretty:     gocore.Config().GetBool("PRETTY_LOGS", true),
	}
}

func WithLevel(level string) Option {
	return func(o *Options) {
		o.logLevel = level
	}
}

func WithLoggerType(loggerType string) Option {
	return func(o *Options) {
		o.loggerType = loggerType
	}
}

func WithWriter(w io.Writer) Option {
	return func(o *Options) {
		o.writer = w
	}
}

// WithSkipFrame adjusts the caller frame reported in log lines.
func WithSkipFrame(skip int) Option {
	return func(o *Options) {
		o.skip = skip
	}
}

// WithPretty toggles the human readable console format.
func WithPretty(pretty bool) Option {
	return func(o *Options) {
		o.pretty = pretty
	}
}
