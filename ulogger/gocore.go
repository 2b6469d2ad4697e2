package ulogger

import (
	"github.com/ordishs/gocore"
)

// GoCoreLogger adapts a gocore logger to the Logger interface. The level is
// fixed at construction time.
type GoCoreLogger struct {
	*gocore.Logger
	service string
}

func NewGoCoreLogger(service string, options ...Option) *GoCoreLogger {
	if service == "" {
		service = "ebxnode"
	}

	opts := DefaultOptions()
	for _, o := range options {
		o(opts)
	}

	return &GoCoreLogger{
		Logger:  gocore.Log(service, gocore.NewLogLevelFromString(opts.logLevel)),
		service: service,
	}
}

func (g *GoCoreLogger) New(service string, _ ...Option) Logger {
	return &GoCoreLogger{
		Logger:  gocore.Log(service, g.Logger.GetLogLevel()),
		service: service,
	}
}

func (g *GoCoreLogger) Duplicate(options ...Option) Logger {
	opts := DefaultOptions()
	for _, o := range options {
		o(opts)
	}

	return &GoCoreLogger{
		Logger:  gocore.Log(g.service, gocore.NewLogLevelFromString(opts.logLevel)),
		service: g.service,
	}
}

func (g *GoCoreLogger) SetLogLevel(_ string) {
	// noop, has to be set when creating
}
