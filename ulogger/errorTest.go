package ulogger

import (
	"fmt"
	"runtime"
	"sync/atomic"
)

type TestingT interface {
	Errorf(format string, args ...interface{})
	FailNow()
	Logf(format string, args ...any)
}

type tHelper = interface {
	Helper()
}

// ErrorTestLogger only surfaces Errorf and Fatalf calls, through t.Logf.
type ErrorTestLogger struct {
	t        TestingT
	shutdown atomic.Bool
}

func NewErrorTestLogger(t TestingT) *ErrorTestLogger {
	return &ErrorTestLogger{t: t}
}

// Shutdown stops the logger from touching t once the test is cleaning up.
func (l *ErrorTestLogger) Shutdown() {
	l.shutdown.Store(true)
}

func (l *ErrorTestLogger) LogLevel() int {
	return 0
}

func (l *ErrorTestLogger) SetLogLevel(_ string) {}

func (l *ErrorTestLogger) New(_ string, _ ...Option) Logger {
	return l
}

func (l *ErrorTestLogger) Duplicate(_ ...Option) Logger {
	return l
}

func (l *ErrorTestLogger) Debugf(_ string, _ ...interface{}) {}

func (l *ErrorTestLogger) Infof(_ string, _ ...interface{}) {}

func (l *ErrorTestLogger) Warnf(_ string, _ ...interface{}) {}

func (l *ErrorTestLogger) Errorf(format string, args ...interface{}) {
	l.log("ERR_LEVEL", format, args...)
}

func (l *ErrorTestLogger) Fatalf(format string, args ...interface{}) {
	l.log("FATAL_LEVEL", format, args...)
}

func (l *ErrorTestLogger) log(level, format string, args ...interface{}) {
	if l.shutdown.Load() {
		return
	}

	if h, ok := l.t.(tHelper); ok {
		h.Helper()
	}

	_, file, line, _ := runtime.Caller(2)

	l.t.Logf(fmt.Sprintf("%s:%d: %s %s", file, line, level, format), args...)
}
