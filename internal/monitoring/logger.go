package monitoring

import (
	"log"

	"go.uber.org/zap"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger or UseZap. Tests or production code can redirect or
// mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// Debugf receives verbose scan diagnostics. It is muted by default.
var Debugf func(format string, v ...interface{}) = func(string, ...interface{}) {}

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// SetDebugLogger replaces the debug logger. Passing nil mutes it.
func SetDebugLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Debugf = func(string, ...interface{}) {}
		return
	}
	Debugf = f
}

// UseZap routes Logf and Debugf through l. Debug output is only emitted when
// l's level enables it. Passing nil restores the log.Printf default.
func UseZap(l *zap.Logger) {
	if l == nil {
		Logf = log.Printf
		SetDebugLogger(nil)
		return
	}
	sugar := l.Sugar()
	Logf = sugar.Infof
	Debugf = sugar.Debugf
}
