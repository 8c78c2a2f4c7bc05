package log

import "os"

var root *logger

// New returns a logger that adds ctx to every record.
func New(ctx ...interface{}) Logger {
	return root.New(ctx...)
}

// Root returns the root logger.
func Root() Logger {
	return root
}

func Debug(msg string, ctx ...interface{}) {
	root.s.Debugw(msg, ctx...)
}

func Info(msg string, ctx ...interface{}) {
	root.s.Infow(msg, ctx...)
}

func Warn(msg string, ctx ...interface{}) {
	root.s.Warnw(msg, ctx...)
}

func Error(msg string, ctx ...interface{}) {
	root.s.Errorw(msg, ctx...)
}

// Crit logs at error level and exits the process.
func Crit(msg string, ctx ...interface{}) {
	root.s.Errorw(msg, ctx...)
	root.s.Sync()
	os.Exit(1)
}

func Debugf(template string, args ...interface{}) {
	root.s.Debugf(template, args...)
}

func Infof(template string, args ...interface{}) {
	root.s.Infof(template, args...)
}

func Warnf(template string, args ...interface{}) {
	root.s.Warnf(template, args...)
}
