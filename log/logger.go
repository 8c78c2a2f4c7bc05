package log

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger writes structured records. Context is given as alternating keys and
// values: log.Info("Deployed program", "op", op, "bytes", n).
type Logger interface {
	New(ctx ...interface{}) Logger
	Debug(msg string, ctx ...interface{})
	Info(msg string, ctx ...interface{})
	Warn(msg string, ctx ...interface{})
	Error(msg string, ctx ...interface{})
	Crit(msg string, ctx ...interface{})
}

type logger struct {
	s *zap.SugaredLogger
}

func (l *logger) New(ctx ...interface{}) Logger {
	return &logger{l.s.With(ctx...)}
}

func (l *logger) Debug(msg string, ctx ...interface{}) { l.s.Debugw(msg, ctx...) }
func (l *logger) Info(msg string, ctx ...interface{})  { l.s.Infow(msg, ctx...) }
func (l *logger) Warn(msg string, ctx ...interface{})  { l.s.Warnw(msg, ctx...) }
func (l *logger) Error(msg string, ctx ...interface{}) { l.s.Errorw(msg, ctx...) }

func (l *logger) Crit(msg string, ctx ...interface{}) {
	l.s.Errorw(msg, ctx...)
	l.s.Sync()
	os.Exit(1)
}

var levelMap = map[string]zapcore.Level{
	"debug":  zapcore.DebugLevel,
	"info":   zapcore.InfoLevel,
	"warn":   zapcore.WarnLevel,
	"error":  zapcore.ErrorLevel,
	"dpanic": zapcore.DPanicLevel,
	"panic":  zapcore.PanicLevel,
	"fatal":  zapcore.FatalLevel,
}

func getLoggerLevel(lvl string) zapcore.Level {
	if level, ok := levelMap[lvl]; ok {
		return level
	}
	return zapcore.InfoLevel
}

var atom = zap.NewAtomicLevelAt(zapcore.InfoLevel)

func newCore(w io.Writer, color bool) zapcore.Core {
	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format("2006-01-02 15:04:05.000"))
	}
	config.EncodeLevel = zapcore.CapitalLevelEncoder
	if color {
		config.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	config.EncodeCaller = zapcore.ShortCallerEncoder

	return zapcore.NewCore(zapcore.NewConsoleEncoder(config), zapcore.Lock(zapcore.AddSync(w)), atom)
}

func newLogger(core zapcore.Core) *logger {
	return &logger{zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()}
}

// SetLevel changes the level of every logger. Unknown names select info.
func SetLevel(level string) {
	atom.SetLevel(getLoggerLevel(level))
}

// SetOutput redirects the root logger, with coloured levels if color is set.
func SetOutput(w io.Writer, color bool) {
	root.s = newLogger(newCore(w, color)).s
}

func init() {
	var (
		out   io.Writer = os.Stdout
		color           = isatty.IsTerminal(os.Stdout.Fd())
	)
	if color {
		out = colorable.NewColorableStdout()
	}
	root = newLogger(newCore(out, color))
}
