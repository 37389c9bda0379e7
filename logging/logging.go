// Package logging builds the structured loggers used by the cmd/ssmvtex
// CLI, following the teacher's golog/zap convention: a
// production logger for normal runs, a development logger for verbose
// debugging, and an optional rotating file sink (gopkg.in/natefinch/lumberjack.v2)
// for long batch runs where the photograph set is large.
package logging

import (
	"os"

	"github.com/edaniels/golog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the logger type this package returns; it is golog's thin
// sugar over zap.SugaredLogger.
type Logger = golog.Logger

// New returns a production-configured logger: JSON output, info level.
func New(name string) Logger {
	return golog.NewLogger(name)
}

// NewDebug returns a development-configured logger: console output, debug
// level, including caller and stack info on errors.
func NewDebug(name string) Logger {
	return golog.NewDebugLogger(name)
}

// FileSinkOptions configures the rotating file sink added by NewWithFileSink.
type FileSinkOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// NewWithFileSink returns a logger that writes structured JSON both to
// stderr and to a size/age-rotated file, for batch runs invoked without a
// terminal attached. Grounded on the teacher's zap-based golog construction;
// the rotation policy itself is lumberjack's, not reimplemented here.
func NewWithFileSink(name string, opts FileSinkOptions) (Logger, error) {
	if opts.MaxSizeMB <= 0 {
		opts.MaxSizeMB = 50
	}
	if opts.MaxBackups <= 0 {
		opts.MaxBackups = 3
	}
	if opts.MaxAgeDays <= 0 {
		opts.MaxAgeDays = 14
	}

	fileSink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
	})

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.Lock(os.Stderr), zap.InfoLevel),
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), fileSink, zap.InfoLevel),
	)

	zl := zap.New(core, zap.AddCaller())
	return zl.Sugar().Named(name), nil
}
