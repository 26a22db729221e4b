// Package logging builds the process logger: zap on stderr, optionally mirrored
// to Cloud Logging structured JSON, with credentials scrubbed from every entry.
package logging

import (
	"io"
	"os"

	"github.com/andywolf/issuecast/internal/cloud/gcp"
	"github.com/andywolf/issuecast/internal/security"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures New.
type Options struct {
	Verbose bool      // debug level instead of warn
	Writer  io.Writer // defaults to os.Stderr
	GCP     bool      // mirror entries through gcp.CloudLogger
	RunID   string
	Secrets []string          // literal values to redact
	Labels  map[string]string // extra Cloud Logging labels
}

// Logger wraps a zap logger and the optional Cloud Logging mirror.
type Logger struct {
	zap   *zap.Logger
	cloud *gcp.CloudLogger
	scrub *security.Scrubber
}

// New creates a Logger from opts.
func New(opts Options) *Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	level := zapcore.WarnLevel
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)

	z := zap.New(core)
	if opts.RunID != "" {
		z = z.With(zap.String("run", opts.RunID))
	}

	l := &Logger{zap: z, scrub: security.NewScrubber(opts.Secrets...)}
	if opts.GCP {
		l.cloud = gcp.NewCloudLogger(gcp.WithWriter(w), gcp.WithRunID(opts.RunID), gcp.WithLabels(opts.Labels))
	}
	return l
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{zap: zap.NewNop()}
}

// AddSecret registers a value that must never appear in output.
func (l *Logger) AddSecret(secret string) {
	if l.scrub == nil {
		l.scrub = security.NewScrubber()
	}
	l.scrub.AddSecret(secret)
}

// Debug logs at debug level. It is not mirrored to Cloud Logging.
func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.zap.Debug(l.scrub.Scrub(msg), l.scrubFields(fields)...)
}

// Info logs at info level.
func (l *Logger) Info(msg string, fields ...zap.Field) {
	msg, fields = l.scrub.Scrub(msg), l.scrubFields(fields)
	l.zap.Info(msg, fields...)
	if l.cloud != nil {
		l.cloud.Info(msg, fieldMap(fields))
	}
}

// Warn logs at warn level.
func (l *Logger) Warn(msg string, fields ...zap.Field) {
	msg, fields = l.scrub.Scrub(msg), l.scrubFields(fields)
	l.zap.Warn(msg, fields...)
	if l.cloud != nil {
		l.cloud.Warning(msg, fieldMap(fields))
	}
}

// Error logs at error level.
func (l *Logger) Error(msg string, fields ...zap.Field) {
	msg, fields = l.scrub.Scrub(msg), l.scrubFields(fields)
	l.zap.Error(msg, fields...)
	if l.cloud != nil {
		l.cloud.Error(msg, fieldMap(fields))
	}
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	if l.cloud != nil {
		_ = l.cloud.Close()
	}
	return l.zap.Sync()
}

func (l *Logger) scrubFields(fields []zap.Field) []zap.Field {
	if l.scrub == nil || len(fields) == 0 {
		return fields
	}
	out := make([]zap.Field, len(fields))
	for i, f := range fields {
		switch f.Type {
		case zapcore.StringType:
			f.String = l.scrub.Scrub(f.String)
		case zapcore.ErrorType:
			if err, ok := f.Interface.(error); ok {
				f = zap.String(f.Key, l.scrub.Scrub(err.Error()))
			}
		}
		out[i] = f
	}
	return out
}

func fieldMap(fields []zap.Field) map[string]interface{} {
	if len(fields) == 0 {
		return nil
	}
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}
	return enc.Fields
}
