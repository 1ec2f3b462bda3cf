package logger

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap so packages share one configured instance.
type Logger struct {
	*zap.Logger
	config *Config
}

var (
	processLogger *Logger
	processOnce   sync.Once
)

// NewLogger builds the process logger from the environment. Later calls
// return the same instance.
func NewLogger() *Logger {
	processOnce.Do(func() {
		processLogger = New(ConfigFromEnv())
		processLogger.Info("Logger initialized",
			zap.String("level", processLogger.config.Level),
			zap.String("format", processLogger.config.Format),
			zap.String("output", processLogger.config.Output))
	})
	return processLogger
}

// New builds a logger from an explicit configuration.
func New(cfg Config) *Logger {
	cfg = cfg.normalized()

	zc := zap.NewProductionConfig()
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.ZapLevel() == zapcore.DebugLevel {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(cfg.ZapLevel())
	zc.OutputPaths = cfg.outputPaths()
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.Encoding = "json"
	if cfg.console() {
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zl, err := zc.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: build failed, using zap production defaults: %v\n", err)
		zl, _ = zap.NewProduction()
	}
	return &Logger{Logger: zl, config: &cfg}
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	cfg := Config{}.normalized()
	return &Logger{Logger: zap.NewNop(), config: &cfg}
}

// Named adds a new path segment to the logger's name.
func (l *Logger) Named(name string) *Logger {
	return &Logger{Logger: l.Logger.Named(name), config: l.config}
}

// With adds structured context to the logger.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{Logger: l.Logger.With(fields...), config: l.config}
}
