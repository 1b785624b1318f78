package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"CheckBtrfsDO/internal/pkg/config"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Log is the global logger instance
	Log *zap.Logger
	// Sugar is the global sugared logger instance
	Sugar *zap.SugaredLogger
)

func init() {
	// No-op until Init runs, so early callers never hit a nil logger.
	Log = zap.NewNop()
	Sugar = Log.Sugar()
}

// Init initializes the global logger with configuration. Stdout is reserved
// for the plugin output line, so logs only ever go to file or stderr.
func Init(cfg *config.Config) error {
	if !cfg.Logs.Enabled {
		Log = zap.NewNop()
		Sugar = Log.Sugar()
		return nil
	}

	level, err := getLogLevel(cfg.Logs.Level)
	if err != nil {
		return err
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	if cfg.Logs.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	var writers []zapcore.WriteSyncer

	if cfg.Logs.FilePath != "" {
		if err := os.MkdirAll(cfg.Logs.FilePath, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}

		logFile := filepath.Join(cfg.Logs.FilePath, fmt.Sprintf("%s.log", cfg.AppName))

		// Configure log rotation using lumberjack
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    100, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		})

		writers = append(writers, fileWriter)
	}

	if cfg.Logs.Stderr {
		writers = append(writers, zapcore.AddSync(os.Stderr))
	}

	if len(writers) == 0 {
		Log = zap.NewNop()
		Sugar = Log.Sugar()
		return nil
	}

	core := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(writers...), zap.NewAtomicLevelAt(level))

	// Add CallerSkip(1) to skip the wrapper functions and show the actual caller location
	Log = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
	Log = Log.With(zap.String("app", cfg.AppName))
	Sugar = Log.Sugar()

	return nil
}

// Sync flushes any buffered log entries
func Sync() error {
	if Log != nil {
		return Log.Sync()
	}
	return nil
}

// getLogLevel converts a string level to a zapcore.Level
func getLogLevel(levelStr string) (zapcore.Level, error) {
	switch levelStr {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("invalid log level: %s", levelStr)
	}
}

// Debug logs a message at DebugLevel with structured fields
func Debug(msg string, fields ...zap.Field) {
	Log.Debug(msg, fields...)
}

// Info logs a message at InfoLevel with structured fields
func Info(msg string, fields ...zap.Field) {
	Log.Info(msg, fields...)
}

// Warn logs a message at WarnLevel with structured fields
func Warn(msg string, fields ...zap.Field) {
	Log.Warn(msg, fields...)
}

// Error logs a message at ErrorLevel with structured fields
func Error(msg string, fields ...zap.Field) {
	Log.Error(msg, fields...)
}

// Field creation helpers
func String(key, value string) zap.Field {
	return zap.String(key, value)
}

func Int(key string, value int) zap.Field {
	return zap.Int(key, value)
}

func Uint64(key string, value uint64) zap.Field {
	return zap.Uint64(key, value)
}

func Err(err error) zap.Field {
	return zap.Error(err)
}
