// Package utils provides logging and roster parsing helpers for the matching service.
package utils

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the global logger instance.
var Logger *zap.Logger

// InitLogger initializes the global logger. Inside Lambda the output is
// JSON on stdout so CloudWatch can index the fields.
func InitLogger(level string) error {
	config := zap.NewDevelopmentConfig()
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		config = zap.NewProductionConfig()
		config.OutputPaths = []string{"stdout"}
		config.ErrorOutputPaths = []string{"stderr"}
	} else {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	config.Level = zap.NewAtomicLevelAt(parseLevel(level))

	logger, err := config.Build(zap.Fields(zap.String("service", "tavara-matching")))
	if err != nil {
		return err
	}
	Logger = logger
	return nil
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// GetLogger returns the global logger, initializing if necessary.
func GetLogger() *zap.Logger {
	if Logger == nil {
		if err := InitLogger("info"); err != nil {
			Logger = zap.NewNop()
		}
	}
	return Logger
}

// Named returns a child of the global logger tagged with a component name.
func Named(component string) *zap.Logger {
	return GetLogger().With(zap.String("component", component))
}

// Sync flushes any buffered log entries.
func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// LogField creates a zap field for structured logging.
type LogField = zap.Field

// Common field constructors
var (
	String   = zap.String
	Strings  = zap.Strings
	Int      = zap.Int
	Float64  = zap.Float64
	Bool     = zap.Bool
	Error    = zap.Error
	Any      = zap.Any
	Duration = zap.Duration
)
