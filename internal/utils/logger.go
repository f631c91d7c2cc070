// Package utils provides logging helpers shared by the Lambda functions and the local server.
package utils

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the global logger instance.
var Logger *zap.Logger

// ParseLevel maps a LOG_LEVEL value to a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// InitLogger initializes the global logger.
func InitLogger(level string) error {
	zapLevel := ParseLevel(level)

	// JSON to stdout inside Lambda so CloudWatch can index the fields
	var config zap.Config
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		config = zap.NewProductionConfig()
		config.OutputPaths = []string{"stdout"}
		config.ErrorOutputPaths = []string{"stderr"}
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)

	logger, err := config.Build()
	if err != nil {
		return err
	}
	Logger = logger

	return nil
}

// SetLogger replaces the global logger, e.g. with zaptest or zap.NewNop in tests.
func SetLogger(l *zap.Logger) {
	Logger = l
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

// Sync flushes any buffered log entries.
func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// Common field constructors
var (
	String = zap.String
	Int    = zap.Int
	Int64  = zap.Int64
	Bool   = zap.Bool
	Error  = zap.Error
)
