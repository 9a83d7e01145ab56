package logger

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

// Initialize sets up the application logger. Logs go to stdout by default;
// when LOG_FILE is set they are appended to that file instead.
func Initialize() {
	Logger = logrus.New()

	logLevel := os.Getenv("LOG_LEVEL")
	var level logrus.Level
	switch logLevel {
	case "DEBUG":
		level = logrus.DebugLevel
	case "INFO":
		level = logrus.InfoLevel
	case "WARN":
		level = logrus.WarnLevel
	case "ERROR":
		level = logrus.ErrorLevel
	default:
		level = logrus.InfoLevel
	}

	Logger.SetLevel(level)
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableColors:   true,
	})
	Logger.SetOutput(os.Stdout)

	if logFilePath := os.Getenv("LOG_FILE"); logFilePath != "" {
		logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			fmt.Printf("Failed to open log file %s: %v\n", logFilePath, err)
		} else {
			Logger.SetOutput(logFile)
		}
	}

	Logger.WithFields(logrus.Fields{
		"log_level": level.String(),
	}).Info("Logging system initialized")
}

// GetLogger returns the configured logger instance
func GetLogger() *logrus.Logger {
	if Logger == nil {
		Initialize()
	}
	return Logger
}

// WithAnalysis creates a logger with analysis record context
func WithAnalysis(analysisID string, userID uint) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"analysis_id": analysisID,
		"user_id":     userID,
		"component":   "analysis_service",
	})
}

// WithChat creates a logger with chat session context
func WithChat(chatID string, userID uint) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"chat_id":   chatID,
		"user_id":   userID,
		"component": "chat_service",
	})
}

// WithGateway creates a logger with agents service call context
func WithGateway(endpoint string) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"endpoint":  endpoint,
		"component": "agents_service",
	})
}

// WithUser creates a logger with user context
func WithUser(userID uint) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"user_id":   userID,
		"component": "controller",
	})
}

// Log levels convenience functions (with fields)
func Debug(msg string, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	GetLogger().WithFields(fields).Debug(msg)
}

func Info(msg string, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	GetLogger().WithFields(fields).Info(msg)
}

func Warn(msg string, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	GetLogger().WithFields(fields).Warn(msg)
}

func Error(msg string, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	GetLogger().WithFields(fields).Error(msg)
}

func Fatal(msg string, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	GetLogger().WithFields(fields).Fatal(msg)
}
