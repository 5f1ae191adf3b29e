package logging

import (
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupParams configures the process-wide logger
type SetupParams struct {
	LogFileName string
	LogLevel    string
}

// Setup routes logrus output to a rotated log file. Stdout is owned
// by the TUI, so logs never go there; tail the file instead when
// debugging a live session.
func Setup(params SetupParams) {
	logrus.SetLevel(GetLevel(params.LogLevel))

	if params.LogFileName == "" {
		// Sync-only runs without a file keep the default stderr output
		return
	}

	if !strings.HasSuffix(params.LogFileName, ".log") {
		params.LogFileName += ".log"
	}

	logrus.SetOutput(&lumberjack.Logger{
		Filename:   params.LogFileName,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		LocalTime:  false, // use UTC
		Compress:   true,
	})
}

// GetLevel maps a config level string to a logrus level
func GetLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "info":
		return logrus.InfoLevel
	default:
		return logrus.InfoLevel
	}
}
