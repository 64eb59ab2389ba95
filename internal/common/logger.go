package common

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/ternarybob/arbor"
	arborcommon "github.com/ternarybob/arbor/common"
	"github.com/ternarybob/arbor/models"
)

var (
	globalLogger arbor.ILogger
	loggerMutex  sync.RWMutex
)

// GetLogger returns the global logger instance, falling back to a bare
// console logger if neither SetupProcessLogger nor InitLogger has run yet.
func GetLogger() arbor.ILogger {
	loggerMutex.RLock()
	if globalLogger != nil {
		loggerMutex.RUnlock()
		return globalLogger
	}
	loggerMutex.RUnlock()

	loggerMutex.Lock()
	defer loggerMutex.Unlock()

	if globalLogger == nil {
		globalLogger = arbor.NewLogger().WithConsoleWriter(consoleWriterConfig(""))
	}
	return globalLogger
}

// InitLogger stores the provided logger as the global singleton instance.
func InitLogger(logger arbor.ILogger) {
	loggerMutex.Lock()
	defer loggerMutex.Unlock()
	globalLogger = logger
}

// SetupProcessLogger configures the CLI-level logger: console always on,
// plus a file writer under dataDirectory/logs when fileLogging is true.
func SetupProcessLogger(level string, dataDirectory string, fileLogging bool) arbor.ILogger {
	logger := arbor.NewLogger().WithConsoleWriter(consoleWriterConfig(""))

	if fileLogging {
		logsDir := filepath.Join(dataDirectory, "logs")
		if err := os.MkdirAll(logsDir, 0755); err != nil {
			logger.Warn().Err(err).Str("logs_dir", logsDir).Msg("failed to create logs directory")
		} else {
			logger = logger.WithFileWriter(fileWriterConfig(filepath.Join(logsDir, "appeer.log")))
		}
	}

	logger = logger.WithLevelFromString(level)
	InitLogger(logger)
	return logger
}

// NewJobLogger builds a file-only logger writing to logPath, the log file
// of a single job, so that job's per-action log lines land in one file.
func NewJobLogger(level string, logPath string) (arbor.ILogger, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, err
	}
	logger := arbor.NewLogger().
		WithFileWriter(fileWriterConfig(logPath)).
		WithLevelFromString(level)
	return logger, nil
}

func consoleWriterConfig(filename string) models.WriterConfiguration {
	return models.WriterConfiguration{
		Type:             models.LogWriterTypeConsole,
		FileName:         filename,
		TimeFormat:       "15:04:05.000",
		DisableTimestamp: false,
	}
}

func fileWriterConfig(filename string) models.WriterConfiguration {
	return models.WriterConfiguration{
		Type:             models.LogWriterTypeFile,
		FileName:         filename,
		TimeFormat:       "15:04:05.000",
		DisableTimestamp: false,
		MaxSize:          100 * 1024 * 1024,
		MaxBackups:       3,
	}
}

// Stop flushes any remaining context logs before application shutdown.
func Stop() {
	arborcommon.Stop()
}
