package logging

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

var logFile *os.File

// Init points the package-level charmbracelet/log logger at logFilePath,
// appending across restarts.
func Init(logFilePath string) error {
	f, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logFilePath, err)
	}

	logFile = f
	log.SetOutput(logFile)
	log.SetTimeFormat("2006-01-02 15:04:05.000000")
	log.SetReportCaller(true)
	log.Info("logging initialized", "path", logFilePath)
	return nil
}

// Close flushes and closes the underlying log file.
func Close() {
	if logFile != nil {
		log.Info("closing log file")
		logFile.Close()
	}
}
