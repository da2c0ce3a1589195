package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

const (
	logDir      = "logs"
	logFileName = "turret.log"
	maxLogSize  = 10 * 1024 * 1024
	rotateStamp = "20060102-150405"
)

// rotatedLogName is the name an oversized log is moved to
func rotatedLogName(at time.Time) string {
	return fmt.Sprintf("turret-%s.log", at.Format(rotateStamp))
}

// setupLogging routes the standard logger to logs/turret.log when debug is set
// and discards it otherwise; the terminal is owned by tcell so stdout and stderr
// are never used. An oversized log is rotated aside with a timestamp suffix
func setupLogging(debug bool) *os.File {
	if !debug {
		log.SetOutput(io.Discard)
		return nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(io.Discard)
		return nil
	}

	logPath := filepath.Join(logDir, logFileName)
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		rotated := filepath.Join(logDir, rotatedLogName(time.Now()))
		if err := os.Rename(logPath, rotated); err != nil {
			os.Remove(logPath)
		}
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.SetOutput(io.Discard)
		return nil
	}

	log.SetOutput(f)
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Printf("logging started, pid %d", os.Getpid())
	return f
}
