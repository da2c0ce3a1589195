package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// inLogSandbox runs setupLogging against a scratch working directory
func inLogSandbox(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
}

func TestSetupLoggingDiscardsWithoutDebug(t *testing.T) {
	inLogSandbox(t)

	if f := setupLogging(false); f != nil {
		f.Close()
		t.Fatal("setupLogging(false) opened a log file")
	}
	if log.Writer() != io.Discard {
		t.Errorf("log output = %v, want io.Discard", log.Writer())
	}
	if _, err := os.Stat(logDir); !os.IsNotExist(err) {
		t.Errorf("logs dir created without debug: %v", err)
	}
}

func TestSetupLoggingWritesStartLine(t *testing.T) {
	inLogSandbox(t)

	f := setupLogging(true)
	if f == nil {
		t.Fatal("setupLogging(true) returned nil")
	}
	defer f.Close()

	if out := log.Writer(); out == os.Stdout || out == os.Stderr {
		t.Fatal("log output shares the terminal")
	}
	log.Printf("game: session %s started", "abc")

	data, err := os.ReadFile(filepath.Join(logDir, logFileName))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	for _, want := range []string{"logging started, pid", "game: session abc started"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log missing %q:\n%s", want, data)
		}
	}
}

func TestRotatedLogName(t *testing.T) {
	at := time.Date(2026, 3, 7, 9, 5, 2, 0, time.Local)
	if got := rotatedLogName(at); got != "turret-20260307-090502.log" {
		t.Errorf("rotatedLogName = %q", got)
	}
}

func TestSetupLoggingRotatesOversizedLog(t *testing.T) {
	inLogSandbox(t)

	if err := os.MkdirAll(logDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(logDir, logFileName), make([]byte, maxLogSize+1), 0644); err != nil {
		t.Fatalf("write oversized log: %v", err)
	}

	before := time.Now().Truncate(time.Second)
	f := setupLogging(true)
	if f == nil {
		t.Fatal("setupLogging(true) returned nil")
	}
	defer f.Close()
	after := time.Now()

	entries, err := os.ReadDir(logDir)
	if err != nil {
		t.Fatalf("read logs dir: %v", err)
	}
	var rotated []string
	for _, e := range entries {
		if e.Name() != logFileName {
			rotated = append(rotated, e.Name())
		}
	}
	if len(rotated) != 1 {
		t.Fatalf("rotated files = %v, want exactly one", rotated)
	}

	name := rotated[0]
	stamp, ok := strings.CutPrefix(name, "turret-")
	if !ok || !strings.HasSuffix(stamp, ".log") {
		t.Fatalf("rotated name %q, want turret-<timestamp>.log", name)
	}
	at, err := time.ParseInLocation(rotateStamp, strings.TrimSuffix(stamp, ".log"), time.Local)
	if err != nil {
		t.Fatalf("rotated name %q: %v", name, err)
	}
	if at.Before(before) || at.After(after) {
		t.Errorf("rotation stamp %v outside [%v, %v]", at, before, after)
	}

	if info, err := os.Stat(filepath.Join(logDir, name)); err != nil || info.Size() != maxLogSize+1 {
		t.Errorf("rotated file not preserved: %v", err)
	}
	info, err := os.Stat(filepath.Join(logDir, logFileName))
	if err != nil {
		t.Fatalf("stat fresh log: %v", err)
	}
	if info.Size() == 0 || info.Size() > 1024 {
		t.Errorf("fresh log size = %d, want only the start line", info.Size())
	}
}
