package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" WARN ":  zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"info":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for raw, want := range tests {
		if got := parseLevel(raw); got != want {
			t.Fatalf("parseLevel(%q)=%s, want %s", raw, got, want)
		}
	}
}

func TestNewWritesJSONToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	log, err := New(Config{
		Level: "debug",
		File:  FileConfig{Enabled: true, Path: dir, MaxSizeMB: -1},
	})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	log.Debug("frame skipped", zap.String("file", "pydevd.py"))
	_ = log.Sync()

	data, err := os.ReadFile(filepath.Join(dir, defaultFileName))
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	line := strings.TrimSpace(string(data))
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log line %q is not JSON: %v", line, err)
	}
	if entry["msg"] != "frame skipped" || entry["file"] != "pydevd.py" || entry["level"] != "debug" {
		t.Fatalf("entry=%v", entry)
	}
	if entry["logger"] != "debugwire" || entry["pid"] != float64(os.Getpid()) {
		t.Fatalf("entry=%v, want debugwire logger with pid", entry)
	}
}

func TestNewFiltersBelowLevel(t *testing.T) {
	dir := t.TempDir()
	log, err := New(Config{Level: "error", File: FileConfig{Enabled: true, Path: dir, Name: "x.log"}})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	log.Info("dropped")
	_ = log.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "x.log"))
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("ReadFile error: %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("log file=%q, want empty", data)
	}
}

func TestNewFileWriterDefaults(t *testing.T) {
	w, err := newFileWriter(FileConfig{Path: t.TempDir(), MaxBackups: -3, MaxAgeDays: -1})
	if err != nil {
		t.Fatalf("newFileWriter error: %v", err)
	}
	if filepath.Base(w.Filename) != defaultFileName {
		t.Fatalf("Filename=%q, want %s", w.Filename, defaultFileName)
	}
	if w.MaxSize != 100 || w.MaxBackups != 0 || w.MaxAge != 0 {
		t.Fatalf("writer=%+v, want size 100 and zero retention", w)
	}
}

func TestNewConsoleFormat(t *testing.T) {
	dir := t.TempDir()
	log, err := New(Config{Format: "Console", File: FileConfig{Enabled: true, Path: dir}})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	log.Info("scenario loaded", zap.Int("threads", 2))
	_ = log.Sync()

	data, err := os.ReadFile(filepath.Join(dir, defaultFileName))
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, "\tINFO\tdebugwire\t") || !strings.Contains(line, `"threads": 2`) {
		t.Fatalf("console line=%q", line)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Config{Format: "xml"}); err == nil || !strings.Contains(err.Error(), `unknown log format "xml"`) {
		t.Fatalf("New error=%v, want unknown format", err)
	}
}
