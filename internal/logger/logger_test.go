package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAuditLogger_Log(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "nested", "test_audit.jsonl")

	lg, err := New(logPath, Rotation{})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	defer func() {
		_ = lg.Close()
	}()

	event := AuditEvent{
		Timestamp:        "2026-02-02T12:00:00Z",
		ID:               "a1",
		Source:           "analyze",
		Disk:             "C:",
		SizeGB:           465.8,
		Media:            "SSD",
		Algorithm:        "AES-256",
		Confidence:       0.55,
		PasswordStrength: 71,
		Error:            "classifier: Bearer abcdefghijklmnopqrstuvwxyz rejected",
	}

	if err := lg.Log(event); err != nil {
		t.Fatalf("failed to log event: %v", err)
	}

	_ = lg.Close()

	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("failed to stat log file: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %04o", info.Mode().Perm())
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	var parsed AuditEvent
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("failed to parse log line as JSON: %v", err)
	}

	if parsed.Disk != "C:" {
		t.Errorf("expected disk 'C:', got '%s'", parsed.Disk)
	}
	if parsed.Algorithm != "AES-256" {
		t.Errorf("expected algorithm 'AES-256', got '%s'", parsed.Algorithm)
	}
	if strings.Contains(parsed.Error, "abcdefghijklmnopqrstuvwxyz") {
		t.Errorf("expected bearer token to be redacted, got %q", parsed.Error)
	}
	if !parsed.Failed() {
		t.Errorf("expected event with error to report Failed")
	}
}

func TestAuditLogger_AppendsLines(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "audit.jsonl")

	for i := 0; i < 2; i++ {
		lg, err := New(logPath, Rotation{})
		if err != nil {
			t.Fatalf("failed to create logger: %v", err)
		}
		if err := lg.Log(AuditEvent{ID: "x", Algorithm: "Serpent"}); err != nil {
			t.Fatalf("failed to log: %v", err)
		}
		_ = lg.Close()
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if n := bytes.Count(data, []byte("\n")); n != 2 {
		t.Errorf("expected 2 lines, got %d", n)
	}
}

func TestAuditLogger_Rotation(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "audit.jsonl")

	// Pre-create the log file already at the rotation limit.
	big := make([]byte, 1024*1024)
	if err := os.WriteFile(logPath, big, 0600); err != nil {
		t.Fatalf("failed to seed large log file: %v", err)
	}

	lg, err := New(logPath, Rotation{MaxSizeMB: 1, MaxBackups: 2})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = lg.Close() }()

	event := AuditEvent{
		Timestamp: "2026-03-01T00:00:00Z",
		ID:        "rot",
		Algorithm: "AES-256",
	}
	if err := lg.Log(event); err != nil {
		t.Fatalf("Log after rotation failed: %v", err)
	}
	_ = lg.Close()

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected active log plus one backup, got %d files", len(entries))
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) >= len(big) {
		t.Errorf("expected fresh log after rotation, got %d bytes", len(data))
	}
	if !strings.Contains(string(data), `"id":"rot"`) {
		t.Errorf("expected event in rotated log, got %q", string(data))
	}
}

func TestReplayCommand(t *testing.T) {
	got, err := ReplayCommand("cryptadvisor", "analyze", `{"caption":"C:","size":1}`, "-")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := `cryptadvisor analyze '{"caption":"C:","size":1}' -`
	if got != expected {
		t.Errorf("expected %s, got %s", expected, got)
	}

	got, err = ReplayCommand("cryptadvisor", "analyze", `{"caption":"Bob's disk"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(got, "cryptadvisor analyze ") || strings.Contains(got, `'Bob's`) {
		t.Errorf("expected single quote to be escaped, got %s", got)
	}
}

func TestNewDiagnostic(t *testing.T) {
	var buf bytes.Buffer
	lg, err := NewDiagnostic(&buf, "warn", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lg.Info("hidden")
	lg.Warn("shown")
	_ = lg.Sync()

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered at warn level: %s", out)
	}
	var line map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &line); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", out, err)
	}
	if line["msg"] != "shown" {
		t.Errorf("expected msg 'shown', got %v", line["msg"])
	}
	if line["level"] != "WARNING" {
		t.Errorf("expected level WARNING, got %v", line["level"])
	}

	if _, err := NewDiagnostic(&buf, "loud", false); err == nil {
		t.Errorf("expected error for unknown level")
	}
}

func TestNewDiagnostic_ConsoleSeverities(t *testing.T) {
	var buf bytes.Buffer
	lg, err := NewDiagnostic(&buf, "info", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lg.Info("ready")
	lg.Warn("degraded")
	lg.Error("failed")
	_ = lg.Sync()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), buf.String())
	}
	for i, want := range []string{"\tINFO\t", "\tWARNING\t", "\tERROR\t"} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d: expected %q in %q", i, want, lines[i])
		}
	}
}
