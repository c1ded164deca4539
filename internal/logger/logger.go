package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
	"mvdan.cc/sh/v3/syntax"

	"github.com/gzhole/cryptadvisor/internal/redact"
)

// AuditEvent is one line of the audit log: one analysis.
type AuditEvent struct {
	Timestamp         string   `json:"timestamp"`
	ID                string   `json:"id"`
	Source            string   `json:"source"`
	Disk              string   `json:"disk"`
	DeviceID          string   `json:"device_id,omitempty"`
	Platform          string   `json:"platform,omitempty"`
	SizeGB            float64  `json:"size_gb"`
	Media             string   `json:"media,omitempty"`
	Adjustments       []string `json:"adjustments,omitempty"`
	Algorithm         string   `json:"algorithm"`
	Confidence        float64  `json:"confidence"`
	PasswordStrength  int      `json:"password_strength"`
	Classifier        string   `json:"classifier,omitempty"`
	ClassifierOutcome string   `json:"classifier_outcome,omitempty"`
	TopLabel          string   `json:"top_label,omitempty"`
	TopScore          float64  `json:"top_score,omitempty"`
	RunTimeMs         int64    `json:"run_time_ms"`
	Error             string   `json:"error,omitempty"`
	Replay            string   `json:"replay,omitempty"`
}

// Failed reports whether the analysis ended in the error recommendation.
func (e AuditEvent) Failed() bool { return e.Error != "" }

// Rotation controls audit log rotation. Zero values use lumberjack's
// defaults (100MB, keep everything).
type Rotation struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type AuditLogger struct {
	out *lumberjack.Logger
	mu  sync.Mutex
}

// New opens (creating if needed) the audit log at path. New files are
// created with mode 0600.
func New(path string, rot Rotation) (*AuditLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, err
	}
	_ = file.Close()

	return &AuditLogger{out: &lumberjack.Logger{
		Filename:   path,
		MaxSize:    rot.MaxSizeMB,
		MaxBackups: rot.MaxBackups,
		MaxAge:     rot.MaxAgeDays,
		Compress:   rot.Compress,
	}}, nil
}

func (l *AuditLogger) Log(event AuditEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Redact sensitive data before logging
	event.Disk = redact.Redact(event.Disk)
	event.DeviceID = redact.Redact(event.DeviceID)
	event.Replay = redact.Redact(event.Replay)
	if event.Error != "" {
		event.Error = redact.Redact(event.Error)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	data = append(data, '\n')
	_, err = l.out.Write(data)
	return err
}

func (l *AuditLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.out != nil {
		return l.out.Close()
	}
	return nil
}

// ReplayCommand renders a shell command line that re-runs an analysis,
// quoting every argument for bash.
func ReplayCommand(prog string, args ...string) (string, error) {
	parts := make([]string, 0, len(args)+1)
	for _, a := range append([]string{prog}, args...) {
		q, err := syntax.Quote(a, syntax.LangBash)
		if err != nil {
			return "", fmt.Errorf("quote %q: %w", a, err)
		}
		parts = append(parts, q)
	}
	return strings.Join(parts, " "), nil
}
