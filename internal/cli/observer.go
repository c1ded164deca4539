package cli

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/gzhole/cryptadvisor/internal/advisor"
	"github.com/gzhole/cryptadvisor/internal/logger"
)

// auditObserver writes one audit line per analysis.
type auditObserver struct {
	audit  *logger.AuditLogger
	source string
	log    *zap.Logger
}

func (o *auditObserver) Observe(t advisor.Trace) {
	rec := t.Recommendation
	event := logger.AuditEvent{
		Timestamp:         time.Now().UTC().Format(time.RFC3339),
		ID:                t.ID,
		Source:            o.source,
		Disk:              t.Info.Caption.String(),
		DeviceID:          t.Info.DeviceID.String(),
		Platform:          t.System.Platform.String(),
		Adjustments:       t.Adjustments,
		Algorithm:         string(rec.Algorithm),
		Confidence:        rec.Confidence,
		PasswordStrength:  rec.PasswordStrength,
		Classifier:        t.Classifier,
		ClassifierOutcome: string(t.Outcome),
		RunTimeMs:         rec.RunTimeMs,
		Error:             rec.Error,
	}
	if t.Err == nil {
		event.SizeGB = t.Features.SizeGB
		event.Media = t.Features.MediaLabel()
	}
	if t.Top != nil {
		event.TopLabel = string(t.Top.Label)
		event.TopScore = t.Top.Score
	}
	if replay, err := replayCommand(t); err == nil {
		event.Replay = replay
	}

	if err := o.audit.Log(event); err != nil {
		o.log.Warn("failed to write audit log", zap.Error(err))
	}
}

// replayCommand rebuilds the analyze invocation for the traced inputs.
func replayCommand(t advisor.Trace) (string, error) {
	diskJSON, err := json.Marshal(t.Info)
	if err != nil {
		return "", err
	}
	ctxJSON, err := json.Marshal(t.System)
	if err != nil {
		return "", err
	}
	return logger.ReplayCommand("cryptadvisor", "analyze", string(diskJSON), string(ctxJSON))
}
