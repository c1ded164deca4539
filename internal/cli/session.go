package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/gzhole/cryptadvisor/internal/advisor"
	"github.com/gzhole/cryptadvisor/internal/classifier"
	"github.com/gzhole/cryptadvisor/internal/config"
	"github.com/gzhole/cryptadvisor/internal/disk"
	"github.com/gzhole/cryptadvisor/internal/logger"
	"github.com/gzhole/cryptadvisor/internal/metrics"
)

// session is the per-invocation wiring shared by analyze and batch.
type session struct {
	cfg     *config.Config
	log     *zap.Logger
	audit   *logger.AuditLogger
	metrics *metrics.Recorder
}

func newSession(stderr io.Writer) (*session, error) {
	cfg, err := config.Load(configPath, logPath, classifierName)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	console := false
	if f, ok := stderr.(*os.File); ok {
		console = logger.IsTerminal(f)
	}
	lg, err := logger.NewDiagnostic(stderr, level, console)
	if err != nil {
		return nil, err
	}

	for _, w := range cfg.Warnings {
		lg.Warn(w)
	}

	s := &session{cfg: cfg, log: lg}
	if cfg.Audit.Enabled && cfg.LogPath != "" {
		audit, err := logger.New(cfg.LogPath, logger.Rotation{
			MaxSizeMB:  cfg.Audit.MaxSizeMB,
			MaxBackups: cfg.Audit.MaxBackups,
			MaxAgeDays: cfg.Audit.MaxAgeDays,
			Compress:   cfg.Audit.Compress,
		})
		if err != nil {
			lg.Warn("audit log unavailable", zap.String("path", cfg.LogPath), zap.Error(err))
		} else {
			s.audit = audit
		}
	}
	if cfg.MetricsPath != "" {
		s.metrics = metrics.New()
	}
	return s, nil
}

func (s *session) oracle() disk.MediaTypeOracle {
	if s.cfg.MediaProbe == config.ProbeSysfs {
		return disk.SysfsOracle{Fallback: disk.DescriptionOracle{}}
	}
	return disk.DescriptionOracle{}
}

// capability resolves the classifier once and reports the result on stderr.
func (s *session) capability(ctx context.Context) classifier.Capability {
	c := classifier.Resolve(ctx, s.cfg.Classifier)
	switch _, ok := c.Classifier(); {
	case ok:
		s.log.Info("classifier ready", zap.String("capability", c.Describe()))
	case s.cfg.Classifier.Backend == config.BackendNone:
		s.log.Info("classifier disabled; using heuristic recommendations only")
	default:
		s.log.Warn("classifier unavailable; using heuristic recommendations only", zap.String("reason", c.Describe()))
	}
	return c
}

func (s *session) newAdvisor(source string, c classifier.Capability, extra ...advisor.Observer) *advisor.Advisor {
	opts := []advisor.Option{
		advisor.WithOracle(s.oracle()),
		advisor.WithCapability(c),
		advisor.WithLogger(s.log),
	}
	if s.audit != nil {
		opts = append(opts, advisor.WithObserver(&auditObserver{audit: s.audit, source: source, log: s.log}))
	}
	if s.metrics != nil {
		opts = append(opts, advisor.WithObserver(s.metrics))
	}
	for _, o := range extra {
		opts = append(opts, advisor.WithObserver(o))
	}
	return advisor.New(opts...)
}

func (s *session) close() {
	if s.metrics != nil {
		if err := s.metrics.WriteTextfile(s.cfg.MetricsPath); err != nil {
			s.log.Warn("failed to write metrics file", zap.String("path", s.cfg.MetricsPath), zap.Error(err))
		}
	}
	if s.audit != nil {
		_ = s.audit.Close()
	}
	_ = s.log.Sync()
}
