// Package advisor turns a disk description and optional system context into
// a single encryption recommendation.
//
// Flow:
//
//	disk.Extract ──▶ Score (heuristic band)
//	                   │
//	                   ▼
//	         PasswordStrength / PasswordAdvice
//	                   │
//	                   ▼
//	      classifier (optional) ──▶ Merge
//	                   │
//	                   ▼
//	               Normalize
//
// Analyze never returns an error. Input and internal failures surface as a
// Recommendation whose Algorithm is AlgorithmError.
package advisor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gzhole/cryptadvisor/internal/classifier"
	"github.com/gzhole/cryptadvisor/internal/disk"
	"github.com/gzhole/cryptadvisor/internal/redact"
)

// ClassifierOutcome describes what happened at the classifier step.
type ClassifierOutcome string

const (
	OutcomeSkipped    ClassifierOutcome = "skipped"
	OutcomeFailed     ClassifierOutcome = "failed"
	OutcomeEmpty      ClassifierOutcome = "empty"
	OutcomeIgnored    ClassifierOutcome = "ignored"
	OutcomeMerged     ClassifierOutcome = "merged"
	OutcomeNotReached ClassifierOutcome = "not_reached"
)

// Trace is everything an observer may want to know about one analysis.
type Trace struct {
	ID             string
	Info           disk.Info
	System         disk.SystemContext
	Features       disk.Features
	Adjustments    []string
	Classifier     string
	Outcome        ClassifierOutcome
	Top            *classifier.Score
	ClassifierErr  error
	Err            error
	Duration       time.Duration
	Recommendation Recommendation
}

// Observer receives a Trace after every analysis. Implementations must be
// safe for concurrent use when the Advisor is shared across goroutines.
type Observer interface {
	Observe(t Trace)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Trace)

func (f ObserverFunc) Observe(t Trace) { f(t) }

// Advisor runs analyses. The zero value is not usable; call New.
type Advisor struct {
	oracle     disk.MediaTypeOracle
	capability classifier.Capability
	log        *zap.Logger
	observers  []Observer
	now        func() time.Time
	newID      func() string
}

// Option configures an Advisor.
type Option func(*Advisor)

// WithOracle sets the media-type oracle used during feature extraction.
func WithOracle(o disk.MediaTypeOracle) Option {
	return func(a *Advisor) { a.oracle = o }
}

// WithCapability sets the classifier capability.
func WithCapability(c classifier.Capability) Option {
	return func(a *Advisor) { a.capability = c }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Advisor) {
		if l != nil {
			a.log = l
		}
	}
}

// WithObserver registers an observer. May be given more than once.
func WithObserver(o Observer) Option {
	return func(a *Advisor) {
		if o != nil {
			a.observers = append(a.observers, o)
		}
	}
}

// WithClock overrides the clock used to stamp run time.
func WithClock(now func() time.Time) Option {
	return func(a *Advisor) { a.now = now }
}

// New creates an Advisor. Without options it uses the description oracle,
// no classifier and a no-op logger.
func New(opts ...Option) *Advisor {
	a := &Advisor{
		oracle:     disk.DescriptionOracle{},
		capability: classifier.Unavailable("no classifier configured"),
		log:        zap.NewNop(),
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Capability returns the classifier capability in use.
func (a *Advisor) Capability() classifier.Capability { return a.capability }

// Analyze produces exactly one recommendation for the given disk. It never
// fails and never panics; ai_run_time_ms is always stamped.
func (a *Advisor) Analyze(ctx context.Context, info disk.Info, sys disk.SystemContext) Recommendation {
	start := a.now()
	trace := Trace{
		ID:      a.newID(),
		Info:    info,
		System:  sys,
		Outcome: OutcomeNotReached,
	}
	log := a.log.With(zap.String("analysis_id", trace.ID))
	log.Info("analysis started",
		zap.String("disk", redact.Redact(info.Caption.String())),
		zap.String("device", redact.Redact(info.DeviceID.String())),
	)

	rec := newRecommendation()
	if err := a.run(ctx, info, sys, &rec, &trace, log); err != nil {
		log.Error("analysis failed", zap.Error(err))
		rec.fail(err)
		trace.Err = err
	}

	elapsed := a.now().Sub(start)
	if elapsed < 0 {
		elapsed = 0
	}
	rec.RunTimeMs = elapsed.Milliseconds()
	trace.Duration = elapsed
	trace.Recommendation = rec

	log.Info("analysis finished",
		zap.String("algorithm", string(rec.Algorithm)),
		zap.Float64("confidence", rec.Confidence),
		zap.Int64("run_time_ms", rec.RunTimeMs),
	)
	a.notify(trace, log)
	return rec
}

func (a *Advisor) run(ctx context.Context, info disk.Info, sys disk.SystemContext, rec *Recommendation, trace *Trace, log *zap.Logger) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic during analysis: %v", p)
		}
	}()

	f, err := disk.Extract(info, a.oracle)
	if err != nil {
		return err
	}
	trace.Features = f
	platform := sys.PlatformOr(unknownPlatform)

	base := Score(f, sys)
	rec.apply(base)
	trace.Adjustments = base.Applied
	log.Debug("heuristic baseline",
		zap.Float64("security_focus_factor", base.Factor()),
		zap.Strings("adjustments", base.Applied),
		zap.String("algorithm", string(base.Algorithm)),
		zap.Bool("ssd", f.IsSSD),
		zap.Float64("size_gb", f.SizeGB),
	)

	rec.PasswordStrength = PasswordStrength(f.SizeGB, platform, rec.Confidence)
	if advice, ok := PasswordAdvice(rec.PasswordStrength); ok {
		rec.Explanation.Add(advice)
	}

	a.consultClassifier(ctx, info, f, platform, rec, trace, log)

	Normalize(rec)
	return nil
}

func (a *Advisor) consultClassifier(ctx context.Context, info disk.Info, f disk.Features, platform string, rec *Recommendation, trace *Trace, log *zap.Logger) {
	cl, ok := a.capability.Classifier()
	if !ok {
		trace.Outcome = OutcomeSkipped
		log.Debug("classifier skipped", zap.String("capability", a.capability.Describe()))
		return
	}
	trace.Classifier = cl.Name()

	ranking, err := consult(ctx, cl, Prompt(info, f, platform))
	if err != nil {
		trace.Outcome = OutcomeFailed
		trace.ClassifierErr = err
		log.Warn("classifier failed; keeping heuristic result",
			zap.String("classifier", cl.Name()),
			zap.String("error", redact.Redact(err.Error())),
		)
		rec.Explanation.Add(classifierFailureNote)
		return
	}

	top, ok := ranking.Top()
	if !ok {
		trace.Outcome = OutcomeEmpty
		return
	}
	trace.Top = &top

	if Merge(rec, top) {
		trace.Outcome = OutcomeMerged
	} else {
		trace.Outcome = OutcomeIgnored
	}
	log.Debug("classifier opinion",
		zap.String("label", string(top.Label)),
		zap.Float64("score", top.Score),
		zap.String("outcome", string(trace.Outcome)),
	)
}

// notify delivers the trace to every observer. A panicking observer is
// logged and does not affect the recommendation.
func (a *Advisor) notify(t Trace, log *zap.Logger) {
	for _, o := range a.observers {
		func() {
			defer func() {
				if p := recover(); p != nil {
					log.Warn("observer panicked", zap.Any("panic", p))
				}
			}()
			o.Observe(t)
		}()
	}
}
