package classifier

import (
	"context"

	"github.com/gzhole/cryptadvisor/internal/config"
)

// Resolve picks the classifier for cfg. It never fails: a backend that is
// not configured, or whose client cannot be created, yields an Unavailable
// capability carrying the reason.
func Resolve(ctx context.Context, cfg config.ClassifierConfig) Capability {
	switch cfg.Backend {
	case config.BackendHuggingFace:
		token := cfg.APIKey()
		if token == "" && cfg.Endpoint == "" {
			return Unavailable("huggingface backend selected but no token (HF_TOKEN) or endpoint configured")
		}
		return Available(NewHuggingFace(cfg.Endpoint, cfg.Model, token, nil))

	case config.BackendGemini:
		g, err := NewGemini(ctx, cfg.APIKey(), cfg.Model)
		if err != nil {
			return Unavailable(err.Error())
		}
		return Available(g)

	default:
		return Unavailable("no classifier backend configured")
	}
}

// ForBatch wraps an available capability with the configured cache and
// rate limit. An unavailable capability is returned unchanged.
func ForBatch(c Capability, cfg config.ClassifierConfig) (Capability, error) {
	cl, ok := c.Classifier()
	if !ok {
		return c, nil
	}
	if cfg.RatePerSecond > 0 {
		cl = NewLimited(cl, cfg.RatePerSecond, cfg.Burst)
	}
	cached, err := NewCached(cl, cfg.CacheSize)
	if err != nil {
		return c, err
	}
	return Available(cached), nil
}
