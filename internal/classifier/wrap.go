package classifier

import (
	"context"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// Cached memoizes successful rankings by prompt and label set. Failures are
// never cached. Safe for concurrent use.
type Cached struct {
	next  Classifier
	cache *lru.Cache[string, Ranking]
}

// NewCached wraps next with an LRU of the given size (<= 0 selects 256).
func NewCached(next Classifier, size int) (*Cached, error) {
	if size <= 0 {
		size = 256
	}
	cache, err := lru.New[string, Ranking](size)
	if err != nil {
		return nil, err
	}
	return &Cached{next: next, cache: cache}, nil
}

func (c *Cached) Name() string { return c.next.Name() }

func (c *Cached) Classify(ctx context.Context, prompt string, labels []Label) (Ranking, error) {
	key := cacheKey(prompt, labels)
	if cached, ok := c.cache.Get(key); ok {
		return append(Ranking(nil), cached...), nil
	}
	r, err := c.next.Classify(ctx, prompt, labels)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, append(Ranking(nil), r...))
	return r, nil
}

// Len reports the number of cached rankings.
func (c *Cached) Len() int { return c.cache.Len() }

func cacheKey(prompt string, labels []Label) string {
	var b strings.Builder
	for _, l := range labels {
		b.WriteString(string(l))
		b.WriteByte(',')
	}
	b.WriteByte('\x00')
	b.WriteString(prompt)
	return b.String()
}

// Limited throttles calls to next with a token bucket. Waiting honours ctx.
type Limited struct {
	next    Classifier
	limiter *rate.Limiter
}

// NewLimited allows perSecond calls with the given burst (burst < 1 means 1).
func NewLimited(next Classifier, perSecond float64, burst int) *Limited {
	if burst < 1 {
		burst = 1
	}
	return &Limited{next: next, limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

func (l *Limited) Name() string { return l.next.Name() }

func (l *Limited) Classify(ctx context.Context, prompt string, labels []Label) (Ranking, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return l.next.Classify(ctx, prompt, labels)
}
