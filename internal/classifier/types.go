// Package classifier provides the optional zero-shot classification
// capability the advisor consults after its own heuristics.
//
// Architecture:
//
//	Classifier (interface)
//	  ├── HuggingFace  inference API zero-shot pipeline over HTTP
//	  └── Gemini       Gemini model asked for a ranked JSON answer
//
//	Cached / Limited   wrappers used by batch runs
//	Capability         Unavailable or Available(Classifier), resolved once
//	                   at startup and never changed afterwards.
package classifier

import (
	"context"
	"errors"
	"sort"
)

// Label is one of the fixed zero-shot labels.
type Label string

const (
	LabelSecurityFocused     Label = "security_focused"
	LabelPerformanceBalanced Label = "performance_balanced"
	LabelUsabilitySimple     Label = "usability_simple"
)

// Labels returns the fixed label set in the order it is sent to backends.
func Labels() []Label {
	return []Label{LabelSecurityFocused, LabelPerformanceBalanced, LabelUsabilitySimple}
}

var (
	// ErrUnavailable is returned when a backend is not configured.
	ErrUnavailable = errors.New("classifier unavailable")

	// ErrBadResponse is returned when a backend answers with something that
	// is not a ranking over the requested labels.
	ErrBadResponse = errors.New("classifier returned an invalid response")
)

// Score is a single (label, score) pair.
type Score struct {
	Label Label   `json:"label"`
	Score float64 `json:"score"`
}

// Ranking is a list of scores sorted descending by score.
type Ranking []Score

// Top returns the best-scoring entry. ok is false for an empty ranking.
func (r Ranking) Top() (Score, bool) {
	if len(r) == 0 {
		return Score{}, false
	}
	return r[0], true
}

// NewRanking pairs labels with scores and sorts the result descending.
// Ties keep their input order.
func NewRanking(labels []Label, scores []float64) (Ranking, error) {
	if len(labels) != len(scores) {
		return nil, ErrBadResponse
	}
	r := make(Ranking, len(labels))
	for i := range labels {
		r[i] = Score{Label: labels[i], Score: scores[i]}
	}
	sort.SliceStable(r, func(i, j int) bool { return r[i].Score > r[j].Score })
	return r, nil
}

// Classifier ranks a fixed label set against a text prompt.
type Classifier interface {
	// Name returns the backend identifier (e.g., "huggingface", "gemini").
	Name() string

	// Classify returns the labels ranked by score, highest first.
	Classify(ctx context.Context, prompt string, labels []Label) (Ranking, error)
}

// Capability is the startup-resolved availability of a classifier.
// The zero value is unavailable.
type Capability struct {
	classifier Classifier
	reason     string
}

// Unavailable returns a capability with no classifier. reason is shown in
// status output and startup logs.
func Unavailable(reason string) Capability {
	return Capability{reason: reason}
}

// Available returns a capability backed by c.
func Available(c Classifier) Capability {
	if c == nil {
		return Unavailable("no classifier")
	}
	return Capability{classifier: c}
}

// Classifier returns the backing classifier and whether one is available.
func (c Capability) Classifier() (Classifier, bool) {
	return c.classifier, c.classifier != nil
}

// Describe returns a one-line human summary.
func (c Capability) Describe() string {
	if c.classifier != nil {
		return "available (" + c.classifier.Name() + ")"
	}
	if c.reason == "" {
		return "unavailable"
	}
	return "unavailable: " + c.reason
}
