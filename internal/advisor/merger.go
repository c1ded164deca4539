package advisor

import "github.com/gzhole/cryptadvisor/internal/classifier"

const (
	opinionThreshold = 0.7
	strongConfidence = 0.8
	lowConfidence    = 0.5

	agreeNote   = "(AI agrees: prioritize security)"
	balanceNote = "(AI suggests balance)"
	strongNote  = "(AI strongly recommends these settings.)"
	lowNote     = "(AI confidence is low; review settings carefully.)"
)

// Merge folds the classifier's top opinion into r. Only a confident
// security_focused or performance_balanced opinion changes anything; when it
// does, the explanation collapses to a single prefixed line. Reports whether
// r was changed.
func Merge(r *Recommendation, top classifier.Score) bool {
	if top.Score <= opinionThreshold {
		return false
	}

	switch top.Label {
	case classifier.LabelSecurityFocused:
		r.Confidence = max(r.Confidence, top.Score)
		if r.Algorithm != AlgorithmCascade && r.Algorithm != AlgorithmSerpent {
			r.Algorithm = AlgorithmCascade
		}
		r.SuggestUSBKey = true
		r.Explanation = Explanation{agreeNote + " " + r.Explanation.First()}
		return true

	case classifier.LabelPerformanceBalanced:
		r.Confidence = max(r.Confidence, top.Score)
		if r.Algorithm == AlgorithmCascade {
			r.Algorithm = AlgorithmAES256
		}
		r.SuggestUSBKey = false
		r.Explanation = Explanation{balanceNote + " " + r.Explanation.First()}
		return true
	}
	return false
}

// Normalize appends the final confidence note, if any.
func Normalize(r *Recommendation) {
	switch {
	case r.Confidence > strongConfidence && !r.Explanation.Contains("AI agrees"):
		r.Explanation.Add(strongNote)
	case r.Confidence < lowConfidence && r.Algorithm != AlgorithmAES256:
		r.Explanation.Add(lowNote)
	}
}
