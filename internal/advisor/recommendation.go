package advisor

import (
	"encoding/json"
	"strings"
)

// Algorithm is the recommended cipher suite.
type Algorithm string

const (
	AlgorithmAES256  Algorithm = "AES-256"
	AlgorithmSerpent Algorithm = "Serpent"
	AlgorithmCascade Algorithm = "AES-Serpent-Twofish"

	// AlgorithmError marks the terminal failure recommendation.
	AlgorithmError Algorithm = "AI Error"
)

// Recommendation is the single result of one analysis. JSON field names are
// the wire contract with the host application.
type Recommendation struct {
	Algorithm           Algorithm   `json:"algorithm"`
	PasswordStrength    int         `json:"password_strength_score"`
	SuggestUSBKey       bool        `json:"suggest_usb_key"`
	SuggestHiddenVolume bool        `json:"suggest_hidden_volume"`
	Explanation         Explanation `json:"explanation"`
	Confidence          float64     `json:"confidence_score"`
	RunTimeMs           int64       `json:"ai_run_time_ms"`

	// SecurityFocusFactor is set on the success path only.
	SecurityFocusFactor *float64 `json:"security_focus_factor,omitempty"`

	// Error is set on the failure path only.
	Error string `json:"error,omitempty"`
}

const (
	initialPasswordStrength = 75
	initialConfidence       = 0.5

	internalErrorExplanation = "An internal error occurred during AI analysis."
)

func newRecommendation() Recommendation {
	return Recommendation{
		Algorithm:        AlgorithmAES256,
		PasswordStrength: initialPasswordStrength,
		Confidence:       initialConfidence,
	}
}

// Failed reports whether this is the terminal error recommendation.
func (r Recommendation) Failed() bool { return r.Algorithm == AlgorithmError }

// fail resets r to the terminal error state. Flags and the password score
// keep whatever value they last had.
func (r *Recommendation) fail(err error) {
	r.Algorithm = AlgorithmError
	r.Confidence = 0.0
	r.Error = err.Error()
	r.Explanation = Explanation{internalErrorExplanation}
	r.SecurityFocusFactor = nil
}

// Explanation is the ordered list of explanation lines. It serializes as a
// single newline-joined string.
type Explanation []string

// Add appends a new line.
func (e *Explanation) Add(line string) {
	*e = append(*e, line)
}

// Extend appends text to the current last line, separated by a space.
func (e *Explanation) Extend(text string) {
	if len(*e) == 0 {
		e.Add(text)
		return
	}
	(*e)[len(*e)-1] += " " + text
}

// First returns the first line, or "" when empty.
func (e Explanation) First() string {
	if len(e) == 0 {
		return ""
	}
	return e[0]
}

// Contains reports whether the joined text contains sub.
func (e Explanation) Contains(sub string) bool {
	return strings.Contains(e.String(), sub)
}

func (e Explanation) String() string {
	return strings.Join(e, "\n")
}

func (e Explanation) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

func (e *Explanation) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*e = nil
		return nil
	}
	*e = strings.Split(s, "\n")
	return nil
}
