package advisor

import "strings"

const (
	passwordBase = 70
	passwordMin  = 30
	passwordMax  = 100
)

// PasswordStrength returns the recommended password strength score in
// [30, 100] for the given volume size, platform and heuristic confidence.
func PasswordStrength(sizeGB float64, platform string, confidence float64) int {
	score := passwordBase
	if sizeGB > 1000 {
		score += 5
	}
	if strings.Contains(platform, "Windows") &&
		(strings.Contains(platform, "10") || strings.Contains(platform, "11")) {
		score += 5
	}

	// Truncates toward zero: a confidence of 0.7 yields +3, not +4.
	score += int((confidence - 0.5) * 20)

	return min(max(score, passwordMin), passwordMax)
}

// PasswordAdvice returns the explanation line for score, if any.
func PasswordAdvice(score int) (string, bool) {
	switch {
	case score > 85:
		return "Aim for a very strong password (long passphrase recommended).", true
	case score > 70:
		return "Ensure password complexity for good security.", true
	default:
		return "", false
	}
}
