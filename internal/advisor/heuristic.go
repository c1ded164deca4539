package advisor

import (
	"math"
	"strings"

	"github.com/gzhole/cryptadvisor/internal/disk"
)

// The security-focus factor is accumulated in hundredths so that band
// boundaries are exact: 50+10+5+5 is 70, which is not above 70.
const basePoints = 50

// adjustment is a single additive contribution to the security-focus factor.
// Each applies at most once.
type adjustment struct {
	id     string
	points int
	match  func(f disk.Features, platform string, sys disk.SystemContext) bool
}

var adjustments = []adjustment{
	// Large volumes hold more data worth protecting.
	{
		id:     "large_volume",
		points: 10,
		match: func(f disk.Features, _ string, _ disk.SystemContext) bool {
			return f.SizeGB > 1000
		},
	},
	// SSDs absorb cipher overhead better.
	{
		id:     "solid_state",
		points: 5,
		match: func(f disk.Features, _ string, _ disk.SystemContext) bool {
			return f.IsSSD
		},
	},
	// A Secure Boot Windows host suggests a security-minded owner.
	{
		id:     "windows_secure_boot",
		points: 5,
		match: func(_ disk.Features, platform string, sys disk.SystemContext) bool {
			return strings.HasPrefix(platform, "Windows") && bool(sys.UEFISecureBoot)
		},
	},
}

// band maps a factor range to a baseline recommendation. Bands are checked
// in order; abovePoints is an exclusive lower bound.
type band struct {
	abovePoints int
	algorithm   Algorithm
	usbKey      bool
	hidden      bool
	confidence  float64
	explanation string
}

var bands = []band{
	{
		abovePoints: 70,
		algorithm:   AlgorithmCascade,
		usbKey:      true,
		confidence:  0.7,
		explanation: "High security focus detected. Recommended cascaded ciphers (AES-Serpent-Twofish) for maximum protection and a USB key for access control.",
	},
	{
		abovePoints: 60,
		algorithm:   AlgorithmSerpent,
		hidden:      true,
		confidence:  0.65,
		explanation: "Strong security is prioritized. Serpent cipher offers high security with moderate performance impact. Consider a hidden volume for advanced privacy.",
	},
	{
		abovePoints: math.MinInt,
		algorithm:   AlgorithmAES256,
		confidence:  0.55,
		explanation: "Balanced approach for security and performance. AES-256 is a robust and widely accepted standard.",
	},
}

const smallHDDNote = "For smaller HDDs, AES-256 is a good balance."

// Baseline is the heuristic scorer's partial recommendation.
type Baseline struct {
	Points      int
	Applied     []string
	Algorithm   Algorithm
	USBKey      bool
	Hidden      bool
	Confidence  float64
	Explanation Explanation
}

// Factor returns the security-focus factor in [0.5, 0.7].
func (b Baseline) Factor() float64 {
	return float64(b.Points) / 100
}

// Score computes the security-focus factor and picks the baseline band.
// It never fails.
func Score(f disk.Features, sys disk.SystemContext) Baseline {
	platform := sys.PlatformOr(unknownPlatform)

	b := Baseline{Points: basePoints}
	for _, adj := range adjustments {
		if adj.match(f, platform, sys) {
			b.Points += adj.points
			b.Applied = append(b.Applied, adj.id)
		}
	}

	chosen := selectBand(b.Points)
	b.Algorithm = chosen.algorithm
	b.USBKey = chosen.usbKey
	b.Hidden = chosen.hidden
	b.Confidence = chosen.confidence
	b.Explanation = Explanation{chosen.explanation}

	if chosen.algorithm == AlgorithmAES256 && f.SizeGB < 500 && !f.IsSSD {
		b.Explanation.Extend(smallHDDNote)
	}
	return b
}

func selectBand(points int) band {
	for _, b := range bands {
		if points > b.abovePoints {
			return b
		}
	}
	return bands[len(bands)-1]
}

// apply copies the baseline into r.
func (r *Recommendation) apply(b Baseline) {
	factor := b.Factor()
	r.SecurityFocusFactor = &factor
	r.Algorithm = b.Algorithm
	r.SuggestUSBKey = b.USBKey
	r.SuggestHiddenVolume = b.Hidden
	r.Confidence = b.Confidence
	r.Explanation = append(Explanation(nil), b.Explanation...)
}
