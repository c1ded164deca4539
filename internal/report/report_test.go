package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/gzhole/cryptadvisor/internal/advisor"
	"github.com/gzhole/cryptadvisor/internal/disk"
)

func TestRender_Success(t *testing.T) {
	factor := 0.65
	trace := advisor.Trace{
		ID:       "abc",
		Info:     disk.Info{Caption: "D:"},
		System:   disk.SystemContext{Platform: "Windows 11"},
		Features: disk.Features{IsSSD: true, SizeGB: 1024, FileSystem: "NTFS"},
		Recommendation: advisor.Recommendation{
			Algorithm:           advisor.AlgorithmSerpent,
			PasswordStrength:    83,
			SuggestHiddenVolume: true,
			Confidence:          0.65,
			SecurityFocusFactor: &factor,
			Explanation:         advisor.Explanation{"first line", "second line"},
			RunTimeMs:           4,
		},
	}

	out := Render(trace)
	tests := []string{
		"Encryption advice for D:",
		"1.0 TiB, NTFS, SSD",
		"Windows 11",
		"Serpent",
		"83 / 100",
		"0.65",
		"first line",
		"second line",
		"analysis abc in 4 ms",
	}
	for _, want := range tests {
		if !strings.Contains(out, want) {
			t.Errorf("expected report to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Error") {
		t.Errorf("successful report should not show an error row:\n%s", out)
	}
}

func TestRender_Failure(t *testing.T) {
	trace := advisor.Trace{
		Err: errors.New("bad size"),
		Recommendation: advisor.Recommendation{
			Algorithm:        advisor.AlgorithmError,
			PasswordStrength: 75,
			Explanation:      advisor.Explanation{"An internal error occurred during AI analysis."},
			Error:            "bad size",
		},
	}

	out := Render(trace)
	for _, want := range []string{"(unnamed disk)", "AI Error", "bad size", "An internal error occurred"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected report to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Volume") {
		t.Errorf("failed report should not show volume details:\n%s", out)
	}
}
