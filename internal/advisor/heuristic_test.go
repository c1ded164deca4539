package advisor

import (
	"testing"

	"github.com/gzhole/cryptadvisor/internal/classifier"
	"github.com/gzhole/cryptadvisor/internal/disk"
)

var (
	sizesGB   = []float64{0, 0.5, 100, 499.9, 500, 999.9, 1000, 1000.1, 4000}
	platforms = []string{"", "Linux", "Windows", "Windows 10", "Windows 11 Pro", "Darwin", "windows 11", "Ubuntu 22.04 on Windows"}
)

func TestScore_FactorBoundedAndBandsTotal(t *testing.T) {
	for _, size := range sizesGB {
		for _, ssd := range []bool{false, true} {
			for _, platform := range platforms {
				for _, sb := range []bool{false, true} {
					f := disk.Features{IsSSD: ssd, SizeGB: size, FileSystem: "NTFS"}
					b := Score(f, disk.SystemContext{Platform: disk.Text(platform), UEFISecureBoot: disk.Flag(sb)})

					if b.Factor() < 0.5 || b.Factor() > 0.7 {
						t.Errorf("factor %v out of range for %+v %q %v", b.Factor(), f, platform, sb)
					}

					matches := 0
					for _, row := range bands[:len(bands)-1] {
						if b.Points > row.abovePoints {
							matches++
							break
						}
					}
					if b.Points <= 60 {
						matches++
					}
					if matches != 1 {
						t.Errorf("expected exactly one band for %d points, got %d", b.Points, matches)
					}
				}
			}
		}
	}
}

func TestScore_Bands(t *testing.T) {
	tests := []struct {
		name      string
		features  disk.Features
		sys       disk.SystemContext
		points    int
		algorithm Algorithm
		usb       bool
		hidden    bool
		smallHDD  bool
	}{
		{
			name:      "small hdd",
			features:  disk.Features{SizeGB: 100},
			points:    50,
			algorithm: AlgorithmAES256,
			smallHDD:  true,
		},
		{
			name:      "small ssd",
			features:  disk.Features{SizeGB: 100, IsSSD: true},
			points:    55,
			algorithm: AlgorithmAES256,
		},
		{
			name:      "mid hdd has no small clause",
			features:  disk.Features{SizeGB: 500},
			points:    50,
			algorithm: AlgorithmAES256,
		},
		{
			name:      "large hdd",
			features:  disk.Features{SizeGB: 1500},
			points:    60,
			algorithm: AlgorithmAES256,
		},
		{
			name:      "large ssd",
			features:  disk.Features{SizeGB: 1500, IsSSD: true},
			points:    65,
			algorithm: AlgorithmSerpent,
			hidden:    true,
		},
		{
			name:      "secure boot needs Windows prefix",
			features:  disk.Features{SizeGB: 1500, IsSSD: true},
			sys:       disk.SystemContext{Platform: "Ubuntu on Windows", UEFISecureBoot: true},
			points:    65,
			algorithm: AlgorithmSerpent,
			hidden:    true,
		},
		{
			name:      "everything applies",
			features:  disk.Features{SizeGB: 1500, IsSSD: true},
			sys:       disk.SystemContext{Platform: "Windows 11", UEFISecureBoot: true},
			points:    70,
			algorithm: AlgorithmSerpent,
			hidden:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Score(tt.features, tt.sys)
			if b.Points != tt.points {
				t.Errorf("expected %d points, got %d", tt.points, b.Points)
			}
			if b.Algorithm != tt.algorithm {
				t.Errorf("expected %s, got %s", tt.algorithm, b.Algorithm)
			}
			if b.USBKey != tt.usb || b.Hidden != tt.hidden {
				t.Errorf("expected usb=%v hidden=%v, got usb=%v hidden=%v", tt.usb, tt.hidden, b.USBKey, b.Hidden)
			}
			if got := b.Explanation.Contains(smallHDDNote); got != tt.smallHDD {
				t.Errorf("expected small-HDD clause %v, got %v", tt.smallHDD, got)
			}
			if len(b.Explanation) != 1 {
				t.Errorf("expected a single explanation line, got %q", b.Explanation)
			}
		})
	}
}

func TestSelectBand_CascadeAboveSeventy(t *testing.T) {
	b := selectBand(75)
	if b.algorithm != AlgorithmCascade || !b.usbKey || b.confidence != 0.7 {
		t.Errorf("expected cascade band above 70 points, got %+v", b)
	}
	if selectBand(70).algorithm != AlgorithmSerpent {
		t.Errorf("70 points must stay in the Serpent band")
	}
	if selectBand(60).algorithm != AlgorithmAES256 {
		t.Errorf("60 points must stay in the AES-256 band")
	}
}

func TestPasswordStrength(t *testing.T) {
	tests := []struct {
		sizeGB     float64
		platform   string
		confidence float64
		expected   int
	}{
		{100, "Linux", 0.55, 71},
		{2000, "Windows 11", 0.65, 83},
		{2000, "Windows 10", 0.7, 83},
		{100, "Windows 7", 0.5, 70},
		{100, "Linux 10.2", 0.5, 70},
		{1500, "Windows 11", 0.9, 88},
		{0, "", 0.0, 60},
		{0, "", -5, 30},
		{5000, "Windows 11", 5, 100},
	}

	for _, tt := range tests {
		got := PasswordStrength(tt.sizeGB, tt.platform, tt.confidence)
		if got != tt.expected {
			t.Errorf("PasswordStrength(%v, %q, %v) = %d, expected %d", tt.sizeGB, tt.platform, tt.confidence, got, tt.expected)
		}
	}
}

func TestPasswordStrength_Clamped(t *testing.T) {
	confidences := []float64{-100, -1, 0, 0.3, 0.5, 0.55, 0.65, 0.7, 0.9, 1, 3, 100}
	for _, size := range sizesGB {
		for _, platform := range platforms {
			for _, c := range confidences {
				got := PasswordStrength(size, platform, c)
				if got < 30 || got > 100 {
					t.Errorf("PasswordStrength(%v, %q, %v) = %d out of [30,100]", size, platform, c, got)
				}
			}
		}
	}
}

func TestPasswordAdvice(t *testing.T) {
	tests := []struct {
		score int
		ok    bool
		line  string
	}{
		{100, true, "Aim for a very strong password (long passphrase recommended)."},
		{86, true, "Aim for a very strong password (long passphrase recommended)."},
		{85, true, "Ensure password complexity for good security."},
		{71, true, "Ensure password complexity for good security."},
		{70, false, ""},
		{30, false, ""},
	}
	for _, tt := range tests {
		line, ok := PasswordAdvice(tt.score)
		if ok != tt.ok || line != tt.line {
			t.Errorf("PasswordAdvice(%d) = %q, %v; expected %q, %v", tt.score, line, ok, tt.line, tt.ok)
		}
	}
}

func TestMerge(t *testing.T) {
	base := func(alg Algorithm, usb bool) Recommendation {
		return Recommendation{
			Algorithm:     alg,
			SuggestUSBKey: usb,
			Confidence:    0.65,
			Explanation:   Explanation{"first", "second"},
		}
	}

	tests := []struct {
		name     string
		rec      Recommendation
		top      classifier.Score
		changed  bool
		alg      Algorithm
		usb      bool
		conf     float64
		explains string
	}{
		{"security keeps serpent", base(AlgorithmSerpent, false), classifier.Score{Label: classifier.LabelSecurityFocused, Score: 0.75}, true, AlgorithmSerpent, true, 0.75, agreeNote + " first"},
		{"security upgrades aes", base(AlgorithmAES256, false), classifier.Score{Label: classifier.LabelSecurityFocused, Score: 0.9}, true, AlgorithmCascade, true, 0.9, agreeNote + " first"},
		{"balance downgrades cascade", base(AlgorithmCascade, true), classifier.Score{Label: classifier.LabelPerformanceBalanced, Score: 0.8}, true, AlgorithmAES256, false, 0.8, balanceNote + " first"},
		{"balance keeps serpent", base(AlgorithmSerpent, false), classifier.Score{Label: classifier.LabelPerformanceBalanced, Score: 0.71}, true, AlgorithmSerpent, false, 0.71, balanceNote + " first"},
		{"confidence never lowered", Recommendation{Algorithm: AlgorithmSerpent, Confidence: 0.95, Explanation: Explanation{"x"}}, classifier.Score{Label: classifier.LabelSecurityFocused, Score: 0.8}, true, AlgorithmSerpent, true, 0.95, agreeNote + " x"},
		{"threshold is exclusive", base(AlgorithmAES256, false), classifier.Score{Label: classifier.LabelSecurityFocused, Score: 0.7}, false, AlgorithmAES256, false, 0.65, "first\nsecond"},
		{"usability ignored", base(AlgorithmAES256, false), classifier.Score{Label: classifier.LabelUsabilitySimple, Score: 0.99}, false, AlgorithmAES256, false, 0.65, "first\nsecond"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tt.rec
			if changed := Merge(&rec, tt.top); changed != tt.changed {
				t.Errorf("expected changed=%v, got %v", tt.changed, changed)
			}
			if rec.Algorithm != tt.alg || rec.SuggestUSBKey != tt.usb || rec.Confidence != tt.conf {
				t.Errorf("expected %s usb=%v conf=%v, got %s usb=%v conf=%v", tt.alg, tt.usb, tt.conf, rec.Algorithm, rec.SuggestUSBKey, rec.Confidence)
			}
			if rec.Explanation.String() != tt.explains {
				t.Errorf("expected explanation %q, got %q", tt.explains, rec.Explanation.String())
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		rec  Recommendation
		want string
	}{
		{"strong", Recommendation{Algorithm: AlgorithmCascade, Confidence: 0.85, Explanation: Explanation{"a"}}, "a\n" + strongNote},
		{"strong but agreed", Recommendation{Algorithm: AlgorithmCascade, Confidence: 0.85, Explanation: Explanation{agreeNote + " a"}}, agreeNote + " a"},
		{"low non-aes", Recommendation{Algorithm: AlgorithmSerpent, Confidence: 0.4, Explanation: Explanation{"a"}}, "a\n" + lowNote},
		{"low aes", Recommendation{Algorithm: AlgorithmAES256, Confidence: 0.4, Explanation: Explanation{"a"}}, "a"},
		{"middle", Recommendation{Algorithm: AlgorithmSerpent, Confidence: 0.8, Explanation: Explanation{"a"}}, "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tt.rec
			Normalize(&rec)
			if got := rec.Explanation.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestPrompt_Platform(t *testing.T) {
	info := disk.Info{Caption: "E:"}
	f := disk.Features{SizeGB: 931.5, FileSystem: "EXFAT", IsSSD: true}

	tests := []struct {
		name     string
		context  string
		platform string
	}{
		{"absent key", `{}`, "Unknown OS"},
		{"null platform", `{"platform":null}`, "Unknown OS"},
		{"empty platform", `{"platform":""}`, ""},
		{"blank platform", `{"platform":"  "}`, "  "},
		{"linux", `{"platform":"Linux"}`, "Linux"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys, err := disk.ParseSystemContext([]byte(tt.context))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := Prompt(info, f, sys.PlatformOr(unknownPlatform))
			expected := "Optimize encryption for disk E:: 931.5GB, EXFAT, SSD. User OS context: " + tt.platform + ". " +
				"User seems to prioritize security over raw speed. Suggest an encryption approach."
			if got != expected {
				t.Errorf("expected %q, got %q", expected, got)
			}
		})
	}
}
