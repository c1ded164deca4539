package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	cfg, err := Load("", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantDir := filepath.Join(home, DefaultConfigDir)
	if cfg.ConfigDir != wantDir {
		t.Errorf("expected config dir %s, got %s", wantDir, cfg.ConfigDir)
	}
	info, err := os.Stat(wantDir)
	if err != nil {
		t.Fatalf("config dir not created: %v", err)
	}
	if info.Mode().Perm() != 0700 {
		t.Errorf("expected config dir mode 0700, got %04o", info.Mode().Perm())
	}
	if cfg.LogPath != filepath.Join(wantDir, DefaultLogFile) {
		t.Errorf("unexpected log path %s", cfg.LogPath)
	}
	if cfg.Classifier.Backend != BackendNone {
		t.Errorf("expected backend none, got %s", cfg.Classifier.Backend)
	}
	if cfg.MediaProbe != ProbeDescription {
		t.Errorf("expected description probe, got %s", cfg.MediaProbe)
	}
	if !cfg.Audit.Enabled {
		t.Errorf("expected audit enabled by default")
	}
}

func TestLoad_FileEnvAndFlags(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	dir := filepath.Join(home, DefaultConfigDir)
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatal(err)
	}
	yamlData := `
log_level: debug
media_probe: sysfs
audit:
  max_size_mb: 5
classifier:
  backend: huggingface
  model: my/model
  cache_size: 16
`
	if err := os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte(yamlData), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CRYPTADVISOR_CLASSIFIER_MODEL", "env/model")

	cfg, err := Load("", "/tmp/custom-audit.jsonl", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.LogLevel)
	}
	if cfg.MediaProbe != ProbeSysfs {
		t.Errorf("expected sysfs probe, got %s", cfg.MediaProbe)
	}
	if cfg.Audit.MaxSizeMB != 5 || !cfg.Audit.Enabled {
		t.Errorf("expected audit max 5MB and enabled, got %+v", cfg.Audit)
	}
	if cfg.Classifier.Backend != BackendHuggingFace {
		t.Errorf("expected huggingface backend, got %s", cfg.Classifier.Backend)
	}
	if cfg.Classifier.Model != "env/model" {
		t.Errorf("expected env to override file model, got %s", cfg.Classifier.Model)
	}
	if cfg.Classifier.CacheSize != 16 {
		t.Errorf("expected cache size 16, got %d", cfg.Classifier.CacheSize)
	}
	if cfg.LogPath != "/tmp/custom-audit.jsonl" {
		t.Errorf("expected flag log path, got %s", cfg.LogPath)
	}

	cfg, err = Load("", "", "gemini")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Classifier.Backend != BackendGemini {
		t.Errorf("expected flag to select gemini, got %s", cfg.Classifier.Backend)
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "", ""); err == nil {
		t.Errorf("expected error for explicit missing config file")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)

	if _, err := Load("", "", "openai"); err == nil {
		t.Errorf("expected error for unknown backend")
	}

	t.Setenv("CRYPTADVISOR_MEDIA_PROBE", "smart")
	if _, err := Load("", "", ""); err == nil {
		t.Errorf("expected error for unknown media probe")
	}
}

func TestClassifierConfig_APIKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("HF_TOKEN", "")
	t.Setenv("HUGGINGFACEHUB_API_TOKEN", "hub-token")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "google-key")
	t.Setenv("MY_KEY", " custom ")

	tests := []struct {
		cfg  ClassifierConfig
		want string
	}{
		{ClassifierConfig{Backend: BackendHuggingFace}, "hub-token"},
		{ClassifierConfig{Backend: BackendGemini}, "google-key"},
		{ClassifierConfig{Backend: BackendGemini, APIKeyEnv: "MY_KEY"}, "custom"},
		{ClassifierConfig{Backend: BackendNone}, ""},
	}
	for _, tt := range tests {
		if got := tt.cfg.APIKey(); got != tt.want {
			t.Errorf("APIKey(%+v) = %q, expected %q", tt.cfg, got, tt.want)
		}
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CLASSIFIER", "CLASSIFIER_ENDPOINT", "CLASSIFIER_MODEL", "CLASSIFIER_RATE",
		"LOG_LEVEL", "MEDIA_PROBE", "AUDIT_LOG", "AUDIT", "METRICS_FILE",
	} {
		t.Setenv(envPrefix+key, "")
	}
}

func TestLoad_UnusableHomeFallsBack(t *testing.T) {
	clearEnv(t)
	notDir := filepath.Join(t.TempDir(), "notadir")
	if err := os.WriteFile(notDir, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HOME", notDir)

	cfg, err := Load("", "", "")
	if err != nil {
		t.Fatalf("unusable home must not be fatal: %v", err)
	}
	if cfg.Audit.Enabled {
		t.Errorf("expected audit disabled without a config directory")
	}
	if cfg.Classifier.Backend != BackendNone {
		t.Errorf("expected default backend, got %s", cfg.Classifier.Backend)
	}
	if len(cfg.Warnings) != 1 || !strings.Contains(cfg.Warnings[0], "config directory unavailable") {
		t.Errorf("expected one config directory warning, got %v", cfg.Warnings)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "", ""); err == nil {
		t.Errorf("expected error for explicit missing config")
	}
}

func TestLoad_BrokenDefaultFileWarns(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	dir := filepath.Join(home, DefaultConfigDir)
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, DefaultConfigFile)
	if err := os.WriteFile(path, []byte("classifier: [oops"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("", "", "")
	if err != nil {
		t.Fatalf("broken default config must not be fatal: %v", err)
	}
	if len(cfg.Warnings) != 1 || !strings.Contains(cfg.Warnings[0], "ignoring config file") {
		t.Errorf("expected config file warning, got %v", cfg.Warnings)
	}
	if !cfg.Audit.Enabled {
		t.Errorf("expected audit to stay enabled")
	}

	if _, err := Load(path, "", ""); err == nil {
		t.Errorf("expected error for explicit unparsable config")
	}
}
