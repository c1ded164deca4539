package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigDir  = ".cryptadvisor"
	DefaultConfigFile = "config.yaml"
	DefaultLogFile    = "audit.jsonl"

	envPrefix = "CRYPTADVISOR_"
)

// Classifier backends.
const (
	BackendNone        = "none"
	BackendHuggingFace = "huggingface"
	BackendGemini      = "gemini"
)

// Media probes.
const (
	ProbeDescription = "description"
	ProbeSysfs       = "sysfs"
)

type Config struct {
	ConfigDir  string `yaml:"-"`
	ConfigPath string `yaml:"-"`
	// Warnings lists non-fatal problems found while loading.
	Warnings []string `yaml:"-"`

	LogPath     string           `yaml:"audit_log"`
	LogLevel    string           `yaml:"log_level"`
	MediaProbe  string           `yaml:"media_probe"`
	MetricsPath string           `yaml:"metrics_file"`
	Audit       AuditConfig      `yaml:"audit"`
	Classifier  ClassifierConfig `yaml:"classifier"`
}

// AuditConfig controls the JSONL audit trail and its rotation.
type AuditConfig struct {
	Enabled    bool `yaml:"enabled"`
	MaxSizeMB  int  `yaml:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days"`
	Compress   bool `yaml:"compress"`
}

// ClassifierConfig selects and tunes the optional zero-shot classifier.
type ClassifierConfig struct {
	// Backend is "none", "huggingface" or "gemini". Default: "none".
	Backend  string `yaml:"backend"`
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	// APIKeyEnv names the environment variable holding the credential.
	// Empty selects the backend's conventional variables.
	APIKeyEnv string `yaml:"api_key_env"`

	// CacheSize, RatePerSecond and Burst only apply to batch runs.
	CacheSize     int     `yaml:"cache_size"`
	RatePerSecond float64 `yaml:"rate_per_second"`
	Burst         int     `yaml:"burst"`
}

// APIKey resolves the backend credential from the environment.
func (c ClassifierConfig) APIKey() string {
	if c.APIKeyEnv != "" {
		return strings.TrimSpace(os.Getenv(c.APIKeyEnv))
	}
	switch c.Backend {
	case BackendHuggingFace:
		return firstNonEmpty(os.Getenv("HF_TOKEN"), os.Getenv("HUGGINGFACEHUB_API_TOKEN"))
	case BackendGemini:
		return firstNonEmpty(os.Getenv("GEMINI_API_KEY"), os.Getenv("GOOGLE_API_KEY"))
	}
	return ""
}

// Default returns the built-in configuration rooted at configDir.
func Default(configDir string) *Config {
	return &Config{
		ConfigDir:  configDir,
		ConfigPath: filepath.Join(configDir, DefaultConfigFile),
		LogPath:    filepath.Join(configDir, DefaultLogFile),
		LogLevel:   "info",
		MediaProbe: ProbeDescription,
		Audit: AuditConfig{
			Enabled:    true,
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 30,
		},
		Classifier: ClassifierConfig{
			Backend:       BackendNone,
			CacheSize:     256,
			RatePerSecond: 2,
			Burst:         1,
		},
	}
}

// Load builds the configuration: defaults, then ~/.cryptadvisor/config.yaml
// (or configPath), then CRYPTADVISOR_* environment variables, then the
// non-empty flag values passed in. .env files in the config directory and
// the working directory are loaded first and never override the real
// environment.
//
// Only an explicit configPath that cannot be read or parsed, or an invalid
// value, is an error. An unusable home directory or default config file
// falls back to the defaults and is reported in Warnings; the audit log is
// turned off when its default location is unusable.
func Load(configPath, logPath, backend string) (*Config, error) {
	var warnings []string

	configDir := ""
	homeDir, err := os.UserHomeDir()
	if err == nil {
		configDir = filepath.Join(homeDir, DefaultConfigDir)
		err = ensureDir(configDir)
	}
	dirUsable := err == nil
	if !dirUsable {
		warnings = append(warnings, fmt.Sprintf("config directory unavailable, using defaults: %v", err))
	}

	if dirUsable {
		_ = godotenv.Load(filepath.Join(configDir, ".env"))
	}
	_ = godotenv.Load()

	cfg := Default(configDir)
	if !dirUsable {
		cfg.ConfigPath = ""
		cfg.LogPath = ""
		cfg.Audit.Enabled = false
	}

	explicit := configPath != ""
	if explicit {
		cfg.ConfigPath = configPath
	}
	if cfg.ConfigPath != "" {
		if err := cfg.readFile(explicit); err != nil {
			if explicit {
				return nil, err
			}
			warnings = append(warnings, fmt.Sprintf("ignoring config file: %v", err))
			cfg = Default(configDir)
		}
	}

	cfg.applyEnv()

	if logPath != "" {
		cfg.LogPath = logPath
	}
	if backend != "" {
		cfg.Classifier.Backend = backend
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Warnings = warnings
	return cfg, nil
}

// readFile overlays the YAML file onto cfg. A missing file is only an error
// when the path was given explicitly.
func (c *Config) readFile(required bool) error {
	data, err := os.ReadFile(c.ConfigPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", c.ConfigPath, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := env("CLASSIFIER"); v != "" {
		c.Classifier.Backend = v
	}
	if v := env("CLASSIFIER_ENDPOINT"); v != "" {
		c.Classifier.Endpoint = v
	}
	if v := env("CLASSIFIER_MODEL"); v != "" {
		c.Classifier.Model = v
	}
	if v := env("CLASSIFIER_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Classifier.RatePerSecond = f
		}
	}
	if v := env("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := env("MEDIA_PROBE"); v != "" {
		c.MediaProbe = v
	}
	if v := env("AUDIT_LOG"); v != "" {
		c.LogPath = v
	}
	if v := env("AUDIT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Audit.Enabled = b
		}
	}
	if v := env("METRICS_FILE"); v != "" {
		c.MetricsPath = v
	}
}

// Validate rejects unknown backends and probes.
func (c *Config) Validate() error {
	c.Classifier.Backend = strings.ToLower(strings.TrimSpace(c.Classifier.Backend))
	switch c.Classifier.Backend {
	case "", BackendNone:
		c.Classifier.Backend = BackendNone
	case BackendHuggingFace, BackendGemini:
	default:
		return fmt.Errorf("unknown classifier backend %q (want none, huggingface or gemini)", c.Classifier.Backend)
	}

	c.MediaProbe = strings.ToLower(strings.TrimSpace(c.MediaProbe))
	switch c.MediaProbe {
	case "":
		c.MediaProbe = ProbeDescription
	case ProbeDescription, ProbeSysfs:
	default:
		return fmt.Errorf("unknown media probe %q (want description or sysfs)", c.MediaProbe)
	}

	if c.Classifier.RatePerSecond < 0 {
		return fmt.Errorf("classifier rate_per_second must not be negative")
	}
	return nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(envPrefix + key))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func ensureDir(path string) error {
	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		return os.MkdirAll(path, 0700)
	case err != nil:
		return err
	case !info.IsDir():
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}
