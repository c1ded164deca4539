package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/gzhole/cryptadvisor/internal/classifier"
	"github.com/gzhole/cryptadvisor/internal/config"
	"github.com/gzhole/cryptadvisor/internal/redact"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cryptadvisor configuration, classifier availability and audit log",
	Long: `Check how cryptadvisor is configured: which config file is used, whether
the classifier backend is available, and where audit and metrics files go.

  cryptadvisor status`,
	Args: cobra.NoArgs,
	RunE: statusCommand,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func statusCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath, logPath, classifierName)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "═══════════════════════════════════════════════════════")
	fmt.Fprintln(out, "  cryptadvisor Status")
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════")
	fmt.Fprintln(out)

	binPath, err := os.Executable()
	if err != nil {
		binPath = "unknown"
	}
	fmt.Fprintf(out, "  Binary:    %s (%s)\n", binPath, Version)
	fmt.Fprintf(out, "  Config:    %s\n", cfg.ConfigDir)
	checkFile(out, "Config file", cfg.ConfigPath)
	for _, w := range cfg.Warnings {
		fmt.Fprintf(out, "  ⚠️  %s\n", w)
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "─── Classifier ────────────────────────────────────────")
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	c := classifier.Resolve(ctx, cfg.Classifier)
	icon := "❌"
	if _, ok := c.Classifier(); ok {
		icon = "✅"
	}
	fmt.Fprintf(out, "  %s Backend:  %s\n", icon, cfg.Classifier.Backend)
	fmt.Fprintf(out, "     Status:   %s\n", c.Describe())
	if cfg.Classifier.Model != "" {
		fmt.Fprintf(out, "     Model:    %s\n", cfg.Classifier.Model)
	}
	if cfg.Classifier.Endpoint != "" {
		fmt.Fprintf(out, "     Endpoint: %s\n", redact.Redact(cfg.Classifier.Endpoint))
	}
	fmt.Fprintf(out, "     Batch:    cache %d, %.1f req/s (burst %d)\n",
		cfg.Classifier.CacheSize, cfg.Classifier.RatePerSecond, cfg.Classifier.Burst)
	fmt.Fprintf(out, "  Media probe: %s\n", cfg.MediaProbe)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "─── Output files ──────────────────────────────────────")
	if cfg.Audit.Enabled {
		checkFile(out, "Audit log", cfg.LogPath)
	} else {
		fmt.Fprintln(out, "  ⚪ Audit log:   disabled")
	}
	if cfg.MetricsPath != "" {
		checkFile(out, "Metrics", cfg.MetricsPath)
	} else {
		fmt.Fprintln(out, "  ⚪ Metrics:     disabled")
	}
	fmt.Fprintln(out)

	if env := relevantEnv(); len(env) > 0 {
		fmt.Fprintln(out, "─── Environment ───────────────────────────────────────")
		for _, kv := range redact.RedactEnvVars(env) {
			fmt.Fprintf(out, "  %s\n", kv)
		}
		fmt.Fprintln(out)
	}
	return nil
}

func checkFile(out io.Writer, name, path string) {
	if path == "" {
		fmt.Fprintf(out, "  ⚪ %-12s not set\n", name+":")
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		fmt.Fprintf(out, "  ⚪ %-12s %s (not created yet)\n", name+":", path)
		return
	}
	fmt.Fprintf(out, "  ✅ %-12s %s (%s, modified %s)\n", name+":", path,
		humanize.Bytes(uint64(info.Size())), humanize.Time(info.ModTime()))
}

// relevantEnv lists the variables that influence configuration.
func relevantEnv() []string {
	var env []string
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		switch {
		case strings.HasPrefix(name, "CRYPTADVISOR_"),
			name == "HF_TOKEN", name == "HUGGINGFACEHUB_API_TOKEN",
			name == "GEMINI_API_KEY", name == "GOOGLE_API_KEY":
			env = append(env, kv)
		}
	}
	return env
}
