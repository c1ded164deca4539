package cli

import (
	"github.com/spf13/cobra"
)

var (
	configPath     string
	logPath        string
	classifierName string
	verbose        bool
)

var rootCmd = &cobra.Command{
	Use:   "cryptadvisor",
	Short: "cryptadvisor - Encryption settings advisor for storage volumes",
	Long: `cryptadvisor recommends volume-encryption settings (cipher, password
strength, USB key file, hidden volume) for a disk described as JSON by a host
application. The recommendation is printed to stdout as a single JSON object;
diagnostics go to stderr.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config YAML file (default: ~/.cryptadvisor/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "", "Path to audit log file (default: ~/.cryptadvisor/audit.jsonl)")
	rootCmd.PersistentFlags().StringVar(&classifierName, "classifier", "", "Classifier backend: none, huggingface or gemini (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug diagnostics on stderr")
}

func Execute() error {
	return rootCmd.Execute()
}
