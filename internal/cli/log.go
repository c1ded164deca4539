package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gzhole/cryptadvisor/internal/config"
	"github.com/gzhole/cryptadvisor/internal/logger"
)

var (
	logFilterAlgorithm string
	logFilterFailed    bool
	logLast            int
	logSummary         bool
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View and filter the audit log",
	Long: `View the cryptadvisor audit log with filtering and summary options.

Examples:
  cryptadvisor log                          # Show all entries
  cryptadvisor log --last 20                # Show last 20 entries
  cryptadvisor log --algorithm Serpent      # Show only Serpent recommendations
  cryptadvisor log --failed                 # Show only failed analyses
  cryptadvisor log --summary                # Show summary stats`,
	Args: cobra.NoArgs,
	RunE: logCommand,
}

func init() {
	logCmd.Flags().StringVar(&logFilterAlgorithm, "algorithm", "", "Filter by recommended algorithm (AES-256, Serpent, AES-Serpent-Twofish, AI Error)")
	logCmd.Flags().BoolVar(&logFilterFailed, "failed", false, "Show only failed analyses")
	logCmd.Flags().IntVar(&logLast, "last", 0, "Show last N entries")
	logCmd.Flags().BoolVar(&logSummary, "summary", false, "Show summary statistics")
	rootCmd.AddCommand(logCmd)
}

func logCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath, logPath, classifierName)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	out := cmd.OutOrStdout()

	events, err := readAuditLog(cfg.LogPath)
	if err != nil {
		return fmt.Errorf("failed to read audit log: %w", err)
	}

	if len(events) == 0 {
		fmt.Fprintln(out, "No audit log entries found.")
		return nil
	}

	filtered := filterEvents(events)

	if logLast > 0 && logLast < len(filtered) {
		filtered = filtered[len(filtered)-logLast:]
	}

	if logSummary {
		printSummary(out, events)
		return nil
	}

	printEvents(out, filtered)
	return nil
}

func readAuditLog(path string) ([]logger.AuditEvent, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var events []logger.AuditEvent
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), maxBatchLine)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		var event logger.AuditEvent
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			continue // skip malformed lines
		}
		events = append(events, event)
	}
	return events, scanner.Err()
}

func filterEvents(events []logger.AuditEvent) []logger.AuditEvent {
	if logFilterAlgorithm == "" && !logFilterFailed {
		return events
	}

	var filtered []logger.AuditEvent
	for _, e := range events {
		if logFilterAlgorithm != "" && !strings.EqualFold(e.Algorithm, logFilterAlgorithm) {
			continue
		}
		if logFilterFailed && !e.Failed() {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

func printEvents(out io.Writer, events []logger.AuditEvent) {
	for _, e := range events {
		fmt.Fprintf(out, "%s %s %s -> %s (confidence %.2f, password %d)\n",
			outcomeIcon(e), formatTimestamp(e.Timestamp), e.Disk, e.Algorithm, e.Confidence, e.PasswordStrength)

		if e.SizeGB > 0 || e.Media != "" {
			fmt.Fprintf(out, "     Volume: %.1f GB %s on %s\n", e.SizeGB, e.Media, platformOrUnknown(e.Platform))
		}
		if len(e.Adjustments) > 0 {
			fmt.Fprintf(out, "     Adjustments: %s\n", strings.Join(e.Adjustments, ", "))
		}
		if e.Classifier != "" {
			fmt.Fprintf(out, "     Classifier: %s (%s)", e.Classifier, e.ClassifierOutcome)
			if e.TopLabel != "" {
				fmt.Fprintf(out, " top=%s %.2f", e.TopLabel, e.TopScore)
			}
			fmt.Fprintln(out)
		}
		if e.Error != "" {
			fmt.Fprintf(out, "     Error: %s\n", e.Error)
		}
		if e.Replay != "" {
			fmt.Fprintf(out, "     Replay: %s\n", e.Replay)
		}
		fmt.Fprintln(out)
	}
}

func printSummary(out io.Writer, all []logger.AuditEvent) {
	counts := map[string]int{}
	outcomes := map[string]int{}
	errorCount := 0
	var totalMs int64

	for _, e := range all {
		counts[e.Algorithm]++
		if e.ClassifierOutcome != "" {
			outcomes[e.ClassifierOutcome]++
		}
		if e.Failed() {
			errorCount++
		}
		totalMs += e.RunTimeMs
	}

	fmt.Fprintln(out, "═══════════════════════════════════════════")
	fmt.Fprintln(out, "  cryptadvisor Audit Summary")
	fmt.Fprintln(out, "═══════════════════════════════════════════")
	fmt.Fprintf(out, "  Total analyses:       %d\n", len(all))
	fmt.Fprintf(out, "  AES-256:              %d\n", counts["AES-256"])
	fmt.Fprintf(out, "  Serpent:              %d\n", counts["Serpent"])
	fmt.Fprintf(out, "  AES-Serpent-Twofish:  %d\n", counts["AES-Serpent-Twofish"])
	fmt.Fprintf(out, "  Errors:               %d\n", errorCount)
	fmt.Fprintf(out, "  Avg run time:         %d ms\n", totalMs/int64(len(all)))
	fmt.Fprintln(out, "═══════════════════════════════════════════")

	fmt.Fprintf(out, "  First event:     %s\n", formatTimestamp(all[0].Timestamp))
	fmt.Fprintf(out, "  Last event:      %s\n", formatTimestamp(all[len(all)-1].Timestamp))

	if len(outcomes) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Classifier outcomes:")
		keys := make([]string, 0, len(outcomes))
		for k := range outcomes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(out, "    %-12s %d\n", k, outcomes[k])
		}
	}

	failed := []logger.AuditEvent{}
	for _, e := range all {
		if e.Failed() {
			failed = append(failed, e)
		}
	}
	if len(failed) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Failed analyses:")
		limit := min(len(failed), 10)
		for _, e := range failed[len(failed)-limit:] {
			fmt.Fprintf(out, "    %s %s: %s\n", formatTimestamp(e.Timestamp), e.Disk, e.Error)
		}
	}

	fmt.Fprintln(out)
}

func outcomeIcon(e logger.AuditEvent) string {
	switch {
	case e.Failed():
		return "\xf0\x9f\x9b\x91" // stop sign
	case e.ClassifierOutcome == "merged":
		return "\xf0\x9f\xa4\x96" // robot
	default:
		return "\xe2\x9c\x85" // check mark
	}
}

func platformOrUnknown(p string) string {
	if p == "" {
		return "Unknown OS"
	}
	return p
}

func formatTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
