package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/gzhole/cryptadvisor/internal/advisor"
	"github.com/gzhole/cryptadvisor/internal/disk"
	"github.com/gzhole/cryptadvisor/internal/report"
)

const (
	formatJSON   = "json"
	formatPretty = "pretty"
)

var (
	analyzeFormat  string
	analyzeTimeout time.Duration
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <disk-json> [<context-json>]",
	Short: "Recommend encryption settings for one disk",
	Long: `Analyze a disk description and print one recommendation as JSON.

Each argument is JSON text, "-" to read it from stdin, or "@path" to read it
from a file. The system context defaults to {}.

Examples:
  cryptadvisor analyze '{"caption":"C:","size":512110190592,"driveType":3,"fileSystem":"NTFS","description":"SSD"}'
  cryptadvisor analyze @disk.json '{"platform":"Windows 11","uefiSecureBoot":true}'
  lsblk-to-json | cryptadvisor analyze - @context.json --format pretty`,
	Args: cobra.RangeArgs(1, 2),
	RunE: analyzeCommand,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", formatJSON, "Output format: json or pretty")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 0, "Bound the whole analysis, including the classifier call (0 = no limit)")
	rootCmd.AddCommand(analyzeCmd)
}

func analyzeCommand(cmd *cobra.Command, args []string) error {
	if analyzeFormat != formatJSON && analyzeFormat != formatPretty {
		return fmt.Errorf("unknown format %q (expected json or pretty)", analyzeFormat)
	}

	diskArg, ctxArg := args[0], "{}"
	if len(args) == 2 {
		ctxArg = args[1]
	}
	if diskArg == "-" && ctxArg == "-" {
		return errStdinTwice
	}

	diskData, err := readInput(diskArg, cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("failed to read disk info: %w", err)
	}
	ctxData, err := readInput(ctxArg, cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("failed to read system context: %w", err)
	}

	info, warnings, err := disk.ParseInfo(diskData)
	if err != nil {
		return err
	}
	sys, err := disk.ParseSystemContext(ctxData)
	if err != nil {
		return err
	}

	s, err := newSession(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.close()

	for _, w := range warnings {
		s.log.Warn(w)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if analyzeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, analyzeTimeout)
		defer cancel()
	}

	var trace advisor.Trace
	capture := advisor.ObserverFunc(func(t advisor.Trace) { trace = t })

	rec := s.newAdvisor("analyze", s.capability(ctx), capture).Analyze(ctx, info, sys)
	return writeRecommendation(cmd.OutOrStdout(), analyzeFormat, rec, trace)
}

func writeRecommendation(w io.Writer, format string, rec advisor.Recommendation, trace advisor.Trace) error {
	if format == formatPretty {
		_, err := io.WriteString(w, report.Render(trace))
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(rec)
}
