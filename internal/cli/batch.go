package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gzhole/cryptadvisor/internal/advisor"
	"github.com/gzhole/cryptadvisor/internal/classifier"
	"github.com/gzhole/cryptadvisor/internal/disk"
)

const maxBatchLine = 4 * 1024 * 1024

var (
	batchInput   string
	batchWorkers int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Analyze many disks from a JSON Lines file",
	Long: `Read one {"disk":{...},"context":{...}} object per line and print one
recommendation per line, in input order.

Malformed lines are reported on stderr and skipped; the command then exits
non-zero after the remaining lines have been analyzed. Classifier results are
cached by prompt and calls are rate limited (see classifier.rate_per_second).

Examples:
  cryptadvisor batch --input fleet.jsonl
  cat fleet.jsonl | cryptadvisor batch --workers 8`,
	Args: cobra.NoArgs,
	RunE: batchCommand,
}

func init() {
	batchCmd.Flags().StringVar(&batchInput, "input", "-", "JSON Lines input file (- for stdin)")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", runtime.NumCPU(), "Number of concurrent analyses")
	rootCmd.AddCommand(batchCmd)
}

type batchLine struct {
	Disk    json.RawMessage `json:"disk"`
	Context json.RawMessage `json:"context"`
}

type batchJob struct {
	line     int
	info     disk.Info
	sys      disk.SystemContext
	warnings []string
	err      error
}

func batchCommand(cmd *cobra.Command, args []string) error {
	in := cmd.InOrStdin()
	if batchInput != "" && batchInput != "-" {
		f, err := os.Open(batchInput)
		if err != nil {
			return fmt.Errorf("failed to open batch input: %w", err)
		}
		defer f.Close()
		in = f
	}

	jobs, err := readBatch(in)
	if err != nil {
		return fmt.Errorf("failed to read batch input: %w", err)
	}

	s, err := newSession(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	c, err := classifier.ForBatch(s.capability(ctx), s.cfg.Classifier)
	if err != nil {
		return fmt.Errorf("failed to set up classifier cache: %w", err)
	}
	adv := s.newAdvisor("batch", c)

	results := make([]*advisor.Recommendation, len(jobs))
	malformed := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(batchWorkers, 1))
	for i, job := range jobs {
		if job.err != nil {
			malformed++
			s.log.Warn("skipping malformed batch line", zap.Int("line", job.line), zap.Error(job.err))
			continue
		}
		for _, w := range job.warnings {
			s.log.Warn(w, zap.Int("line", job.line))
		}
		g.Go(func() error {
			rec := adv.Analyze(gctx, job.info, job.sys)
			results[i] = &rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	for _, rec := range results {
		if rec == nil {
			continue
		}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}

	if malformed > 0 {
		return fmt.Errorf("%d of %d batch lines were malformed", malformed, len(jobs))
	}
	return nil
}

// readBatch parses every non-blank line. A bad line becomes a job carrying
// its error so the remaining lines still run.
func readBatch(r io.Reader) ([]batchJob, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxBatchLine)

	var jobs []batchJob
	n := 0
	for scanner.Scan() {
		n++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		jobs = append(jobs, parseBatchLine(n, raw))
	}
	return jobs, scanner.Err()
}

func parseBatchLine(n int, raw []byte) batchJob {
	job := batchJob{line: n}

	var line batchLine
	if err := json.Unmarshal(raw, &line); err != nil {
		job.err = fmt.Errorf("%w: %v", disk.ErrInvalidInput, err)
		return job
	}
	if len(line.Disk) == 0 {
		job.err = fmt.Errorf("%w: missing \"disk\" object", disk.ErrInvalidInput)
		return job
	}

	job.info, job.warnings, job.err = disk.ParseInfo(line.Disk)
	if job.err != nil {
		return job
	}
	job.sys, job.err = disk.ParseSystemContext(line.Context)
	return job
}
