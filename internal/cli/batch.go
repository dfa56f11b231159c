package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/pipeline"
	"github.com/ppiankov/claimcheck/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	outputDir    string
	batchTimeout time.Duration
	writeMD      bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Check many claims from a file in parallel",
	Long: `Batch evaluates claims concurrently:
- Read claims from the input file (one per line, # starts a comment)
- Evaluate claims in parallel with a configurable worker count
- Each claim fans out its own retrieval calls
- Write a JSON report per claim plus a summary.jsonl

Example:
  claimcheck batch claims.txt
  claimcheck batch claims.txt --concurrency 8 --output-dir ./reports
  claimcheck batch claims.txt --timeout 20m --md`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlag("concurrency.workers", cmd.Flags().Lookup("concurrency")); err != nil {
			return err
		}
		return bindEngineFlags(cmd, args)
	},
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().Int("concurrency", 0, "number of claims evaluated at once (default from config)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./claimcheck-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&writeMD, "md", false, "also write a Markdown report per claim")
	addEngineFlags(batchCmd)
}

// summaryLine is one row of summary.jsonl
type summaryLine struct {
	Index      int     `json:"index"`
	Claim      string  `json:"claim"`
	Verdict    string  `json:"verdict,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Path       string  `json:"path,omitempty"`
	Report     string  `json:"report,omitempty"`
	Error      string  `json:"error,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	workers := cfg.Concurrency.Workers
	if workers <= 0 {
		workers = 1
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  claimcheck batch\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	if cfg.LLM.Provider != "" {
		fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	}
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	engine, err := pipeline.Build(cfg, logger)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	processor := worker.NewBatchProcessor(engine, workers)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	lines, counts, failures := writeBatchReports(results, outputDir, writeMD)
	if err := writeSummary(filepath.Join(outputDir, "summary.jsonl"), lines); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:               %d claims\n", len(results))
	fmt.Fprintf(os.Stderr, "  TRUE:                %d\n", counts[model.VerdictTrue])
	fmt.Fprintf(os.Stderr, "  FALSE:               %d\n", counts[model.VerdictFalse])
	fmt.Fprintf(os.Stderr, "  NEEDS_VERIFICATION:  %d\n", counts[model.VerdictNeedsVerification])
	fmt.Fprintf(os.Stderr, "  Failures:            %d\n", failures)
	fmt.Fprintf(os.Stderr, "  Output:              %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// writeBatchReports writes one report file per successful claim and returns
// the summary rows, verdict counts and failure count
func writeBatchReports(results []*worker.ClaimResult, dir string, markdown bool) ([]summaryLine, map[model.Verdict]int, int) {
	lines := make([]summaryLine, 0, len(results))
	counts := make(map[model.Verdict]int)
	failures := 0

	for _, result := range results {
		line := summaryLine{Index: result.Index + 1, Claim: result.Claim}
		if result.Error != nil {
			failures++
			line.Error = result.Error.Error()
			lines = append(lines, line)
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Claim, result.Error)
			continue
		}

		report := result.Report
		name := fmt.Sprintf("claim-%03d", result.Index+1)
		jsonPath := filepath.Join(dir, name+".json")
		if err := writeReport(jsonPath, report, pipeline.RenderJSON); err != nil {
			failures++
			line.Error = err.Error()
			lines = append(lines, line)
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Claim, err)
			continue
		}
		if markdown {
			if err := writeReport(filepath.Join(dir, name+".md"), report, pipeline.RenderMarkdown); err != nil {
				fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Claim, err)
			}
		}

		counts[report.Result.Verdict]++
		line.Verdict = report.Result.Verdict.String()
		line.Confidence = report.Result.Confidence
		line.Path = string(report.Path)
		line.Report = name + ".json"
		lines = append(lines, line)
		fmt.Fprintf(os.Stderr, "✓ %s → %s (%.2f)\n", result.Claim, report.Result.Verdict, report.Result.Confidence)
	}
	return lines, counts, failures
}

func writeSummary(path string, lines []summaryLine) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create summary: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close summary: %w", closeErr)
		}
	}()

	enc := json.NewEncoder(f)
	for _, line := range lines {
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	return nil
}
