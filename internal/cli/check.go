package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	outJSON      string
	outMD        string
	checkTimeout time.Duration
	noCache      bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <claim>",
	Short: "Check a single claim and print the verdict",
	Long: `Check evaluates one factual claim:
- Decide trivial claims from the built-in common-sense rules
- Expand the claim into search queries
- Retrieve evidence from the enabled sources in parallel
- Score support, refutation, agreement and source credibility
- Print the verdict, confidence and citations

Example:
  claimcheck check "Narendra Modi is American"
  claimcheck check "Coffee reduces the risk of liver disease" --news
  claimcheck check "The Eiffel Tower is in Berlin" --json report.json --md report.md
  claimcheck check "Water boils at 100 degrees" --llm openai`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: bindEngineFlags,
	RunE:    runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&outJSON, "json", "", "write the full report as JSON to this path (- for stdout)")
	checkCmd.Flags().StringVar(&outMD, "md", "", "write a Markdown report to this path")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 2*time.Minute, "overall timeout for the check")
	addEngineFlags(checkCmd)
}

// addEngineFlags defines the flags shared by every command that builds an engine
func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().Duration("call-timeout", 0, "timeout for each retrieval call (default from config)")
	cmd.Flags().Bool("news", false, "also search the news index")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the retrieval cache")
	cmd.Flags().String("ua", "", "HTTP User-Agent")
	cmd.Flags().String("http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	cmd.Flags().String("https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
	cmd.Flags().String("rules", "", "YAML fact rule table replacing the built-in one")
	cmd.Flags().String("llm", "", "narrative provider (openai, ollama); empty disables")
	cmd.Flags().String("llm-model", "", "narrative model name")
}

// bindEngineFlags binds the running command's flags to config keys. Binding
// happens at run time because several commands share the same keys.
func bindEngineFlags(cmd *cobra.Command, _ []string) error {
	bindings := map[string]string{
		"call-timeout": "http.timeout",
		"news":         "retrieval.news.enabled",
		"ua":           "http.user_agent",
		"http-proxy":   "http.http_proxy",
		"https-proxy":  "http.https_proxy",
		"rules":        "facts.rules_file",
		"llm":          "llm.provider",
		"llm-model":    "llm.model",
	}
	for flag, key := range bindings {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			continue
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind --%s: %w", flag, err)
		}
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")

	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	engine, err := pipeline.Build(cfg, logger)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), checkTimeout)
	defer cancel()

	report, err := engine.Evaluate(ctx, text)
	if err != nil {
		return fmt.Errorf("check claim: %w", err)
	}

	if outJSON == "-" {
		return pipeline.RenderJSON(cmd.OutOrStdout(), report)
	}
	printReport(cmd.OutOrStdout(), report)

	if outJSON != "" {
		if err := writeReport(outJSON, report, pipeline.RenderJSON); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ JSON report: %s\n", outJSON)
	}
	if outMD != "" {
		if err := writeReport(outMD, report, pipeline.RenderMarkdown); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Markdown report: %s\n", outMD)
	}
	return nil
}

// printReport writes the human-readable verdict
func printReport(w io.Writer, report *model.Report) {
	res := report.Result
	fmt.Fprintf(w, "Claim:       %s\n", report.Claim.Raw)
	fmt.Fprintf(w, "Verdict:     %s\n", res.Verdict)
	fmt.Fprintf(w, "Confidence:  %.2f\n", res.Confidence)
	if report.Rule != "" {
		fmt.Fprintf(w, "Decided by:  %s (%s)\n", report.Path, report.Rule)
	} else {
		fmt.Fprintf(w, "Decided by:  %s\n", report.Path)
	}
	fmt.Fprintf(w, "\n%s\n", res.Explanation)

	if len(res.Citations) > 0 {
		fmt.Fprintf(w, "\nCitations:\n")
		for i, c := range res.Citations {
			fmt.Fprintf(w, "  %d. %s\n", i+1, c.Title)
			fmt.Fprintf(w, "     %s (%s, credibility %.2f)\n", c.URL, c.Source, c.Credibility)
		}
	}

	if n := report.Narrative; n != nil {
		fmt.Fprintf(w, "\nSummary (%s/%s):\n%s\n", n.Provider, n.Model, n.Text)
	}
}

// writeReport renders report into the file at path
func writeReport(path string, report *model.Report, render func(io.Writer, *model.Report) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()
	if err := render(f, report); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
