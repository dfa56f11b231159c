package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/claimcheck/internal/model"
)

// RenderJSON writes the report as indented JSON
func RenderJSON(w io.Writer, report *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// RenderMarkdown writes a human-readable report
func RenderMarkdown(w io.Writer, report *model.Report) error {
	var b strings.Builder
	res := report.Result

	fmt.Fprintf(&b, "# Claim check\n\n")
	fmt.Fprintf(&b, "> %s\n\n", report.Claim.Raw)
	fmt.Fprintf(&b, "**Verdict:** %s  \n", res.Verdict)
	fmt.Fprintf(&b, "**Confidence:** %.2f  \n", res.Confidence)
	fmt.Fprintf(&b, "**Decided by:** %s", report.Path)
	if report.Rule != "" {
		fmt.Fprintf(&b, " (`%s`)", report.Rule)
	}
	fmt.Fprintf(&b, "\n\n%s\n", res.Explanation)

	if report.Path == model.PathStrongSignal || report.Path == model.PathReconciled {
		a := report.Assessment
		b.WriteString("\n## Signals\n\n")
		b.WriteString("| Signal | Value |\n|---|---|\n")
		fmt.Fprintf(&b, "| Truth score | %.2f |\n", a.TruthScore)
		fmt.Fprintf(&b, "| Supporting / refuting / neutral | %d / %d / %d |\n", a.Supports, a.Refutes, a.Neutral)
		fmt.Fprintf(&b, "| Cross-source agreement | %.2f |\n", report.Agreement)
		fmt.Fprintf(&b, "| Average credibility | %.2f |\n", report.AvgCredibility)
		fmt.Fprintf(&b, "| Calibrated confidence | %.2f |\n", report.Calibrated)
		if len(report.Fallacies) > 0 {
			fmt.Fprintf(&b, "| Framing patterns | %s |\n", strings.Join(report.Fallacies, ", "))
		}
		st := report.Retrieval
		fmt.Fprintf(&b, "| Calls (failed / skipped / cached) | %d (%d / %d / %d) |\n", st.Calls, st.Failed, st.Skipped, st.CacheHits)
		fmt.Fprintf(&b, "| Evidence (unique / relevant) | %d / %d |\n", st.Unique, st.Relevant)
	}

	if len(res.Citations) > 0 {
		b.WriteString("\n## Citations\n\n")
		for i, c := range res.Citations {
			fmt.Fprintf(&b, "%d. [%s](%s) (%s, credibility %.2f)\n", i+1, markdownText(c.Title), c.URL, c.Source, c.Credibility)
		}
	}

	if n := report.Narrative; n != nil {
		fmt.Fprintf(&b, "\n## Narrative\n\n%s\n\n_Written by %s/%s from the citations above; it does not affect the verdict._\n", n.Text, n.Provider, n.Model)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func markdownText(s string) string {
	if s == "" {
		return "untitled"
	}
	return strings.NewReplacer("[", "\\[", "]", "\\]").Replace(s)
}
