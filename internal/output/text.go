package output

import (
	"io"
	"strings"

	"github.com/reviewflow/reviewflow/internal/agents"
	"github.com/reviewflow/reviewflow/internal/pipeline"
)

// TextWriter outputs a human-readable text report.
type TextWriter struct{}

func (t *TextWriter) WriteResult(w io.Writer, result *pipeline.Result) error {
	ew := &errWriter{w: w}

	ew.printf("Reviewflow — run %s\n", result.RunID)
	ew.println(strings.Repeat("─", 60))
	ew.printf("Prompt: %s\n", result.ImprovedPrompt)
	if len(result.Keywords) > 0 {
		ew.printf("Keywords: %s\n", strings.Join(result.Keywords, ", "))
	}
	ew.printf("Files: %d loaded of %d candidates\n", len(result.Files), len(result.CandidatePaths))
	if result.Meta.Warning != "" {
		ew.printf("Warning: %s\n", result.Meta.Warning)
	}
	ew.println(strings.Repeat("─", 60))

	for _, r := range result.Results {
		ew.printf("\n[%s]\n", strings.ToUpper(string(r.Provider)))
		ew.println(r.Output)
	}

	ew.printf("\n%s\n", strings.Repeat("═", 60))
	ew.println("CONSOLIDATED REVIEW")
	ew.println(strings.Repeat("═", 60))
	ew.println(result.Consolidated)
	ew.printf("\nCompleted in %dms\n", result.Meta.DurationMs)

	return ew.err
}

func (t *TextWriter) WriteAgentResult(w io.Writer, run *agents.RunResult) error {
	ew := &errWriter{w: w}

	ew.printf("Reviewflow agents — run %s\n", run.RunID)
	ew.println(strings.Repeat("─", 60))
	ew.printf("Files reviewed: %d\n", len(run.Files))
	ew.println(strings.Repeat("─", 60))

	for _, a := range run.Agents {
		ew.printf("\n[%s via %s/%s]\n", strings.ToUpper(string(a.Role)), a.Provider, a.Model)
		ew.println(a.Output)
	}

	ew.printf("\n%s\n", strings.Repeat("═", 60))
	ew.println("SYNTHESIS")
	ew.println(strings.Repeat("═", 60))
	ew.println(run.Synthesis)

	if run.Confidence != nil {
		ew.printf("\nConfidence: %d/100 — %s\n", run.Confidence.Score, run.Confidence.Recommendation)
		if b := run.Confidence.Breakdown; b != nil {
			ew.printf("  understanding %d, solution %d, side effects %d\n", b.Understanding, b.Solution, b.SideEffects)
		}
	}
	ew.printf("\nCompleted in %dms\n", run.DurationMs)

	return ew.err
}
