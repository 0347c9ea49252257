package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/reviewflow/reviewflow/internal/agents"
	"github.com/reviewflow/reviewflow/internal/pipeline"
	"github.com/reviewflow/reviewflow/internal/sanitize"
)

// MarkdownWriter outputs a PR-comment-friendly markdown report. Per-source
// outputs go into collapsible sections; only the consolidated review is
// shown expanded.
type MarkdownWriter struct{}

func (m *MarkdownWriter) WriteResult(w io.Writer, result *pipeline.Result) error {
	fmt.Fprintf(w, "## Reviewflow\n\n")
	fmt.Fprintf(w, "**Prompt:** %s\n\n", result.ImprovedPrompt)
	if result.Meta.Warning != "" {
		fmt.Fprintf(w, "> :warning: %s\n\n", result.Meta.Warning)
	}

	if len(result.Files) > 0 {
		fmt.Fprintf(w, "<details>\n<summary>%d files reviewed</summary>\n\n", len(result.Files))
		for _, f := range result.Files {
			fmt.Fprintf(w, "- `%s`\n", sanitize.EscapeForDisplay(f.Path))
		}
		fmt.Fprintf(w, "\n</details>\n\n")
	}

	for _, r := range result.Results {
		fmt.Fprintf(w, "<details>\n<summary>%s</summary>\n\n%s\n\n</details>\n\n",
			strings.ToUpper(string(r.Provider)), r.Output)
	}

	fmt.Fprintf(w, "### Consolidated review\n\n%s\n\n", result.Consolidated)
	fmt.Fprintf(w, "*Reviewed in %dms (run `%s`)*\n", result.Meta.DurationMs, result.RunID)
	return nil
}

func (m *MarkdownWriter) WriteAgentResult(w io.Writer, run *agents.RunResult) error {
	fmt.Fprintf(w, "## Reviewflow agents\n\n")

	if len(run.Files) > 0 {
		fmt.Fprintf(w, "<details>\n<summary>%d files reviewed</summary>\n\n", len(run.Files))
		for _, p := range run.Files {
			fmt.Fprintf(w, "- `%s`\n", sanitize.EscapeForDisplay(p))
		}
		fmt.Fprintf(w, "\n</details>\n\n")
	}

	for _, a := range run.Agents {
		fmt.Fprintf(w, "<details>\n<summary>%s (%s/%s)</summary>\n\n%s\n\n</details>\n\n",
			strings.ToUpper(string(a.Role)), a.Provider, a.Model, a.Output)
	}

	fmt.Fprintf(w, "### Synthesis\n\n%s\n\n", run.Synthesis)

	if run.Confidence != nil {
		fmt.Fprintf(w, "**Confidence:** %d/100 — **%s**\n\n", run.Confidence.Score, run.Confidence.Recommendation)
		if b := run.Confidence.Breakdown; b != nil {
			fmt.Fprintf(w, "| Understanding | Solution | Side effects |\n|---|---|---|\n| %d | %d | %d |\n\n",
				b.Understanding, b.Solution, b.SideEffects)
		}
	}
	fmt.Fprintf(w, "*Reviewed in %dms (run `%s`)*\n", run.DurationMs, run.RunID)
	return nil
}
