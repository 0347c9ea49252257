package pipeline

import (
	"fmt"
	"strings"

	"github.com/reviewflow/reviewflow/internal/loader"
	"github.com/reviewflow/reviewflow/internal/sanitize"
)

// sanitizeGoal neutralizes role-prefix and injection phrasing in the user
// goal before it is embedded in any model prompt.
func sanitizeGoal(goal string) string {
	return sanitize.Text(goal, maxGoalLen)
}

// DefaultSystemPrompt is used when a request carries no template of its
// own.
const DefaultSystemPrompt = `You are a senior software engineer reviewing a repository to produce a concrete, actionable plan for a stated goal.

Rules:
1. Ground every statement in the provided file contents. Do not invent files or APIs.
2. Be concise and specific: name files, functions, and line-level changes where possible.
3. Call out risks, edge cases, and anything the goal underspecifies.
4. When files are missing from the context, say what else you would need to see.`

const improverSystemPrompt = `You refine raw user goals into precise review prompts and search parameters.

You MUST respond with ONLY a JSON object. No markdown, no explanation, no preamble.

The object must have this exact structure:
{
  "improved_user_prompt": "A clear, specific restatement of the user's goal",
  "search": {
    "keywords": ["lowercase", "search", "terms"],
    "max_files": 12
  }
}`

// buildImproverUserPrompt asks one model to rewrite the goal and propose
// repository search parameters.
func buildImproverUserPrompt(systemPrompt, goal string) string {
	var b strings.Builder
	b.WriteString("The review will run with this system prompt:\n\n")
	b.WriteString(systemPrompt)
	b.WriteString("\n\nRewrite the user goal below into an improved prompt, and propose search keywords plus a max file count for locating the relevant source files.\n")
	b.WriteString("\n--- BEGIN GOAL ---\n")
	b.WriteString(sanitizeGoal(goal))
	b.WriteString("\n--- END GOAL ---\n")
	return b.String()
}

// BuildFileContext renders loaded files for inclusion in a user prompt:
// each file gets a path-comment header, files are joined with blank lines.
func BuildFileContext(files []loader.File) string {
	if len(files) == 0 {
		return ""
	}
	sections := make([]string, len(files))
	for i, f := range files {
		sections[i] = fmt.Sprintf("// File: %s\n\n%s", f.Path, f.Content)
	}
	return strings.Join(sections, "\n\n")
}

// buildRunnerUserPrompt is the final prompt every provider receives in the
// running stage.
func buildRunnerUserPrompt(improvedPrompt string, files []loader.File) string {
	ctx := BuildFileContext(files)
	if ctx == "" {
		return improvedPrompt
	}
	var b strings.Builder
	b.WriteString(improvedPrompt)
	b.WriteString("\n\n--- BEGIN REPOSITORY CONTEXT ---\n")
	b.WriteString(ctx)
	b.WriteString("\n--- END REPOSITORY CONTEXT ---\n")
	return b.String()
}

// buildConsolidationPrompt merges the independent provider outputs into a
// single synthesis request. Each result is labeled by provider so the
// synthesizer can attribute disagreements.
func buildConsolidationPrompt(results []ProviderResult) string {
	var b strings.Builder
	b.WriteString("You are given independent reviews of the same goal from multiple models. ")
	b.WriteString("Merge them into one concise, actionable plan. Resolve conflicts between the reviews, ")
	b.WriteString("deduplicate overlapping points, and introduce no new opinions beyond what the inputs contain.\n")
	for _, r := range results {
		fmt.Fprintf(&b, "\n--- REVIEW FROM %s ---\n%s\n", strings.ToUpper(string(r.Provider)), r.Output)
	}
	return b.String()
}
