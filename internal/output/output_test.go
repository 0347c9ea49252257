package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/reviewflow/reviewflow/internal/agents"
	"github.com/reviewflow/reviewflow/internal/loader"
	"github.com/reviewflow/reviewflow/internal/models"
	"github.com/reviewflow/reviewflow/internal/pipeline"
)

func sampleResult() *pipeline.Result {
	return &pipeline.Result{
		RunID:          "run-1",
		ImprovedPrompt: "Audit the session store",
		Keywords:       []string{"session", "store"},
		CandidatePaths: []string{"src/session.go", "src/store.go"},
		Files:          []loader.File{{Path: "src/session.go", Content: "package session"}},
		Results: []pipeline.ProviderResult{
			{Provider: models.Anthropic, Output: "finding A"},
			{Provider: models.OpenAI, Output: "finding B"},
		},
		Consolidated: "merged findings",
		Meta:         pipeline.Meta{DurationMs: 1234},
	}
}

func sampleAgentRun() *agents.RunResult {
	return &agents.RunResult{
		RunID: "run-2",
		Files: []string{"main.go"},
		Agents: []agents.AgentResult{
			{Role: agents.RoleBugDetector, Provider: models.Anthropic, Model: "claude-sonnet-4-6", Output: "bug findings"},
		},
		Synthesis:  "merged report",
		Confidence: &agents.Confidence{
			Score:          80,
			Breakdown:      &agents.Breakdown{Understanding: 85, Solution: 80, SideEffects: 70},
			Recommendation: "proceed",
		},
		DurationMs: 456,
	}
}

func TestGetWriter(t *testing.T) {
	for _, format := range []string{"text", "json", "markdown"} {
		if _, err := GetWriter(format); err != nil {
			t.Errorf("GetWriter(%q) error: %v", format, err)
		}
	}
	if _, err := GetWriter("xml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestTextWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TextWriter{}).WriteResult(&buf, sampleResult()); err != nil {
		t.Fatalf("WriteResult error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"run-1", "Audit the session store", "ANTHROPIC", "merged findings", "1234ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q", want)
		}
	}
}

func TestTextWriterWarning(t *testing.T) {
	result := sampleResult()
	result.Meta.Warning = "no relevant files found"

	var buf bytes.Buffer
	if err := (&TextWriter{}).WriteResult(&buf, result); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Warning: no relevant files found") {
		t.Error("warning should surface in text output")
	}
}

func TestTextWriterAgents(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TextWriter{}).WriteAgentResult(&buf, sampleAgentRun()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"BUG-DETECTOR", "merged report", "Confidence: 80/100 — proceed", "understanding 85"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q", want)
		}
	}
}

func TestJSONWriterRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONWriter{}).WriteResult(&buf, sampleResult()); err != nil {
		t.Fatal(err)
	}
	var decoded pipeline.Result
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.RunID != "run-1" || len(decoded.Results) != 2 {
		t.Errorf("decoded result lost fields: %+v", decoded)
	}
}

func TestMarkdownWriterEscapesPaths(t *testing.T) {
	result := sampleResult()
	result.Files = []loader.File{{Path: "src/<script>.go", Content: "x"}}

	var buf bytes.Buffer
	if err := (&MarkdownWriter{}).WriteResult(&buf, result); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "<script>") {
		t.Error("file path must be escaped in markdown output")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Error("expected escaped path in markdown output")
	}
}

func TestMarkdownWriterAgents(t *testing.T) {
	var buf bytes.Buffer
	if err := (&MarkdownWriter{}).WriteAgentResult(&buf, sampleAgentRun()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "### Synthesis") {
		t.Error("markdown output missing synthesis section")
	}
	if !strings.Contains(out, "<details>") {
		t.Error("per-agent output should be collapsible")
	}
}
