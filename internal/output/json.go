package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/reviewflow/reviewflow/internal/agents"
	"github.com/reviewflow/reviewflow/internal/pipeline"
)

// JSONWriter outputs the full result as JSON.
type JSONWriter struct{}

func (j *JSONWriter) WriteResult(w io.Writer, result *pipeline.Result) error {
	return writeIndented(w, result)
}

func (j *JSONWriter) WriteAgentResult(w io.Writer, run *agents.RunResult) error {
	return writeIndented(w, run)
}

func writeIndented(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	if _, err = w.Write(data); err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}
