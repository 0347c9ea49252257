package output

import (
	"fmt"
	"io"

	"github.com/reviewflow/reviewflow/internal/agents"
	"github.com/reviewflow/reviewflow/internal/pipeline"
)

// Writer renders run results in a specific format.
type Writer interface {
	WriteResult(w io.Writer, result *pipeline.Result) error
	WriteAgentResult(w io.Writer, run *agents.RunResult) error
}

// GetWriter returns a writer for the specified format.
func GetWriter(format string) (Writer, error) {
	switch format {
	case "text":
		return &TextWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	case "markdown":
		return &MarkdownWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
