package pipeline

// Stage names the phases of the standard pipeline, in execution order.
// Each stage is entered at most once per run.
type Stage string

const (
	StageValidating    Stage = "validating"
	StageImproving     Stage = "improving"
	StageSearching     Stage = "searching"
	StageLoading       Stage = "loading"
	StageRunning       Stage = "running"
	StageConsolidating Stage = "consolidating"
	StageComplete      Stage = "complete"
	StageError         Stage = "error"
)

// Progress is the payload of one progress frame.
type Progress struct {
	Stage    Stage  `json:"stage"`
	Message  string `json:"message"`
	Progress int    `json:"progress,omitempty"` // percent, 0 when unknown
}

// Frame is one event on the progress stream. Exactly one terminal frame
// (result or error) closes a stream.
type Frame struct {
	Type  string `json:"type"` // "progress", "result", or "error"
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// Sink receives pipeline frames. Implementations must not block
// indefinitely; the pipeline emits from its own goroutine.
type Sink interface {
	Emit(Frame)
}

// ProgressFrame builds a progress frame.
func ProgressFrame(stage Stage, message string, percent int) Frame {
	return Frame{Type: "progress", Data: Progress{Stage: stage, Message: message, Progress: percent}}
}

// ResultFrame builds the terminal result frame.
func ResultFrame(result any) Frame {
	return Frame{Type: "result", Data: result}
}

// ErrorFrame builds the terminal error frame.
func ErrorFrame(msg string) Frame {
	return Frame{Type: "error", Error: msg}
}
