package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/reviewflow/reviewflow/internal/loader"
	"github.com/reviewflow/reviewflow/internal/models"
	"github.com/reviewflow/reviewflow/internal/repo"
	"github.com/reviewflow/reviewflow/internal/sanitize"
)

// maxGoalLen bounds the user goal before any stage starts.
const maxGoalLen = 20000

// StageOverride pins one pipeline stage (improver or consolidator) to a
// specific provider and model instead of the request defaults.
type StageOverride struct {
	Provider models.Provider `json:"provider,omitempty"`
	Model    string          `json:"model,omitempty"`
}

// Request describes one standard review pipeline run.
type Request struct {
	Owner        string                     `json:"owner"`
	Repo         string                     `json:"repo"`
	Ref          string                     `json:"ref"`
	SystemPrompt string                     `json:"systemPrompt,omitempty"`
	Goal         string                     `json:"goal"`
	Providers    []models.Provider          `json:"providers"`
	Selections   map[models.Provider]string `json:"models,omitempty"`
	Improver     StageOverride              `json:"improver,omitempty"`
	Consolidator StageOverride              `json:"consolidator,omitempty"`
}

// ValidationError rejects a malformed request before any stage starts.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidation checks if an error is a request validation failure.
func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

// Validate checks the request shape: repository identifier, goal, provider
// ids, and stage overrides.
func (r *Request) Validate() error {
	if r.Owner == "" || r.Repo == "" {
		return validationErrorf("repository identifier must have owner and name")
	}
	if r.Goal == "" {
		return validationErrorf("goal must not be empty")
	}
	if err := sanitize.ValidateLength(r.Goal, maxGoalLen); err != nil {
		return validationErrorf("goal too long: %v", err)
	}
	if len(r.Providers) == 0 {
		return validationErrorf("at least one provider is required")
	}
	for _, p := range r.Providers {
		if !models.Known(string(p)) {
			return validationErrorf("unknown provider: %s", p)
		}
	}
	for _, o := range []StageOverride{r.Improver, r.Consolidator} {
		if o.Provider != "" && !models.Known(string(o.Provider)) {
			return validationErrorf("unknown provider: %s", o.Provider)
		}
	}
	return nil
}

// ProviderResult is the output of one provider call. Result order always
// matches the request's provider order, not completion order.
type ProviderResult struct {
	Provider models.Provider `json:"provider"`
	Output   string          `json:"output"`
}

// Meta carries non-fatal run annotations. Warning is set when the pipeline
// degraded gracefully instead of failing.
type Meta struct {
	Warning    string `json:"warning,omitempty"`
	DurationMs int64  `json:"durationMs"`
}

// Result is the terminal aggregate of a standard pipeline run. Immutable
// once constructed.
type Result struct {
	RunID          string           `json:"runId"`
	ImprovedPrompt string           `json:"improvedPrompt"`
	Keywords       []string         `json:"keywords"`
	CandidatePaths []string         `json:"candidatePaths"`
	Files          []loader.File    `json:"files"`
	Results        []ProviderResult `json:"results"`
	Consolidated   string           `json:"consolidated"`
	Meta           Meta             `json:"meta"`
}

// Source is the slice of the repository client the standard pipeline
// needs.
type Source interface {
	GetTree(ctx context.Context, ref string) ([]repo.TreeEntry, error)
	GetFile(ctx context.Context, path, ref string) (string, error)
}
