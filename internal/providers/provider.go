package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/reviewflow/reviewflow/internal/models"
)

// callTimeout bounds every provider round trip. Each call carries its own
// deadline; aborting one call never cancels its siblings.
const callTimeout = 60 * time.Second

// Request contains the data sent to an LLM for completion.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
}

// Response contains the raw completion from an LLM.
type Response struct {
	Content    string
	TokensUsed int
}

// Completer is the provider abstraction interface. Implementations must
// fail distinguishably on HTTP error status, empty completion body, and
// timeout (see errors.go).
type Completer interface {
	Complete(ctx context.Context, req Request) (Response, error)
	Name() string
}

// Factory creates a Completer for a provider and resolved model id. Tests
// substitute fakes through this type.
type Factory func(provider models.Provider, model string) (Completer, error)

// New creates a provider client by id.
func New(provider models.Provider, model string) (Completer, error) {
	switch provider {
	case models.Anthropic:
		return NewAnthropic(model)
	case models.OpenAI:
		return NewOpenAI(model)
	case models.Gemini:
		return NewGemini(model)
	case models.Ollama:
		return NewOllama(model)
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
