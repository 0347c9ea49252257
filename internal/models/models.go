package models

// Provider identifies an LLM provider. The set is closed: requests naming
// anything else are rejected during validation.
type Provider string

const (
	Anthropic Provider = "anthropic"
	OpenAI    Provider = "openai"
	Gemini    Provider = "gemini"
	Ollama    Provider = "ollama"
)

// All lists every supported provider in canonical order.
var All = []Provider{Anthropic, OpenAI, Gemini, Ollama}

// Known reports whether name is a supported provider id.
func Known(name string) bool {
	switch Provider(name) {
	case Anthropic, OpenAI, Gemini, Ollama:
		return true
	}
	return false
}

// Catalog holds the per-provider model allowlists and defaults. Allowlists
// are immutable after construction; a Catalog is safe for concurrent use.
type Catalog struct {
	allowed  map[Provider][]string
	defaults map[Provider]string
	// open providers have no reliable enumeration; any requested model id
	// is passed through unchanged.
	open map[Provider]bool
}

// NewCatalog returns the fixed catalog of known models.
func NewCatalog() *Catalog {
	return &Catalog{
		allowed: map[Provider][]string{
			Anthropic: {
				"claude-sonnet-4-6",
				"claude-opus-4-6",
				"claude-haiku-4-5",
			},
			OpenAI: {
				"gpt-5.3-codex",
				"gpt-5.2-codex",
				"gpt-5.2",
				"gpt-4.1-mini",
				"o3-mini",
			},
			Gemini: {
				"gemini-3-flash-preview",
				"gemini-3-pro-preview",
				"gemini-2.5-flash",
				"gemini-2.5-pro",
			},
			Ollama: {
				"llama3.3",
				"qwen2.5-coder",
				"deepseek-coder-v2",
			},
		},
		defaults: map[Provider]string{
			Anthropic: "claude-sonnet-4-6",
			OpenAI:    "gpt-5.2",
			Gemini:    "gemini-2.5-flash",
			Ollama:    "llama3.3",
		},
		open: map[Provider]bool{
			Ollama: true,
		},
	}
}

// Models returns the allowlist for a provider. For open providers the list
// is advisory only.
func (c *Catalog) Models(p Provider) []string {
	models := c.allowed[p]
	out := make([]string, len(models))
	copy(out, models)
	return out
}

// Default returns the default model id for a provider.
func (c *Catalog) Default(p Provider) string {
	return c.defaults[p]
}

// Validate resolves a requested model id against the provider allowlist.
// Empty requests get the provider default. Open providers accept any
// non-empty request unchanged. Anything not on the allowlist falls back to
// the default rather than failing: a stale selection should not break a
// review.
func (c *Catalog) Validate(p Provider, requested string) string {
	if requested == "" {
		return c.defaults[p]
	}
	if c.open[p] {
		return requested
	}
	for _, m := range c.allowed[p] {
		if m == requested {
			return requested
		}
	}
	return c.defaults[p]
}

// Resolve picks the model for one outbound call: the stage override wins
// over the per-provider selection, and the winner is validated. Called
// independently for every call; there is no current-model state.
func (c *Catalog) Resolve(p Provider, selection map[Provider]string, override string) string {
	requested := override
	if requested == "" {
		requested = selection[p]
	}
	return c.Validate(p, requested)
}
