package pipeline

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/reviewflow/reviewflow/internal/sanitize"
)

const (
	minMaxFiles     = 4
	maxMaxFiles     = 25
	defaultMaxFiles = 12
	maxKeywords     = 12
)

// Improved is the outcome of the prompt-improvement stage. Every field has
// a fallback, so a malformed improver reply never fails the run; only the
// provider call itself can.
type Improved struct {
	Prompt   string
	Keywords []string
	MaxFiles int
}

// improvePrompt makes one provider round trip asking for a refined prompt
// and search parameters, accepting whatever well-formed fields come back.
func (e *Engine) improvePrompt(ctx context.Context, req Request) (Improved, error) {
	provider := req.Improver.Provider
	if provider == "" {
		provider = req.Providers[0]
	}
	model := e.catalog.Resolve(provider, req.Selections, req.Improver.Model)

	client, err := e.newClient(provider, model)
	if err != nil {
		return Improved{}, fmt.Errorf("creating improver provider: %w", err)
	}

	systemPrompt := req.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}

	resp, err := client.Complete(ctx, providerRequest(improverSystemPrompt, buildImproverUserPrompt(systemPrompt, req.Goal)))
	if err != nil {
		return Improved{}, fmt.Errorf("improver call (%s): %w", provider, err)
	}

	return parseImproved(resp.Content, req.Goal), nil
}

// parseImproved extracts whatever usable fields the improver returned and
// fills the rest from local fallbacks. Partial shapes are accepted
// field-by-field.
func parseImproved(content, goal string) Improved {
	improved := Improved{
		Prompt:   goal,
		Keywords: nil,
		MaxFiles: defaultMaxFiles,
	}

	obj := sanitize.SafeJSONExtract(content)
	if obj != nil {
		if p, ok := obj["improved_user_prompt"].(string); ok && strings.TrimSpace(p) != "" {
			improved.Prompt = p
		}
		if search, ok := obj["search"].(map[string]any); ok {
			if kws, ok := search["keywords"].([]any); ok {
				for _, kw := range kws {
					if s, ok := kw.(string); ok && s != "" {
						improved.Keywords = append(improved.Keywords, strings.ToLower(s))
					}
				}
			}
			if mf, ok := search["max_files"].(float64); ok {
				improved.MaxFiles = clampMaxFiles(mf)
			}
		}
	}

	if len(improved.Keywords) == 0 {
		improved.Keywords = HeuristicKeywords(goal)
	}
	return improved
}

func clampMaxFiles(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return defaultMaxFiles
	}
	n := int(math.Floor(v))
	if n < minMaxFiles {
		return minMaxFiles
	}
	if n > maxMaxFiles {
		return maxMaxFiles
	}
	return n
}

var keywordSplitRe = regexp.MustCompile(`[^a-z0-9_./-]+`)

// keywordStopwords are goal words too generic to locate anything.
var keywordStopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "that": true,
	"this": true, "from": true, "into": true, "are": true, "was": true,
	"were": true, "will": true, "would": true, "should": true, "could": true,
	"can": true, "has": true, "have": true, "had": true, "not": true,
	"but": true, "all": true, "any": true, "its": true, "it's": true,
	"our": true, "your": true, "their": true, "them": true, "they": true,
	"you": true, "when": true, "where": true, "what": true, "which": true,
	"how": true, "why": true, "who": true, "about": true, "after": true,
	"before": true, "make": true, "made": true, "need": true, "needs": true,
	"want": true, "like": true, "also": true, "some": true, "more": true,
	"please": true, "file": true, "files": true, "code": true, "codebase": true,
	"change": true, "changes": true, "update": true, "updates": true,
	"add": true, "fix": true, "new": true, "use": true, "using": true,
}

// HeuristicKeywords extracts search keywords from a raw goal when the
// improver returned none: lowercase, split on non-path characters, drop
// short tokens and stopwords, dedupe, cap at 12.
func HeuristicKeywords(goal string) []string {
	tokens := keywordSplitRe.Split(strings.ToLower(goal), -1)

	seen := make(map[string]bool)
	var keywords []string
	for _, tok := range tokens {
		if len(tok) < 3 || keywordStopwords[tok] || seen[tok] {
			continue
		}
		seen[tok] = true
		keywords = append(keywords, tok)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}
