package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/reviewflow/reviewflow/internal/models"
	"github.com/reviewflow/reviewflow/internal/providers"
)

func providerRequest(system, user string) providers.Request {
	return providers.Request{
		SystemPrompt: system,
		UserPrompt:   user,
		MaxTokens:    8192,
	}
}

// runProviders dispatches the same prompt to every provider concurrently.
// Each call resolves its own model id before dispatch. Results come back
// in input order regardless of completion order. Any single failure fails
// the whole batch: the consolidation contract assumes one output per
// requested provider, so partial result sets are not returned.
func (e *Engine) runProviders(ctx context.Context, req Request, systemPrompt, userPrompt string) ([]ProviderResult, error) {
	results := make([]ProviderResult, len(req.Providers))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range req.Providers {
		g.Go(func() error {
			model := e.catalog.Resolve(p, req.Selections, "")
			client, err := e.newClient(p, model)
			if err != nil {
				return fmt.Errorf("creating %s provider: %w", p, err)
			}
			resp, err := client.Complete(gctx, providerRequest(systemPrompt, userPrompt))
			if err != nil {
				return fmt.Errorf("%s call: %w", p, err)
			}
			results[i] = ProviderResult{Provider: p, Output: resp.Content}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// consolidate merges the independent provider outputs with one synthesis
// call. The consolidation stage uses the request's override when present,
// otherwise the first provider.
func (e *Engine) consolidate(ctx context.Context, req Request, systemPrompt string, results []ProviderResult) (string, error) {
	provider := req.Consolidator.Provider
	if provider == "" {
		provider = req.Providers[0]
	}
	model := e.catalog.Resolve(provider, req.Selections, req.Consolidator.Model)

	client, err := e.newClient(provider, model)
	if err != nil {
		return "", fmt.Errorf("creating consolidator provider: %w", err)
	}

	resp, err := client.Complete(ctx, providerRequest(systemPrompt, buildConsolidationPrompt(results)))
	if err != nil {
		return "", fmt.Errorf("consolidation call (%s): %w", provider, err)
	}
	return resp.Content, nil
}

// defaultFactory adapts providers.New to the engine's factory type.
func defaultFactory(p models.Provider, model string) (providers.Completer, error) {
	return providers.New(p, model)
}
