package agents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/reviewflow/reviewflow/internal/loader"
	"github.com/reviewflow/reviewflow/internal/models"
	"github.com/reviewflow/reviewflow/internal/pipeline"
	"github.com/reviewflow/reviewflow/internal/providers"
	"github.com/reviewflow/reviewflow/internal/repo"
	"github.com/reviewflow/reviewflow/internal/sanitize"
	"github.com/reviewflow/reviewflow/internal/scope"
)

// Source is the repository access an agent run needs: the scope resolver's
// view plus file content.
type Source interface {
	GetTree(ctx context.Context, ref string) ([]repo.TreeEntry, error)
	ListCommits(ctx context.Context, ref string, n int) ([]repo.Commit, error)
	GetCommitDetail(ctx context.Context, sha string) (*repo.CommitDetail, error)
	GetFile(ctx context.Context, path, ref string) (string, error)
}

// maxGoalLen bounds the user goal before any call is made.
const maxGoalLen = 20000

// ReviewRequest describes one agent-mode review.
type ReviewRequest struct {
	Owner        string                     `json:"owner"`
	Repo         string                     `json:"repo"`
	Ref          string                     `json:"ref"`
	Scope        string                     `json:"scope,omitempty"`
	Goal         string                     `json:"goal"`
	SystemPrompt string                     `json:"systemPrompt,omitempty"`
	Providers    []models.Provider          `json:"providers"`
	Selections   map[models.Provider]string `json:"models,omitempty"`
	Roles        []Role                     `json:"roles,omitempty"`
	Confidence   bool                       `json:"confidence,omitempty"`
}

// enabledRoles returns the requested role subset, defaulting to all four.
func (r *ReviewRequest) enabledRoles() []Role {
	if len(r.Roles) == 0 {
		return AllRoles
	}
	return r.Roles
}

// AgentResult is one specialist's raw review output.
type AgentResult struct {
	Role     Role            `json:"role"`
	Provider models.Provider `json:"provider"`
	Model    string          `json:"model"`
	Output   string          `json:"output"`
}

// RunResult is the terminal aggregate of an agent run.
type RunResult struct {
	RunID      string        `json:"runId"`
	Files      []string      `json:"files"`
	Agents     []AgentResult `json:"agents"`
	Synthesis  string        `json:"synthesis"`
	Confidence *Confidence   `json:"confidence,omitempty"`
	DurationMs int64         `json:"durationMs"`
}

// Dispatcher runs the enabled specialists against a resolved file set and
// synthesizes their findings. Unlike the standard pipeline, agent mode
// never degrades: an empty scope resolution or an empty file load is an
// error, because specialist review without code is meaningless.
type Dispatcher struct {
	catalog   *models.Catalog
	log       *zap.Logger
	newClient providers.Factory
}

// NewDispatcher creates a Dispatcher. A nil factory uses the real provider
// clients.
func NewDispatcher(catalog *models.Catalog, log *zap.Logger, factory providers.Factory) *Dispatcher {
	if factory == nil {
		factory = func(p models.Provider, model string) (providers.Completer, error) {
			return providers.New(p, model)
		}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{catalog: catalog, log: log, newClient: factory}
}

func (r *ReviewRequest) validate() error {
	if r.Owner == "" || r.Repo == "" {
		return fmt.Errorf("repository identifier must have owner and name")
	}
	if r.Goal == "" {
		return fmt.Errorf("goal must not be empty")
	}
	if err := sanitize.ValidateLength(r.Goal, maxGoalLen); err != nil {
		return fmt.Errorf("goal too long: %w", err)
	}
	if len(r.Providers) == 0 {
		return fmt.Errorf("at least one provider is required")
	}
	for _, p := range r.Providers {
		if !models.Known(string(p)) {
			return fmt.Errorf("unknown provider: %s", p)
		}
	}
	for _, role := range r.Roles {
		if SystemPrompt(role) == "" {
			return fmt.Errorf("unknown role: %s", role)
		}
	}
	return nil
}

// Run resolves the scope, loads the files, dispatches every enabled role
// concurrently with providers assigned round-robin, then synthesizes on
// the first provider. All specialist calls must succeed. The optional
// confidence assessment is advisory: its failure only logs.
func (d *Dispatcher) Run(ctx context.Context, req ReviewRequest, src Source) (*RunResult, error) {
	start := time.Now()

	if err := req.validate(); err != nil {
		return nil, err
	}

	sc := scope.Parse(req.Scope)
	if sc.Kind == scope.KindInvalid {
		return nil, fmt.Errorf("invalid scope %q: expected a commit count, a glob, or a file path", req.Scope)
	}

	paths, err := scope.ResolveFiles(ctx, src, sc, req.Ref)
	if err != nil {
		return nil, fmt.Errorf("resolving scope: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("scope %q matched no files", sc.String())
	}

	files := loader.Load(ctx, paths, func(ctx context.Context, path string) (string, error) {
		return src.GetFile(ctx, path, req.Ref)
	}, loader.Options{})
	if len(files) == 0 {
		return nil, fmt.Errorf("none of the %d scoped files could be loaded", len(paths))
	}

	log := d.log.With(zap.String("repo", req.Owner+"/"+req.Repo), zap.Int("files", len(files)))
	log.Info("dispatching agents", zap.Int("providers", len(req.Providers)))

	userPrompt := buildAgentUserPrompt(req.Goal, pipeline.BuildFileContext(files))
	roles := req.enabledRoles()
	results := make([]AgentResult, len(roles))

	g, gctx := errgroup.WithContext(ctx)
	for i, role := range roles {
		provider := req.Providers[i%len(req.Providers)]
		g.Go(func() error {
			model := d.catalog.Resolve(provider, req.Selections, "")
			client, err := d.newClient(provider, model)
			if err != nil {
				return fmt.Errorf("creating %s provider for %s: %w", provider, role, err)
			}
			resp, err := client.Complete(gctx, providers.Request{
				SystemPrompt: SystemPrompt(role),
				UserPrompt:   userPrompt,
				MaxTokens:    8192,
			})
			if err != nil {
				return fmt.Errorf("%s (%s): %w", role, provider, err)
			}
			results[i] = AgentResult{Role: role, Provider: provider, Model: model, Output: resp.Content}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	synthesis, err := d.synthesize(ctx, req, results)
	if err != nil {
		return nil, fmt.Errorf("synthesis: %w", err)
	}

	run := &RunResult{
		RunID:     uuid.NewString(),
		Files:     filePaths(files),
		Agents:    results,
		Synthesis: synthesis,
	}

	if req.Confidence {
		conf, err := d.assessConfidence(ctx, req, synthesis)
		if err != nil {
			log.Warn("confidence assessment failed", zap.Error(err))
		} else {
			run.Confidence = conf
		}
	}

	run.DurationMs = time.Since(start).Milliseconds()
	log.Info("agent run complete", zap.String("runId", run.RunID), zap.Int64("durationMs", run.DurationMs))
	return run, nil
}

const synthesisInstruction = `Merge the findings of the specialist code reviewers below into one report.

Produce:
1. A one-paragraph overall assessment.
2. Finding counts by severity (critical, high, medium, low), deduplicating findings that multiple specialists reported.
3. Findings grouped by urgency:
   - Fix now: criticals that block everything
   - This PR: must land with this change
   - This sprint: important but separable
   - Backlog: worth tracking, not urgent
4. Detailed findings, and refactoring plans for any large files identified, condensed to their first safe step and target shape.

Attribute nothing to individual reviewers. Resolve contradictions by favoring the more specific finding.`

// synthesize merges the specialist outputs with one call on the first
// provider, carrying the request's template system prompt.
func (d *Dispatcher) synthesize(ctx context.Context, req ReviewRequest, results []AgentResult) (string, error) {
	var b strings.Builder
	b.WriteString(synthesisInstruction)
	b.WriteString("\n")
	for _, r := range results {
		fmt.Fprintf(&b, "\n--- %s FINDINGS ---\n%s\n", strings.ToUpper(string(r.Role)), r.Output)
	}

	provider := req.Providers[0]
	model := d.catalog.Resolve(provider, req.Selections, "")
	client, err := d.newClient(provider, model)
	if err != nil {
		return "", err
	}
	resp, err := client.Complete(ctx, providers.Request{
		SystemPrompt: templatePrompt(req),
		UserPrompt:   b.String(),
		MaxTokens:    8192,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

func templatePrompt(req ReviewRequest) string {
	if req.SystemPrompt != "" {
		return req.SystemPrompt
	}
	return pipeline.DefaultSystemPrompt
}

func (d *Dispatcher) assessConfidence(ctx context.Context, req ReviewRequest, synthesis string) (*Confidence, error) {
	provider := req.Providers[0]
	model := d.catalog.Resolve(provider, req.Selections, "")
	client, err := d.newClient(provider, model)
	if err != nil {
		return nil, err
	}
	resp, err := client.Complete(ctx, providers.Request{
		SystemPrompt: confidenceSystemPrompt,
		UserPrompt:   "Assess these review findings:\n\n" + synthesis,
		MaxTokens:    1024,
	})
	if err != nil {
		return nil, err
	}
	conf := parseConfidence(resp.Content)
	if conf == nil {
		return nil, fmt.Errorf("no parseable confidence object in reply")
	}
	return conf, nil
}

// buildAgentUserPrompt is the shared user prompt every specialist
// receives: the sanitized goal plus the loaded file context.
func buildAgentUserPrompt(goal, fileContext string) string {
	var b strings.Builder
	b.WriteString("Review the files below against this goal:\n\n")
	b.WriteString(sanitize.Text(goal, maxGoalLen))
	b.WriteString("\n\n--- BEGIN REPOSITORY CONTEXT ---\n\n")
	b.WriteString(fileContext)
	b.WriteString("\n\n--- END REPOSITORY CONTEXT ---")
	return b.String()
}

func filePaths(files []loader.File) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths
}
