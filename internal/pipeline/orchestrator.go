package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reviewflow/reviewflow/internal/loader"
	"github.com/reviewflow/reviewflow/internal/models"
	"github.com/reviewflow/reviewflow/internal/providers"
	"github.com/reviewflow/reviewflow/internal/rank"
)

const (
	warnNoCandidates = "no relevant files found"
	warnNoneLoaded   = "relevant files were found but none could be loaded"
)

// Engine runs the standard review pipeline. It holds only process-scoped
// services; all per-run state lives on the stack of Run.
type Engine struct {
	catalog   *models.Catalog
	log       *zap.Logger
	newClient providers.Factory
}

// NewEngine creates an Engine. A nil factory uses the real provider
// clients; tests inject fakes.
func NewEngine(catalog *models.Catalog, log *zap.Logger, factory providers.Factory) *Engine {
	if factory == nil {
		factory = defaultFactory
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{catalog: catalog, log: log, newClient: factory}
}

// Run executes the standard pipeline: validate, improve the goal, rank
// repository paths, load file content, fan out to every provider, and
// consolidate. Stages run strictly in order and each is entered once.
//
// An empty candidate or loaded-file set degrades to a prompt-only run with
// a warning instead of failing. Every other stage failure is terminal: an
// error frame is emitted and the error returned. There are no retries at
// this layer.
func (e *Engine) Run(ctx context.Context, req Request, src Source, sink Sink) (*Result, error) {
	start := time.Now()

	if err := req.Validate(); err != nil {
		return e.fail(sink, err)
	}

	systemPrompt := req.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}

	log := e.log.With(
		zap.String("repo", req.Owner+"/"+req.Repo),
		zap.String("ref", req.Ref),
	)

	emit(sink, ProgressFrame(StageImproving, "refining goal and search parameters", 10))
	improved, err := e.improvePrompt(ctx, req)
	if err != nil {
		return e.fail(sink, err)
	}
	log.Debug("prompt improved", zap.Strings("keywords", improved.Keywords), zap.Int("maxFiles", improved.MaxFiles))

	emit(sink, ProgressFrame(StageSearching, "ranking repository files", 30))
	tree, err := src.GetTree(ctx, req.Ref)
	if err != nil {
		return e.fail(sink, err)
	}
	entries := make([]rank.Entry, len(tree))
	for i, t := range tree {
		entries[i] = rank.Entry{Path: t.Path, Type: t.Type}
	}
	candidates := rank.Rank(entries, improved.Keywords, improved.MaxFiles)

	var (
		files   []loader.File
		warning string
	)
	switch {
	case len(candidates) == 0:
		// Degrade to a prompt-only review rather than failing: the standard
		// pipeline always returns something.
		warning = warnNoCandidates
		log.Info("no candidate files, continuing without context")
	default:
		if len(candidates) > improved.MaxFiles {
			candidates = candidates[:improved.MaxFiles]
		}
		emit(sink, ProgressFrame(StageLoading, fmt.Sprintf("loading up to %d files", len(candidates)), 50))
		files = loader.Load(ctx, candidates, func(ctx context.Context, path string) (string, error) {
			return src.GetFile(ctx, path, req.Ref)
		}, loader.Options{})
		if len(files) == 0 {
			warning = warnNoneLoaded
			log.Info("no candidate file could be loaded", zap.Int("candidates", len(candidates)))
		}
	}

	emit(sink, ProgressFrame(StageRunning, fmt.Sprintf("querying %d providers", len(req.Providers)), 70))
	userPrompt := buildRunnerUserPrompt(improved.Prompt, files)
	results, err := e.runProviders(ctx, req, systemPrompt, userPrompt)
	if err != nil {
		return e.fail(sink, err)
	}

	emit(sink, ProgressFrame(StageConsolidating, "synthesizing provider outputs", 90))
	consolidated, err := e.consolidate(ctx, req, systemPrompt, results)
	if err != nil {
		return e.fail(sink, err)
	}

	result := &Result{
		RunID:          uuid.NewString(),
		ImprovedPrompt: improved.Prompt,
		Keywords:       improved.Keywords,
		CandidatePaths: candidates,
		Files:          files,
		Results:        results,
		Consolidated:   consolidated,
		Meta: Meta{
			Warning:    warning,
			DurationMs: time.Since(start).Milliseconds(),
		},
	}
	emit(sink, ResultFrame(result))
	log.Info("pipeline complete",
		zap.String("runId", result.RunID),
		zap.Int("files", len(files)),
		zap.Int64("durationMs", result.Meta.DurationMs),
	)
	return result, nil
}

func (e *Engine) fail(sink Sink, err error) (*Result, error) {
	e.log.Error("pipeline failed", zap.Error(err))
	emit(sink, ErrorFrame(err.Error()))
	return nil, err
}

func emit(sink Sink, frame Frame) {
	if sink != nil {
		sink.Emit(frame)
	}
}
