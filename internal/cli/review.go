package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/reviewflow/reviewflow/internal/config"
	"github.com/reviewflow/reviewflow/internal/models"
	"github.com/reviewflow/reviewflow/internal/output"
	"github.com/reviewflow/reviewflow/internal/pipeline"
	"github.com/reviewflow/reviewflow/internal/providers"
	"github.com/reviewflow/reviewflow/internal/repo"
)

// Shared review flags
var (
	flagRepo         string
	flagRef          string
	flagProviders    string
	flagModels       []string
	flagImprover     string
	flagConsolidator string
	flagSystemPrompt string
	flagFormat       string
	flagOut          string
)

func addSharedFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagRepo, "repo", "", "Repository as owner/name (required)")
	cmd.Flags().StringVar(&flagRef, "ref", "main", "Git ref to review")
	cmd.Flags().StringVar(&flagProviders, "providers", "", "Providers to query (comma-separated)")
	cmd.Flags().StringArrayVar(&flagModels, "model", nil, "Model selection as provider=model (repeatable)")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format (text, json, markdown)")
	cmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
}

var reviewCmd = &cobra.Command{
	Use:   "review [goal]",
	Short: "Run a multi-provider review for a stated goal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return err
		}

		owner, name, err := repo.ParseFullName(flagRepo)
		if err != nil {
			return err
		}
		src, err := repo.NewClient(owner, name)
		if err != nil {
			return err
		}

		req := pipeline.Request{
			Owner:        owner,
			Repo:         name,
			Ref:          flagRef,
			SystemPrompt: cfg.SystemPrompt,
			Goal:         args[0],
			Providers:    resolveProviders(cfg),
			Selections:   resolveSelections(cfg),
		}
		if req.Improver, err = parseOverride(flagImprover); err != nil {
			return err
		}
		if req.Consolidator, err = parseOverride(flagConsolidator); err != nil {
			return err
		}
		if flagSystemPrompt != "" {
			data, err := os.ReadFile(flagSystemPrompt)
			if err != nil {
				return fmt.Errorf("reading system prompt file: %w", err)
			}
			req.SystemPrompt = string(data)
		}

		log := newLogger(logLevel(cfg))
		defer log.Sync() //nolint:errcheck

		engine := pipeline.NewEngine(models.NewCatalog(), log, nil)

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
		defer cancel()

		result, err := engine.Run(ctx, req, src, stderrSink{})
		if err != nil {
			exitCode = classifyExit(err)
			fmt.Fprintf(os.Stderr, "review failed: %v\n", err)
			return nil
		}

		return writeResult(func(w io.Writer, wr output.Writer) error {
			return wr.WriteResult(w, result)
		})
	},
}

func init() {
	addSharedFlags(reviewCmd)
	reviewCmd.Flags().StringVar(&flagImprover, "improver", "", "Improver override as provider[=model]")
	reviewCmd.Flags().StringVar(&flagConsolidator, "consolidator", "", "Consolidator override as provider[=model]")
	reviewCmd.Flags().StringVar(&flagSystemPrompt, "system-prompt", "", "Path to a system prompt template file")
}

// stderrSink prints progress stages to stderr, keeping stdout clean for
// the formatted result.
type stderrSink struct{}

func (stderrSink) Emit(f pipeline.Frame) {
	if f.Type != "progress" {
		return
	}
	if p, ok := f.Data.(pipeline.Progress); ok {
		fmt.Fprintf(os.Stderr, "[%3d%%] %s: %s\n", p.Progress, p.Stage, p.Message)
	}
}

func logLevel(cfg config.Config) string {
	if flagLogLevel != "" {
		return flagLogLevel
	}
	return cfg.LogLevel
}

func resolveProviders(cfg config.Config) []models.Provider {
	names := cfg.Providers
	if flagProviders != "" {
		names = splitComma(flagProviders)
	}
	out := make([]models.Provider, len(names))
	for i, n := range names {
		out[i] = models.Provider(n)
	}
	return out
}

func resolveSelections(cfg config.Config) map[models.Provider]string {
	sel := make(map[models.Provider]string)
	for p, m := range cfg.Models {
		sel[models.Provider(p)] = m
	}
	for _, pair := range flagModels {
		p, m, ok := strings.Cut(pair, "=")
		if ok && p != "" && m != "" {
			sel[models.Provider(p)] = m
		}
	}
	if len(sel) == 0 {
		return nil
	}
	return sel
}

// parseOverride parses a stage override flag: "provider" or
// "provider=model".
func parseOverride(s string) (pipeline.StageOverride, error) {
	if s == "" {
		return pipeline.StageOverride{}, nil
	}
	p, m, _ := strings.Cut(s, "=")
	if !models.Known(p) {
		return pipeline.StageOverride{}, fmt.Errorf("unknown provider %q in override", p)
	}
	return pipeline.StageOverride{Provider: models.Provider(p), Model: m}, nil
}

func splitComma(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func classifyExit(err error) int {
	if providers.IsAuthError(err) {
		return ExitAuthError
	}
	if pipeline.IsValidation(err) {
		return ExitUsageError
	}
	return ExitRuntimeError
}

// writeResult renders to --out or stdout using the --format writer.
func writeResult(render func(io.Writer, output.Writer) error) error {
	wr, err := output.GetWriter(flagFormat)
	if err != nil {
		return err
	}
	var w io.Writer = os.Stdout
	if flagOut != "" {
		f, err := os.Create(flagOut)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	return render(w, wr)
}
