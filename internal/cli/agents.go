package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/reviewflow/reviewflow/internal/agents"
	"github.com/reviewflow/reviewflow/internal/config"
	"github.com/reviewflow/reviewflow/internal/models"
	"github.com/reviewflow/reviewflow/internal/output"
	"github.com/reviewflow/reviewflow/internal/repo"
)

var (
	flagScope      string
	flagRoles      string
	flagConfidence bool
)

var agentsCmd = &cobra.Command{
	Use:   "agents <goal>",
	Short: "Run the specialist review agents over a scope",
	Long: `Dispatches the specialist reviewers (bugs, security, performance,
refactoring) over the scoped files with the given goal and synthesizes
their findings. --roles narrows the run to a subset of specialists.

The scope selects the files to review:
  (empty)        files changed by the latest commit
  5              files changed by the last 5 commits
  src/**/*.go    files matching a glob
  src/main.go    a single file`,
	Args: cobra.ExactArgs(1),
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

		req := agents.ReviewRequest{
			Owner:        owner,
			Repo:         name,
			Ref:          flagRef,
			Scope:        flagScope,
			Goal:         args[0],
			SystemPrompt: cfg.SystemPrompt,
			Providers:    resolveProviders(cfg),
			Selections:   resolveSelections(cfg),
			Roles:        parseRoles(flagRoles),
			Confidence:   flagConfidence,
		}

		log := newLogger(logLevel(cfg))
		defer log.Sync() //nolint:errcheck

		dispatcher := agents.NewDispatcher(models.NewCatalog(), log, nil)

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
		defer cancel()

		run, err := dispatcher.Run(ctx, req, src)
		if err != nil {
			exitCode = classifyExit(err)
			fmt.Fprintf(os.Stderr, "agent run failed: %v\n", err)
			return nil
		}

		return writeResult(func(w io.Writer, wr output.Writer) error {
			return wr.WriteAgentResult(w, run)
		})
	},
}

func parseRoles(s string) []agents.Role {
	names := splitComma(s)
	roles := make([]agents.Role, len(names))
	for i, n := range names {
		roles[i] = agents.Role(n)
	}
	return roles
}

func init() {
	addSharedFlags(agentsCmd)
	agentsCmd.Flags().StringVar(&flagScope, "scope", "", "Review scope: commit count, glob, or file path (default: last commit)")
	agentsCmd.Flags().StringVar(&flagRoles, "roles", "", "Comma-separated role subset (default: all roles)")
	agentsCmd.Flags().BoolVar(&flagConfidence, "confidence", false, "Request a confidence assessment of the findings")
}
