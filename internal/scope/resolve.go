package scope

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/reviewflow/reviewflow/internal/repo"
)

const commitBatchSize = 5

// Source is the slice of the repository client scope resolution needs.
type Source interface {
	GetTree(ctx context.Context, ref string) ([]repo.TreeEntry, error)
	ListCommits(ctx context.Context, ref string, n int) ([]repo.Commit, error)
	GetCommitDetail(ctx context.Context, sha string) (*repo.CommitDetail, error)
}

// ResolveFiles turns a parsed scope into a concrete file list at ref.
// Invalid scopes must be rejected by the caller before resolution.
func ResolveFiles(ctx context.Context, src Source, sc Scope, ref string) ([]string, error) {
	switch sc.Kind {
	case KindFile:
		return []string{sc.Path}, nil
	case KindGlob:
		return resolveGlob(ctx, src, sc.Pattern, ref)
	case KindCommits:
		return resolveCommits(ctx, src, sc.Commits, ref)
	case KindEmpty:
		// An empty scope reviews the most recent commit.
		return resolveCommits(ctx, src, 1, ref)
	default:
		return nil, fmt.Errorf("cannot resolve %s", sc)
	}
}

func resolveGlob(ctx context.Context, src Source, pattern, ref string) ([]string, error) {
	tree, err := src.GetTree(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("listing tree for glob: %w", err)
	}
	var matched []string
	for _, e := range tree {
		if e.Type != "file" {
			continue
		}
		if Match(e.Path, pattern) {
			matched = append(matched, e.Path)
		}
	}
	return matched, nil
}

// resolveCommits unions the non-removed files changed by the n most recent
// commits. Commit details are fetched in sequential batches of five
// concurrent calls. A failure fetching one commit's detail contributes
// zero files for that commit without aborting the others.
func resolveCommits(ctx context.Context, src Source, n int, ref string) ([]string, error) {
	commits, err := src.ListCommits(ctx, ref, n)
	if err != nil {
		return nil, fmt.Errorf("listing commits: %w", err)
	}

	details := make([]*repo.CommitDetail, len(commits))
	for start := 0; start < len(commits); start += commitBatchSize {
		end := start + commitBatchSize
		if end > len(commits) {
			end = len(commits)
		}
		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				d, err := src.GetCommitDetail(ctx, commits[i].SHA)
				if err == nil {
					details[i] = d
				}
				return nil
			})
		}
		_ = g.Wait()
	}

	seen := make(map[string]bool)
	var files []string
	for _, d := range details {
		if d == nil {
			continue
		}
		for _, f := range d.Files {
			if f.Status == "removed" || seen[f.Path] {
				continue
			}
			seen[f.Path] = true
			files = append(files, f.Path)
		}
	}
	return files, nil
}
