package loader

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/reviewflow/reviewflow/internal/sanitize"
)

// Defaults shared by both pipelines.
const (
	DefaultTotalBudget = 220000
	DefaultPerFileCap  = 30000
	DefaultConcurrency = 4

	// minPrefixKeep is the smallest remaining budget worth filling with a
	// truncated file prefix.
	minPrefixKeep = 1000
)

// File is one loaded, sanitized repository file.
type File struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Length returns the character count of the loaded content.
func (f File) Length() int { return len(f.Content) }

// FetchFunc retrieves the raw content of a single path.
type FetchFunc func(ctx context.Context, path string) (string, error)

// Options bound the loader's resource usage. Zero values take the package
// defaults.
type Options struct {
	TotalBudget int
	PerFileCap  int
	Concurrency int
}

func (o Options) withDefaults() Options {
	if o.TotalBudget <= 0 {
		o.TotalBudget = DefaultTotalBudget
	}
	if o.PerFileCap <= 0 {
		o.PerFileCap = DefaultPerFileCap
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	return o
}

// Load fetches candidate paths under a strict character budget. Candidates
// are processed in sequential batches of opts.Concurrency; fetches inside a
// batch run concurrently. Files longer than the per-file cap are discarded
// whole, never truncated; everything kept passes through sanitization.
// Once the running total would exceed the budget, at most one truncated
// prefix is kept (only when more than minPrefixKeep characters of budget
// remain) and loading stops.
//
// Per-file fetch errors drop the file without aborting the batch. Loading
// fewer files than requested, including zero, is a valid outcome; callers
// decide whether an empty result is fatal.
func Load(ctx context.Context, paths []string, fetch FetchFunc, opts Options) []File {
	opts = opts.withDefaults()

	var (
		files []File
		total int
	)

	for start := 0; start < len(paths); start += opts.Concurrency {
		end := start + opts.Concurrency
		if end > len(paths) {
			end = len(paths)
		}

		batch := paths[start:end]
		contents := make([]string, len(batch))
		loaded := make([]bool, len(batch))

		var g errgroup.Group
		for i, path := range batch {
			g.Go(func() error {
				content, err := fetch(ctx, path)
				if err != nil {
					return nil
				}
				contents[i] = content
				loaded[i] = true
				return nil
			})
		}
		_ = g.Wait()

		for i, path := range batch {
			if !loaded[i] {
				continue
			}
			if len(contents[i]) > opts.PerFileCap {
				continue
			}

			content := sanitize.File(contents[i], opts.PerFileCap)
			if total+len(content) > opts.TotalBudget {
				if remaining := opts.TotalBudget - total; remaining > minPrefixKeep {
					files = append(files, File{Path: path, Content: content[:remaining]})
				}
				return files
			}
			files = append(files, File{Path: path, Content: content})
			total += len(content)
		}
	}

	return files
}
