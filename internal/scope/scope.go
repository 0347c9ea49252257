package scope

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind tags the parsed variant of a review scope.
type Kind string

const (
	KindEmpty   Kind = "empty"
	KindCommits Kind = "commits"
	KindGlob    Kind = "glob"
	KindFile    Kind = "file"
	KindInvalid Kind = "invalid"
)

// Scope is the parsed form of the free-text scope argument of an
// agent-mode review. Created once per request; immutable.
type Scope struct {
	Kind    Kind
	Commits int    // set for KindCommits
	Pattern string // set for KindGlob
	Path    string // set for KindFile
	Raw     string
}

var commitCountRe = regexp.MustCompile(`^[0-9]+$`)

// Parse classifies a raw scope argument. The grammar, tried in order:
// empty, positive integer (commit count), glob (contains * ? or [), path
// (contains a separator), otherwise invalid.
func Parse(raw string) Scope {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Scope{Kind: KindEmpty, Raw: raw}
	}

	if commitCountRe.MatchString(trimmed) {
		if n, err := strconv.Atoi(trimmed); err == nil && n > 0 {
			return Scope{Kind: KindCommits, Commits: n, Raw: raw}
		}
		return Scope{Kind: KindInvalid, Raw: raw}
	}

	if strings.ContainsAny(trimmed, "*?[") {
		return Scope{Kind: KindGlob, Pattern: trimmed, Raw: raw}
	}

	// Anything with a path separator is treated as a file path, whether or
	// not the last segment carries a recognizable extension.
	if strings.Contains(trimmed, "/") {
		return Scope{Kind: KindFile, Path: trimmed, Raw: raw}
	}

	return Scope{Kind: KindInvalid, Raw: raw}
}

func (s Scope) String() string {
	switch s.Kind {
	case KindCommits:
		return fmt.Sprintf("last %d commit(s)", s.Commits)
	case KindGlob:
		return "glob " + s.Pattern
	case KindFile:
		return "file " + s.Path
	case KindEmpty:
		return "last commit"
	default:
		return "invalid scope " + strconv.Quote(s.Raw)
	}
}
