package rank

import (
	"sort"
	"strings"
)

// Entry is one repository tree entry offered for ranking.
type Entry struct {
	Path string
	Type string // "file" or "dir"
}

// uiKeywords, apiKeywords, and authKeywords trigger path-shape bonuses when
// any of them appears in the search keyword set.
var (
	uiKeywords   = map[string]bool{"ui": true, "react": true, "component": true, "modal": true, "page": true}
	apiKeywords  = map[string]bool{"api": true, "route": true, "endpoint": true, "server": true}
	authKeywords = map[string]bool{"auth": true, "login": true, "oauth": true, "nextauth": true}
)

// Score computes the relevance of a path against a keyword set. Filename
// matches count double a full-path match; a handful of path-shape bonuses
// nudge framework-typical files up; dependency and lockfile noise is pushed
// below zero so it never ranks.
func Score(path string, keywords []string) int {
	lower := strings.ToLower(path)
	filename := lower
	if i := strings.LastIndex(lower, "/"); i >= 0 {
		filename = lower[i+1:]
	}

	score := 0
	var anyUI, anyAPI, anyAuth bool
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		switch {
		case strings.Contains(filename, kw):
			score += 8
		case strings.Contains(lower, kw):
			score += 4
		}
		if uiKeywords[kw] {
			anyUI = true
		}
		if apiKeywords[kw] {
			anyAPI = true
		}
		if authKeywords[kw] {
			anyAuth = true
		}
	}

	if anyUI && (strings.HasSuffix(lower, ".tsx") || strings.HasSuffix(lower, ".jsx")) {
		score += 2
	}
	if anyAPI && strings.Contains(lower, "/api/") {
		score += 2
	}
	if anyAuth && strings.Contains(lower, "auth") {
		score += 2
	}

	if strings.Contains(lower, "node_modules/") || strings.Contains(lower, ".next/") {
		score -= 100
	}
	if strings.HasSuffix(lower, ".lock") {
		score -= 5
	}

	return score
}

// Rank scores every file entry and returns the best paths, highest score
// first. Entries scoring zero or below are dropped. The result is capped at
// max(maxFiles*2, 20): the over-fetch survives later per-file size-cap
// skips in the loader. Ties keep tree order, so output is deterministic for
// a given tree.
func Rank(tree []Entry, keywords []string, maxFiles int) []string {
	type ranked struct {
		path  string
		score int
	}

	var scored []ranked
	for _, e := range tree {
		if e.Type != "file" {
			continue
		}
		if s := Score(e.Path, keywords); s > 0 {
			scored = append(scored, ranked{path: e.Path, score: s})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	limit := maxFiles * 2
	if limit < 20 {
		limit = 20
	}
	if len(scored) > limit {
		scored = scored[:limit]
	}

	paths := make([]string, len(scored))
	for i, r := range scored {
		paths[i] = r.path
	}
	return paths
}
