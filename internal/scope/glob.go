package scope

import (
	"regexp"
	"strings"
	"sync"
)

var (
	globMu    sync.Mutex
	globCache = map[string]*regexp.Regexp{}
)

// Match reports whether path matches a glob pattern. Supported syntax:
// "*" matches within one path segment, "?" matches a single character,
// "**" matches any number of segments (including none). The pattern is
// anchored to the path start unless it begins with "**".
func Match(path, pattern string) bool {
	re := compileGlob(pattern)
	if re == nil {
		return false
	}
	return re.MatchString(path)
}

func compileGlob(pattern string) *regexp.Regexp {
	globMu.Lock()
	defer globMu.Unlock()
	if re, ok := globCache[pattern]; ok {
		return re
	}

	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(pattern); {
		switch {
		case strings.HasPrefix(pattern[i:], "**/"):
			b.WriteString(`(?:[^/]+/)*`)
			i += 3
		case strings.HasPrefix(pattern[i:], "**"):
			b.WriteString(`.*`)
			i += 2
		case pattern[i] == '*':
			b.WriteString(`[^/]*`)
			i++
		case pattern[i] == '?':
			b.WriteString(`[^/]`)
			i++
		default:
			b.WriteString(regexp.QuoteMeta(string(pattern[i])))
			i++
		}
	}
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		globCache[pattern] = nil
		return nil
	}
	globCache[pattern] = re
	return re
}
