package sanitize

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultMaxLen is the per-file character cap applied when no explicit
// limit is given.
const DefaultMaxLen = 30000

const redactedPlaceholder = "[REDACTED]"

// rolePrefixRe matches chat-role markers at the start of a line. Rewriting
// them prevents file content from impersonating conversation turns.
var rolePrefixRe = regexp.MustCompile(`(?im)^[ \t]*(?:system|user|assistant|role)[ \t]*:[ \t]*`)

// specialTokenRe matches model control tokens of the form <|...|>.
var specialTokenRe = regexp.MustCompile(`<\|[^|]*\|>`)

// injectionPatterns is a fixed set of prompt-injection phrasings. Matches
// are replaced outright rather than removed so the tampering stays visible.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(?:all\s+)?previous\s+instructions`),
	regexp.MustCompile(`(?i)disregard\s+(?:all\s+)?(?:previous|prior)\s+instructions`),
	regexp.MustCompile(`(?i)you\s+are\s+now\s+an?\s+`),
	regexp.MustCompile(`(?i)new\s+instructions\s*:`),
	regexp.MustCompile(`(?i)override\s*:`),
}

// Text defangs untrusted content before it enters a prompt. Role prefixes
// are rewritten first, then control tokens are stripped, then injection
// phrasings are redacted, and finally the result is truncated to maxLen.
// The order matters: role rewriting must see the original line starts.
// Text never fails; empty input yields "".
func Text(content string, maxLen int) string {
	if content == "" {
		return ""
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}

	result := rolePrefixRe.ReplaceAllString(content, "[ROLE]: ")
	result = specialTokenRe.ReplaceAllString(result, "")
	for _, pat := range injectionPatterns {
		result = pat.ReplaceAllString(result, redactedPlaceholder)
	}

	if len(result) > maxLen {
		result = result[:maxLen]
	}
	return result
}

// File sanitizes repository file content: secrets first so they never
// survive into any prompt, then the prompt-injection pass.
func File(content string, maxLen int) string {
	return Text(Secrets(content), maxLen)
}

// LengthError reports text exceeding a hard limit.
type LengthError struct {
	Length int
	Max    int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("content length %d exceeds limit %d", e.Length, e.Max)
}

// ValidateLength fails with a *LengthError when text is longer than max.
func ValidateLength(text string, max int) error {
	if len(text) > max {
		return &LengthError{Length: len(text), Max: max}
	}
	return nil
}

// IsLengthError checks if an error is a *LengthError.
func IsLengthError(err error) bool {
	_, ok := err.(*LengthError)
	return ok
}

// EscapeForDisplay escapes markup-significant characters for safe
// inclusion in rendered output.
func EscapeForDisplay(name string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	return r.Replace(name)
}
