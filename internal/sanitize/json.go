package sanitize

import (
	"encoding/json"
	"strings"
)

// SafeJSONExtract pulls a JSON object out of free-form LLM output. It tries
// a strict parse first, then falls back to the substring between the first
// "{" and the last "}". Returns nil when no object can be recovered; never
// returns an error.
func SafeJSONExtract(text string) map[string]any {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if obj := tryParseObject(text); obj != nil {
		return obj
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil
	}
	return tryParseObject(text[start : end+1])
}

func tryParseObject(text string) map[string]any {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return obj
}
