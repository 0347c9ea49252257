// Package sanitize defangs untrusted content before it enters any LLM
// prompt and recovers structured data from unreliable LLM replies.
//
// File content passes through three ordered rewrites: chat-role line
// prefixes become "[ROLE]: ", <|...|> control tokens are stripped, and a
// fixed set of prompt-injection phrasings is replaced with [REDACTED].
// Secret scrubbing (API keys, JWTs, private keys, provider tokens) runs
// before the injection pass so credentials never reach a provider.
//
// SafeJSONExtract is the defensive counterpart for the reply direction: a
// strict JSON parse with a first-brace-to-last-brace fallback, returning
// nil instead of an error so callers must handle absence explicitly.
package sanitize
