// Package providers implements the LLM provider clients behind a single
// Completer interface: given system and user text and a model id, return
// one text completion.
//
// Three request shapes are covered: OpenAI carries system and user text as
// separate role messages; Anthropic and Gemini carry the system prompt in
// a dedicated request field with a user-only message list; Ollama has no
// system role at all, so both texts are concatenated into one prompt
// block.
//
// Every call carries its own 60-second deadline. Failures are
// distinguishable by kind: HTTP error status, empty completion body,
// timeout, and authentication. 429 responses are retried with exponential
// backoff inside the call; no other failure is retried.
package providers
