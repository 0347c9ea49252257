// Package pipeline implements the standard review pipeline: a fixed
// sequence of stages that refines a user goal, selects and loads
// repository files, fans the assembled prompt out to every requested
// provider, and consolidates the outputs into one review.
//
// The pipeline degrades rather than fails when the repository yields no
// usable context: an empty candidate or loaded-file set produces a
// prompt-only run annotated with a warning. Provider failures during
// fan-out are fatal for the whole run.
//
// Progress is reported through a Sink as typed frames; a stream always
// ends with exactly one result or error frame.
package pipeline
