// Package content defines the career content variants served through the
// generation orchestrator: industry insights, interview quizzes, cover
// letters and improvement tips.
//
// For each variant it provides the response schema, the rendered prompt and a
// deterministic fallback policy. Prompts are text templates embedded in the
// binary and may be overridden from a directory. Static fallback content is
// an embedded YAML bank.
package content
