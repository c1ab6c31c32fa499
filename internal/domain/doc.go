// Package domain defines the core entities of the career-assistance service:
// the cached Artifact produced by AI generation and the typed payloads the
// three content variants decode into (industry insights, quizzes and
// free-text letters). It has no dependencies on storage or transport.
package domain
