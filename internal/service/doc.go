// Package service implements the career-assistance use cases on top of the
// generation orchestrator.
//
// CareerService turns caller input into normalized generation keys and
// requests, obtains artifacts through the orchestrator and decodes their
// payloads into typed results. Every result carries the artifact it came
// from, so callers can tell fresh content from stale or fallback content.
package service
