// Package generation decides, for any request needing AI-generated content,
// whether to serve a cached artifact, run a single de-duplicated generation,
// validate and repair the provider's response, retry transient failures, or
// fall back to deterministic placeholder content.
//
// The Orchestrator is the entry point. It is parameterized per request by a
// ResponseSchema, so structured records and free text flow through the same
// cache-aside path. The provider itself sits behind the Provider interface
// and is supplied by the caller at construction time.
package generation
