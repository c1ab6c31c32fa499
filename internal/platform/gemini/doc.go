// Package gemini implements generation.Provider on Google's Gemini API using
// the google.golang.org/genai SDK. A Client makes exactly one API call per
// Generate and classifies failures so the orchestrator's retry policy can
// tell transient errors from permanent ones.
package gemini
