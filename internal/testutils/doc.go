// Package testutils provides helpers shared by tests across packages:
// signed bearer tokens for authenticated requests and an in-memory slog
// handler for asserting on log output.
package testutils
