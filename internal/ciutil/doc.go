// Package ciutil detects CI environments and resolves the test database
// URL from the environment.
//
// Integration tests skip when no database is configured locally, but a CI
// run without one is a misconfiguration and should fail loudly.
package ciutil
