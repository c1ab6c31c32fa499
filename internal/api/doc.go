// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. It translates HTTP concerns into calls on the
// career service and renders the resulting artifacts as JSON.
package api
