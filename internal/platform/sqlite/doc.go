// Package sqlite provides an artifact store backed by an embedded SQLite
// database (modernc.org/sqlite, no cgo). It is the default store for local
// development and gives tests a real SQL store without external services.
package sqlite
