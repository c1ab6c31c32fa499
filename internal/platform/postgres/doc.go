// Package postgres provides the PostgreSQL implementation of the artifact
// store defined in the internal/store package, together with the embedded
// goose migrations that create its schema. It handles query execution and
// the mapping between domain artifacts and database records.
package postgres
