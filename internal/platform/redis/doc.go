// Package redis provides a read-through Redis tier that sits in front of a
// durable artifact store. The durable store stays authoritative: cache
// failures are logged and bypassed, never surfaced.
package redis
