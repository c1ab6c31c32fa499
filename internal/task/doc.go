// Package task runs background work off the request path. Its main job is
// refreshing cached artifacts before readers find them expired: a scheduler
// periodically lists due artifacts and feeds refresh tasks through a bounded
// queue to a pool of workers.
//
// Tasks are not persisted. The artifact store already records which
// artifacts are due, so a restart simply rediscovers them on the next tick.
package task
