// Package session persists the user's database selection between
// requests.
//
// The routing layer needs exactly one piece of session state: the alias
// of the last-selected database. Manager pairs a cookie-carried opaque
// token with a Store holding that single value per session. MemoryStore
// suits single-process deployments and tests; RedisStore shares
// selections across processes.
package session
