// Package store defines the key-value storage the todo list persists into.
package store

// KV is a synchronous string key-value store, shaped like browser local
// storage. Get reports whether the key was present.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}
